package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/placement-advisor/internal/logging"
)

// maxListLimit caps the limit query parameter on history endpoints.
const maxListLimit = 1000

// parseLimit reads the optional limit query parameter. Missing means def.
func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, &ErrValidation{Field: "limit", Message: "must be a positive integer"}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, nil
}

// fail writes err as a JSON error, logging anything that maps to a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg(msg)
	}
	writeError(w, status, publicMessage(err))
}
