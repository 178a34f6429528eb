package server

import (
	"net/http"

	"github.com/jonathan/placement-advisor/internal/db"
	"github.com/jonathan/placement-advisor/internal/logging"
	"github.com/jonathan/placement-advisor/internal/metrics"
	"github.com/jonathan/placement-advisor/internal/server/middleware"
	"github.com/jonathan/placement-advisor/internal/types"
)

// handleCreatePrediction classifies a profile and stores the outcome.
func (s *Server) handleCreatePrediction(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req types.PredictionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	res, err := s.predictor.Predict(r.Context(), req.Profile)
	if err != nil {
		s.fail(w, r, "prediction failed", err)
		return
	}
	metrics.RecordPrediction(res.Label, res.Probability)

	pred := db.NewPrediction(userID, req.Profile, res)
	if err := s.store.InsertPrediction(r.Context(), pred); err != nil {
		s.fail(w, r, "failed to save prediction", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("prediction_id", pred.ID.String()).
		Str("label", res.Label).
		Float64("probability", res.Probability).
		Msg("prediction stored")

	writeJSON(w, http.StatusCreated, types.PredictionResponse{
		ID:     pred.ID.String(),
		Result: res,
	})
}

// handleListMyPredictions returns the caller's predictions, newest first.
func (s *Server) handleListMyPredictions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, err := parseLimit(r, db.DefaultUserHistoryLimit)
	if err != nil {
		s.fail(w, r, "invalid limit", err)
		return
	}

	preds, err := s.store.ListUserPredictions(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, "failed to list predictions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": preds,
		"count":       len(preds),
	})
}
