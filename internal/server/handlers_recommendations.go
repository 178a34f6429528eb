package server

import (
	"net/http"

	"github.com/jonathan/placement-advisor/internal/career"
	"github.com/jonathan/placement-advisor/internal/db"
	"github.com/jonathan/placement-advisor/internal/logging"
	"github.com/jonathan/placement-advisor/internal/metrics"
	"github.com/jonathan/placement-advisor/internal/server/middleware"
	"github.com/jonathan/placement-advisor/internal/types"
)

// recommend decodes the request and runs the engine. It writes the error
// response itself and reports false when the request was rejected.
func (s *Server) recommend(w http.ResponseWriter, r *http.Request) (*types.RecommendRequest, []career.Recommendation, bool) {
	var req types.RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return nil, nil, false
	}

	recs := s.engine.Recommend(req.Course, req.Skills, req.Interest)
	fallback := s.engine.IsFallback(recs)
	metrics.RecordRecommendation(recs[0].Confidence, fallback)

	logging.Ctx(r.Context()).Debug().
		Str("course", req.Course).
		Str("interest", req.Interest).
		Int("results", len(recs)).
		Bool("fallback", fallback).
		Msg("recommendations computed")
	return &req, recs, true
}

// handlePreviewRecommendations runs the engine without storing anything.
func (s *Server) handlePreviewRecommendations(w http.ResponseWriter, r *http.Request) {
	_, recs, ok := s.recommend(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, types.RecommendResponse{Recommendations: recs})
}

// handleCreateRecommendations runs the engine and saves the run for the caller.
func (s *Server) handleCreateRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req, recs, ok := s.recommend(w, r)
	if !ok {
		return
	}

	run := &db.RecommendationRun{
		UserID:   userID,
		Course:   req.Course,
		Skills:   req.Skills,
		Interest: req.Interest,
		Results:  recs,
	}
	if err := s.store.SaveRecommendationRun(r.Context(), run); err != nil {
		s.fail(w, r, "failed to save recommendation run", err)
		return
	}

	writeJSON(w, http.StatusCreated, types.RecommendResponse{
		RunID:           run.ID.String(),
		Recommendations: recs,
	})
}

// handleListMyRecommendations returns the caller's saved runs, newest first.
func (s *Server) handleListMyRecommendations(w http.ResponseWriter, r *http.Request) {
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

	runs, err := s.store.ListUserRecommendationRuns(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, r, "failed to list recommendation runs", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}
