package server

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/placement-advisor/internal/db"
	"github.com/jonathan/placement-advisor/internal/logging"
	"github.com/jonathan/placement-advisor/internal/types"
	"golang.org/x/sync/errgroup"
)

const exportFilename = "placement_predictions.csv"

// csvHeader is the column order of the prediction export.
var csvHeader = []string{
	"id", "username", "gender", "ssc_p", "ssc_b", "hsc_p", "hsc_b", "hsc_s",
	"degree_p", "degree_t", "workex", "etest_p", "domain",
	"label", "placed", "probability", "tier", "created_at",
}

// handleAdminStats returns dashboard aggregates across all users.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	var (
		stats *db.PredictionStats
		users int
		runs  int
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		stats, err = s.store.PredictionStats(ctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.store.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		runs, err = s.store.CountRecommendationRuns(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, r, "failed to compute admin stats", err)
		return
	}

	writeJSON(w, http.StatusOK, types.AdminStats{
		Users:              users,
		RecommendationRuns: runs,
		Predictions:        stats.Total,
		Placed:             stats.Placed,
		PlacementRate:      stats.PlacementRate,
		AverageProbability: stats.AverageProbability,
		ByTier:             stats.ByTier,
	})
}

// handleAdminListPredictions returns every user's predictions, newest first.
func (s *Server) handleAdminListPredictions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, db.DefaultAdminHistoryLimit)
	if err != nil {
		s.fail(w, r, "invalid limit", err)
		return
	}

	preds, err := s.store.ListAllPredictions(r.Context(), limit)
	if err != nil {
		s.fail(w, r, "failed to list predictions", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": preds,
		"count":       len(preds),
	})
}

// handleAdminExportPredictions streams the prediction list as a CSV attachment.
func (s *Server) handleAdminExportPredictions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, db.DefaultAdminHistoryLimit)
	if err != nil {
		s.fail(w, r, "invalid limit", err)
		return
	}

	preds, err := s.store.ListAllPredictions(r.Context(), limit)
	if err != nil {
		s.fail(w, r, "failed to list predictions", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=`+exportFilename)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for i := range preds {
		_ = cw.Write(predictionRecord(&preds[i]))
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("csv export interrupted")
	}
}

func predictionRecord(p *db.PredictionWithUser) []string {
	return []string{
		p.ID.String(),
		p.Username,
		p.Gender,
		formatFloat(p.SSCPercent),
		p.SSCBoard,
		formatFloat(p.HSCPercent),
		p.HSCBoard,
		p.HSCStream,
		formatFloat(p.DegreePercent),
		p.DegreeType,
		p.WorkExperience,
		formatFloat(p.AptitudePercent),
		p.Domain,
		p.Label,
		strconv.FormatBool(p.Placed),
		strconv.FormatFloat(p.Probability, 'f', 4, 64),
		p.Tier,
		p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
