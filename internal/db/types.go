package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/career"
	"github.com/jonathan/placement-advisor/internal/placement"
)

// Default history sizes used when a caller passes a non-positive limit.
const (
	DefaultUserHistoryLimit  = 50
	DefaultAdminHistoryLimit = 500
)

// Prediction is a stored placement prediction together with the profile it was made for.
type Prediction struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	placement.Profile
	Label       string    `json:"label"`
	Placed      bool      `json:"placed"`
	Probability float64   `json:"probability"`
	Tier        string    `json:"tier,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PredictionWithUser is a Prediction joined with its owner's username, for admin views.
type PredictionWithUser struct {
	Prediction
	Username string `json:"username"`
}

// RecommendationRun is a persisted career recommendation request and its results.
type RecommendationRun struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"user_id"`
	Course    string                  `json:"course"`
	Skills    string                  `json:"skills"`
	Interest  string                  `json:"interest"`
	Results   []career.Recommendation `json:"results"`
	CreatedAt time.Time               `json:"created_at"`
}

// PredictionStats aggregates every stored prediction.
type PredictionStats struct {
	Total              int            `json:"total"`
	Placed             int            `json:"placed"`
	PlacementRate      float64        `json:"placement_rate"`
	AverageProbability float64        `json:"average_probability"`
	ByTier             map[string]int `json:"by_tier"`
}

// NewPredictionStats derives the placement rate from raw counts.
func NewPredictionStats(total, placed int, avgProbability float64, byTier map[string]int) *PredictionStats {
	stats := &PredictionStats{
		Total:              total,
		Placed:             placed,
		AverageProbability: avgProbability,
		ByTier:             byTier,
	}
	if stats.ByTier == nil {
		stats.ByTier = map[string]int{}
	}
	if total > 0 {
		stats.PlacementRate = float64(placed) / float64(total)
	}
	return stats
}

// NewPrediction builds an unsaved Prediction from a profile and its classifier result.
func NewPrediction(userID uuid.UUID, profile placement.Profile, res placement.Result) *Prediction {
	return &Prediction{
		UserID:      userID,
		Profile:     profile,
		Label:       res.Label,
		Placed:      res.Placed,
		Probability: res.Probability,
		Tier:        res.Tier,
	}
}

// HistoryLimit returns limit, or def when limit is not positive.
func HistoryLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
