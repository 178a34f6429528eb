package types

import (
	"github.com/jonathan/placement-advisor/internal/career"
	"github.com/jonathan/placement-advisor/internal/placement"
)

// RecommendRequest carries the three inputs of the career engine.
// Every field may be empty; the engine falls back when nothing matches.
type RecommendRequest struct {
	Course   string `json:"course" validate:"max=100"`
	Skills   string `json:"skills" validate:"max=2000"`
	Interest string `json:"interest" validate:"max=100"`
}

// Validate validates the RecommendRequest using the validator.
func (r *RecommendRequest) Validate() error {
	return validate.Struct(r)
}

// RecommendResponse lists ranked career recommendations.
type RecommendResponse struct {
	RunID           string                  `json:"run_id,omitempty"`
	Recommendations []career.Recommendation `json:"recommendations"`
}

// PredictionRequest is a student profile submitted for placement prediction.
type PredictionRequest struct {
	placement.Profile
}

// Validate validates the embedded profile.
func (r *PredictionRequest) Validate() error {
	return validate.Struct(r)
}

// PredictionResponse is a classifier decision for the submitted profile.
type PredictionResponse struct {
	ID string `json:"id,omitempty"`
	placement.Result
}

// AdminStats is the dashboard summary returned to administrators.
type AdminStats struct {
	Users              int            `json:"users"`
	RecommendationRuns int            `json:"recommendation_runs"`
	Predictions        int            `json:"predictions"`
	Placed             int            `json:"placed"`
	PlacementRate      float64        `json:"placement_rate"`
	AverageProbability float64        `json:"average_probability"`
	ByTier             map[string]int `json:"by_tier"`
}
