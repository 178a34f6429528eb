package db

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPredictionStats(t *testing.T) {
	stats := NewPredictionStats(4, 3, 0.7, map[string]int{"Tier 1": 2})
	assert.Equal(t, 0.75, stats.PlacementRate)
	assert.Equal(t, 2, stats.ByTier["Tier 1"])

	empty := NewPredictionStats(0, 0, 0, nil)
	assert.Equal(t, 0.0, empty.PlacementRate)
	assert.NotNil(t, empty.ByTier)
}

func TestHistoryLimit(t *testing.T) {
	assert.Equal(t, 50, HistoryLimit(0, DefaultUserHistoryLimit))
	assert.Equal(t, 500, HistoryLimit(-1, DefaultAdminHistoryLimit))
	assert.Equal(t, 7, HistoryLimit(7, DefaultUserHistoryLimit))
}

func TestNewPrediction(t *testing.T) {
	userID := uuid.New()
	profile := placement.Profile{Gender: "Male", Domain: "Finance"}
	p := NewPrediction(userID, profile, placement.Result{Label: "Placed", Placed: true, Probability: 0.8, Tier: "Tier 2"})

	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "Finance", p.Domain)
	assert.Equal(t, "Tier 2", p.Tier)
	assert.Equal(t, uuid.Nil, p.ID)
}

func TestPrediction_JSONFlattensProfile(t *testing.T) {
	p := NewPrediction(uuid.New(), placement.Profile{Gender: "Female", SSCPercent: 90}, placement.Result{Label: "Placed", Placed: true})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "Female", fields["gender"])
	assert.Equal(t, 90.0, fields["ssc_p"])
	assert.Equal(t, "Placed", fields["label"])
	assert.NotContains(t, fields, "Profile")
}

func TestUser_PasswordHashNotSerialized(t *testing.T) {
	u := User{ID: uuid.New(), Username: "someone", PasswordHash: "secret-hash", Role: RoleAdmin}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
	assert.True(t, u.IsAdmin())
}
