package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonathan/placement-advisor/internal/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPrediction() PredictionRequest {
	return PredictionRequest{Profile: placement.Profile{
		Gender:          "Male",
		SSCPercent:      80,
		SSCBoard:        "Central",
		HSCPercent:      75,
		HSCBoard:        "Others",
		HSCStream:       "Commerce",
		DegreePercent:   70,
		DegreeType:      "Comm&Mgmt",
		WorkExperience:  "No",
		AptitudePercent: 65,
		Domain:          "Data & Analytics",
	}}
}

func TestPredictionRequest_Validation(t *testing.T) {
	req := validPrediction()
	assert.NoError(t, req.Validate())

	tests := []struct {
		name   string
		mutate func(*PredictionRequest)
	}{
		{"unknown gender", func(r *PredictionRequest) { r.Gender = "Other" }},
		{"percentage above 100", func(r *PredictionRequest) { r.SSCPercent = 101 }},
		{"negative percentage", func(r *PredictionRequest) { r.AptitudePercent = -1 }},
		{"unknown stream", func(r *PredictionRequest) { r.HSCStream = "Vocational" }},
		{"unknown degree", func(r *PredictionRequest) { r.DegreeType = "Medicine" }},
		{"unknown workex", func(r *PredictionRequest) { r.WorkExperience = "Maybe" }},
		{"unknown domain", func(r *PredictionRequest) { r.Domain = "Sports" }},
		{"missing domain", func(r *PredictionRequest) { r.Domain = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validPrediction()
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestPredictionRequest_DecodesFlatJSON(t *testing.T) {
	var req PredictionRequest
	err := json.Unmarshal([]byte(`{
		"gender": "Female", "ssc_p": 90, "ssc_b": "Central", "hsc_p": 88, "hsc_b": "Central",
		"hsc_s": "Science", "degree_p": 80, "degree_t": "Sci&Tech", "workex": "Yes", "etest_p": 70,
		"domain": "Design"
	}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "Female", req.Gender)
	assert.Equal(t, 88.0, req.HSCPercent)
	assert.NoError(t, req.Validate())
}

func TestRecommendRequest_Validation(t *testing.T) {
	assert.NoError(t, (&RecommendRequest{}).Validate())
	assert.NoError(t, (&RecommendRequest{Course: "BTech", Skills: "python", Interest: "Technology"}).Validate())
	assert.Error(t, (&RecommendRequest{Skills: strings.Repeat("x", 2001)}).Validate())
}
