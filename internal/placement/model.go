package placement

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jonathan/placement-advisor/internal/schemas"
)

//go:embed model.schema.json
var modelSchema []byte

const (
	defaultThreshold     = 0.5
	defaultPositiveLabel = "Placed"
	defaultNegativeLabel = "Not Placed"

	tierOneCutoff = 0.85
	tierTwoCutoff = 0.70
)

// Result is a classifier decision for one profile.
type Result struct {
	Label       string  `json:"label"`
	Placed      bool    `json:"placed"`
	Probability float64 `json:"probability"`
	Tier        string  `json:"tier,omitempty"`
}

// Classifier scores a feature vector ordered as FeatureNames.
type Classifier interface {
	Predict(features []float64) (Result, error)
}

// ModelError reports a malformed model description or input vector.
type ModelError struct {
	Message string
}

func (e *ModelError) Error() string {
	return "placement model: " + e.Message
}

// LogisticModel is a logistic regression over the encoded profile.
type LogisticModel struct {
	Name          string    `json:"name,omitempty"`
	Features      []string  `json:"features"`
	Weights       []float64 `json:"weights"`
	Intercept     float64   `json:"intercept"`
	Threshold     float64   `json:"threshold,omitempty"`
	PositiveLabel string    `json:"positive_label,omitempty"`
	NegativeLabel string    `json:"negative_label,omitempty"`
}

// BaselineModel returns the built-in model used when no model file is configured.
// Coefficients act on raw percentages, so they are small.
func BaselineModel() *LogisticModel {
	return &LogisticModel{
		Name:     "baseline",
		Features: append([]string(nil), FeatureNames...),
		Weights: []float64{
			0.25,  // gender
			0.09,  // ssc_p
			0.05,  // ssc_b
			0.05,  // hsc_p
			0.02,  // hsc_b
			0.10,  // hsc_s
			0.06,  // degree_p
			0.15,  // degree_t
			0.90,  // workex
			0.01,  // etest_p
			0.30,  // specialisation
			-0.02, // mba_p
		},
		Intercept:     -13.5,
		Threshold:     defaultThreshold,
		PositiveLabel: defaultPositiveLabel,
		NegativeLabel: defaultNegativeLabel,
	}
}

// LoadModel reads and validates a model JSON file.
func LoadModel(path string) (*LogisticModel, error) {
	data, err := schemas.ValidateFile("model.schema.json", modelSchema, path)
	if err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w", path, err)
	}
	return decodeModel(data)
}

// ParseModel validates and decodes a model from JSON content.
func ParseModel(data []byte) (*LogisticModel, error) {
	if err := schemas.ValidateBytes("model.schema.json", modelSchema, data); err != nil {
		return nil, err
	}
	return decodeModel(data)
}

func decodeModel(data []byte) (*LogisticModel, error) {
	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	if err := m.normalize(); err != nil {
		return nil, err
	}
	return &m, nil
}

// normalize fills defaults and checks the model shape.
func (m *LogisticModel) normalize() error {
	if len(m.Weights) != len(m.Features) {
		return &ModelError{Message: fmt.Sprintf("%d weights for %d features", len(m.Weights), len(m.Features))}
	}
	if len(m.Features) != len(FeatureNames) {
		return &ModelError{Message: fmt.Sprintf("expected %d features, got %d", len(FeatureNames), len(m.Features))}
	}
	for i, name := range m.Features {
		if name != FeatureNames[i] {
			return &ModelError{Message: fmt.Sprintf("feature %d is %q, expected %q", i, name, FeatureNames[i])}
		}
	}
	if m.Threshold == 0 {
		m.Threshold = defaultThreshold
	}
	if m.PositiveLabel == "" {
		m.PositiveLabel = defaultPositiveLabel
	}
	if m.NegativeLabel == "" {
		m.NegativeLabel = defaultNegativeLabel
	}
	return nil
}

// Probability returns the positive-class probability for features.
func (m *LogisticModel) Probability(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, &ModelError{Message: fmt.Sprintf("expected %d features, got %d", len(m.Weights), len(features))}
	}
	z := m.Intercept
	for i, x := range features {
		z += m.Weights[i] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict implements Classifier.
func (m *LogisticModel) Predict(features []float64) (Result, error) {
	p, err := m.Probability(features)
	if err != nil {
		return Result{}, err
	}
	placed := p >= m.Threshold
	res := Result{
		Label:       m.NegativeLabel,
		Placed:      placed,
		Probability: p,
		Tier:        Tier(p, m.Threshold),
	}
	if placed {
		res.Label = m.PositiveLabel
	}
	return res, nil
}

// Tier maps a placement probability onto a company tier estimate.
// Probabilities below threshold have no tier.
func Tier(probability, threshold float64) string {
	switch {
	case probability < threshold:
		return ""
	case probability >= tierOneCutoff:
		return "Tier 1"
	case probability >= tierTwoCutoff:
		return "Tier 2"
	default:
		return "Tier 3"
	}
}

// Predictor encodes profiles and runs them through a Classifier.
type Predictor struct {
	classifier Classifier
}

// NewPredictor creates a predictor. A nil classifier uses BaselineModel.
func NewPredictor(c Classifier) *Predictor {
	if c == nil {
		c = BaselineModel()
	}
	return &Predictor{classifier: c}
}

// Predict classifies a profile.
func (p *Predictor) Predict(ctx context.Context, profile Profile) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	features, err := Encode(profile)
	if err != nil {
		return Result{}, err
	}
	res, err := p.classifier.Predict(features)
	if err != nil {
		return Result{}, fmt.Errorf("failed to classify profile: %w", err)
	}
	return res, nil
}
