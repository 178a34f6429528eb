// Package placement encodes student profiles and classifies placement outcomes.
package placement

import "fmt"

// FeatureNames is the fixed feature order every Classifier receives.
var FeatureNames = []string{
	"gender", "ssc_p", "ssc_b", "hsc_p", "hsc_b", "hsc_s",
	"degree_p", "degree_t", "workex", "etest_p", "specialisation", "mba_p",
}

var (
	genderCodes = map[string]float64{"Male": 1, "Female": 0}
	boardCodes  = map[string]float64{"Central": 0, "Others": 1}
	streamCodes = map[string]float64{"Science": 2, "Commerce": 1, "Arts": 0}
	degreeCodes = map[string]float64{"Sci&Tech": 2, "Comm&Mgmt": 1, "Others": 0}
	workexCodes = map[string]float64{"Yes": 1, "No": 0}

	// domainCodes collapses the interest domain onto the binary
	// specialisation the model was trained with.
	domainCodes = map[string]float64{
		"Technology":       1,
		"Management":       0,
		"Data & Analytics": 1,
		"Finance":          0,
		"Marketing":        0,
		"Design":           1,
		"Research":         1,
		"General":          0,
	}
)

// Profile is a student's academic profile.
type Profile struct {
	Gender          string  `json:"gender" validate:"required,oneof=Male Female"`
	SSCPercent      float64 `json:"ssc_p" validate:"gte=0,lte=100"`
	SSCBoard        string  `json:"ssc_b" validate:"required,oneof=Central Others"`
	HSCPercent      float64 `json:"hsc_p" validate:"gte=0,lte=100"`
	HSCBoard        string  `json:"hsc_b" validate:"required,oneof=Central Others"`
	HSCStream       string  `json:"hsc_s" validate:"required,oneof=Science Commerce Arts"`
	DegreePercent   float64 `json:"degree_p" validate:"gte=0,lte=100"`
	DegreeType      string  `json:"degree_t" validate:"required,oneof=Sci&Tech Comm&Mgmt Others"`
	WorkExperience  string  `json:"workex" validate:"required,oneof=Yes No"`
	AptitudePercent float64 `json:"etest_p" validate:"gte=0,lte=100"`
	Domain          string  `json:"domain" validate:"required,oneof='Technology' 'Management' 'Data & Analytics' 'Finance' 'Marketing' 'Design' 'Research' 'General'"`
}

// EncodingError reports a categorical value with no known code.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("unknown %s value: %q", e.Field, e.Value)
}

// Encode converts a profile into the feature vector described by FeatureNames.
// The degree percentage doubles as mba_p.
func Encode(p Profile) ([]float64, error) {
	gender, err := lookup("gender", p.Gender, genderCodes)
	if err != nil {
		return nil, err
	}
	sscBoard, err := lookup("ssc_b", p.SSCBoard, boardCodes)
	if err != nil {
		return nil, err
	}
	hscBoard, err := lookup("hsc_b", p.HSCBoard, boardCodes)
	if err != nil {
		return nil, err
	}
	stream, err := lookup("hsc_s", p.HSCStream, streamCodes)
	if err != nil {
		return nil, err
	}
	degree, err := lookup("degree_t", p.DegreeType, degreeCodes)
	if err != nil {
		return nil, err
	}
	workex, err := lookup("workex", p.WorkExperience, workexCodes)
	if err != nil {
		return nil, err
	}
	domain, err := lookup("domain", p.Domain, domainCodes)
	if err != nil {
		return nil, err
	}

	return []float64{
		gender,
		p.SSCPercent,
		sscBoard,
		p.HSCPercent,
		hscBoard,
		stream,
		p.DegreePercent,
		degree,
		workex,
		p.AptitudePercent,
		domain,
		p.DegreePercent,
	}, nil
}

func lookup(field, value string, codes map[string]float64) (float64, error) {
	code, ok := codes[value]
	if !ok {
		return 0, &EncodingError{Field: field, Value: value}
	}
	return code, nil
}
