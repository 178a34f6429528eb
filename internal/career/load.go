package career

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/placement-advisor/internal/schemas"
)

//go:embed rules.schema.json
var rulesSchema []byte

// rulesDocument is the on-disk JSON form of Rules. Omitted weights, markers,
// limits and fallback fall back to the built-in defaults.
type rulesDocument struct {
	SkillGroups    []SkillGroup        `json:"skill_groups"`
	CourseBoosts   map[string][]string `json:"course_boosts,omitempty"`
	InterestTitles map[string][]string `json:"interest_titles,omitempty"`
	RoleMarkers    []string            `json:"role_markers,omitempty"`
	SkillWeight    *float64            `json:"skill_weight,omitempty"`
	InterestWeight *float64            `json:"interest_weight,omitempty"`
	CourseWeight   *float64            `json:"course_weight,omitempty"`
	MaxResults     int                 `json:"max_results,omitempty"`
	Fallback       *fallbackDocument   `json:"fallback,omitempty"`
}

type fallbackDocument struct {
	Title      string `json:"title"`
	Confidence *int   `json:"confidence,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// LoadRules reads and validates a rules JSON file.
func LoadRules(path string) (*Rules, error) {
	data, err := schemas.ValidateFile("rules.schema.json", rulesSchema, path)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return decodeRules(data)
}

// ParseRules validates and decodes rules from JSON content.
func ParseRules(data []byte) (*Rules, error) {
	if err := schemas.ValidateBytes("rules.schema.json", rulesSchema, data); err != nil {
		return nil, err
	}
	return decodeRules(data)
}

func decodeRules(data []byte) (*Rules, error) {
	var doc rulesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules JSON: %w", err)
	}

	defaults := DefaultRules()
	rules := &Rules{
		CourseBoosts:   copyTable(doc.CourseBoosts),
		InterestTitles: copyTable(doc.InterestTitles),
		RoleMarkers:    defaults.RoleMarkers,
		SkillWeight:    defaults.SkillWeight,
		InterestWeight: defaults.InterestWeight,
		CourseWeight:   defaults.CourseWeight,
		MaxResults:     defaults.MaxResults,
		Fallback:       defaults.Fallback,
	}

	seen := make(map[string]bool, len(doc.SkillGroups))
	for _, g := range doc.SkillGroups {
		if seen[g.Name] {
			return nil, fmt.Errorf("duplicate skill group %q", g.Name)
		}
		seen[g.Name] = true
		keywords := make([]string, 0, len(g.Keywords))
		for _, k := range g.Keywords {
			keywords = append(keywords, strings.ToLower(strings.TrimSpace(k)))
		}
		rules.SkillGroups = append(rules.SkillGroups, SkillGroup{Name: g.Name, Keywords: keywords, Title: g.Title})
	}

	if len(doc.RoleMarkers) > 0 {
		rules.RoleMarkers = append([]string(nil), doc.RoleMarkers...)
	}
	if doc.SkillWeight != nil {
		rules.SkillWeight = *doc.SkillWeight
	}
	if doc.InterestWeight != nil {
		rules.InterestWeight = *doc.InterestWeight
	}
	if doc.CourseWeight != nil {
		rules.CourseWeight = *doc.CourseWeight
	}
	if doc.MaxResults > 0 {
		rules.MaxResults = doc.MaxResults
	}
	if doc.Fallback != nil {
		fb := Recommendation{Title: doc.Fallback.Title, Confidence: fallbackConfidence}
		if doc.Fallback.Confidence != nil {
			fb.Confidence = *doc.Fallback.Confidence
		}
		if doc.Fallback.Reason != "" {
			fb.Reasons = doc.Fallback.Reason
			fb.ReasonList = []string{doc.Fallback.Reason}
		}
		rules.Fallback = fb
	}

	return rules, nil
}

func copyTable(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
