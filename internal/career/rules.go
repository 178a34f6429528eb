// Package career provides the rule-driven career recommendation engine.
//
// The engine scores candidate job titles from three signals: the student's
// skills (partial credit per skill group), their declared interest (flat
// bonus per implied title) and their course of study (flat bonus for
// role-like titles already on the board). It is a pure function of its
// inputs and a read-only Rules value.
package career

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default weights for scoring components
const (
	defaultSkillWeight    = 60.0
	defaultInterestWeight = 70.0
	defaultCourseWeight   = 25.0
	defaultMaxResults     = 6

	fallbackConfidence = 50
	fallbackTitle      = "Explore High-Demand Fields"
	fallbackReason     = "Add more specific skills or consider certifications in Data Analytics, Cloud, AI, Digital Marketing"
)

// defaultRoleMarkers are the case-insensitive substrings that make a title eligible for the course boost.
var defaultRoleMarkers = []string{"engineer", "developer", "analyst", "scientist"}

// SkillGroup is a named bucket of skill keywords mapped to one canonical title.
type SkillGroup struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Title    string   `json:"title"`
}

// DisplayName renders the group name for reason strings ("ai_ml" -> "Ai Ml").
func (g SkillGroup) DisplayName() string {
	words := strings.Fields(strings.ReplaceAll(g.Name, "_", " "))
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// Rules holds the static tables and weights the engine scores against.
// A Rules value must not be modified after it is handed to an Engine.
type Rules struct {
	SkillGroups    []SkillGroup
	CourseBoosts   map[string][]string
	InterestTitles map[string][]string
	RoleMarkers    []string

	SkillWeight    float64
	InterestWeight float64
	CourseWeight   float64
	MaxResults     int

	Fallback Recommendation
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() *Rules {
	return &Rules{
		SkillGroups: []SkillGroup{
			{Name: "programming", Keywords: []string{"python", "java", "c++", "javascript", "c#", "go", "dsa"}, Title: "Software Engineer"},
			{Name: "web", Keywords: []string{"html", "css", "javascript", "react", "node", "django", "next.js"}, Title: "Full-Stack / Web Developer"},
			{Name: "data", Keywords: []string{"sql", "excel", "power bi", "tableau", "pandas", "statistics"}, Title: "Data Analyst"},
			{Name: "ai_ml", Keywords: []string{"machine learning", "ai", "ml", "deep learning", "tensorflow"}, Title: "AI / ML Engineer"},
			{Name: "cloud", Keywords: []string{"aws", "azure", "gcp", "devops", "docker", "kubernetes"}, Title: "Cloud / DevOps Engineer"},
			{Name: "marketing", Keywords: []string{"seo", "digital marketing", "content", "social media", "google ads"}, Title: "Digital Marketer"},
			{Name: "design", Keywords: []string{"figma", "ui", "ux", "adobe", "graphic design"}, Title: "UI/UX Designer"},
			{Name: "finance", Keywords: []string{"finance", "accounting", "financial modeling", "excel advanced"}, Title: "Financial Analyst"},
			{Name: "management", Keywords: []string{"project management", "agile", "business analysis", "leadership"}, Title: "Business Analyst"},
		},
		CourseBoosts: map[string][]string{
			"BTech": {"programming", "web", "ai_ml", "cloud", "data"},
			"BCA":   {"programming", "web", "data", "ai_ml"},
			"MCA":   {"programming", "ai_ml", "cloud", "data"},
			"MBA":   {"management", "finance", "marketing"},
			"BCom":  {"finance", "management", "marketing"},
			"BSc":   {"data", "ai_ml", "programming"},
		},
		InterestTitles: map[string][]string{
			"Technology":       {"Software Engineer", "Full-Stack Developer"},
			"Data & Analytics": {"Data Analyst", "Data Scientist"},
			"Management":       {"Business Analyst", "Product Manager"},
			"Finance":          {"Financial Analyst"},
			"Marketing":        {"Digital Marketer"},
			"Design":           {"UI/UX Designer"},
			"Research":         {"Research Analyst", "Data Scientist"},
		},
		RoleMarkers:    append([]string(nil), defaultRoleMarkers...),
		SkillWeight:    defaultSkillWeight,
		InterestWeight: defaultInterestWeight,
		CourseWeight:   defaultCourseWeight,
		MaxResults:     defaultMaxResults,
		Fallback:       defaultFallback(),
	}
}

func defaultFallback() Recommendation {
	return Recommendation{
		Title:      fallbackTitle,
		Confidence: fallbackConfidence,
		Reasons:    fallbackReason,
		ReasonList: []string{fallbackReason},
	}
}

// isRoleTitle reports whether title contains one of the role markers, ignoring case.
func (r *Rules) isRoleTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range r.RoleMarkers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
