package career

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Recommendation is one ranked career title.
type Recommendation struct {
	Title      string   `json:"title"`
	Confidence int      `json:"confidence"`
	Reasons    string   `json:"reasons"`
	ReasonList []string `json:"reason_list"`
}

// Engine scores inputs against a fixed set of rules. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	rules *Rules
}

// NewEngine creates an engine bound to rules. A nil rules value uses DefaultRules.
func NewEngine(rules *Rules) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Rules returns the engine's rule tables. Callers must treat the value as read-only.
func (e *Engine) Rules() *Rules {
	return e.rules
}

var defaultEngine = NewEngine(DefaultRules())

// Recommend scores the inputs against the built-in rules.
func Recommend(course, rawSkills, interest string) []Recommendation {
	return defaultEngine.Recommend(course, rawSkills, interest)
}

// Recommend returns between one and MaxResults recommendations ordered by
// confidence (descending). Titles with equal confidence keep the order in
// which they were first credited. Unrecognised courses, interests and skills
// simply contribute nothing; with no signal at all the fallback record is
// returned.
func (e *Engine) Recommend(course, rawSkills, interest string) []Recommendation {
	skills := NormalizeSkills(rawSkills)
	acc := newAccumulator()

	e.scoreSkills(acc, skills)
	e.scoreInterest(acc, interest)
	e.scoreCourse(acc, course)

	if acc.len() == 0 {
		return []Recommendation{e.fallback()}
	}

	results := make([]Recommendation, 0, acc.len())
	for _, ent := range acc.entries {
		reasons := append([]string(nil), ent.reasons...)
		results = append(results, Recommendation{
			Title:      ent.title,
			Confidence: confidence(ent.score),
			Reasons:    strings.Join(reasons, ", "),
			ReasonList: reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	limit := e.rules.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreSkills credits each mapped group in proportion to how much of its vocabulary matched.
func (e *Engine) scoreSkills(acc *accumulator, skills map[string]struct{}) {
	if len(skills) == 0 {
		return
	}
	for _, group := range e.rules.SkillGroups {
		if group.Title == "" || len(group.Keywords) == 0 {
			continue
		}
		matches := countMatches(group.Keywords, skills)
		if matches == 0 {
			continue
		}
		score := float64(matches) / float64(len(group.Keywords)) * e.rules.SkillWeight
		acc.add(group.Title, score, skillReason(group, matches))
	}
}

func (e *Engine) scoreInterest(acc *accumulator, interest string) {
	for _, title := range e.rules.InterestTitles[interest] {
		acc.add(title, e.rules.InterestWeight, "Aligns with your interest: "+interest)
	}
}

// scoreCourse applies one flat boost per boosted group of the course to every
// role-like title already accumulated. It never adds titles.
func (e *Engine) scoreCourse(acc *accumulator, course string) {
	groups := e.rules.CourseBoosts[course]
	if len(groups) == 0 || acc.len() == 0 {
		return
	}
	reason := fmt.Sprintf("Strong fit for %s graduates", course)
	for range groups {
		for _, title := range acc.titles() {
			if e.rules.isRoleTitle(title) {
				acc.add(title, e.rules.CourseWeight, reason)
			}
		}
	}
}

func (e *Engine) fallback() Recommendation {
	fb := e.rules.Fallback
	if fb.Title == "" {
		fb = defaultFallback()
	}
	fb.ReasonList = append([]string(nil), fb.ReasonList...)
	if fb.Reasons == "" {
		fb.Reasons = strings.Join(fb.ReasonList, ", ")
	}
	fb.Confidence = clamp(fb.Confidence)
	return fb
}

// IsFallback reports whether recs is the single fallback record this engine
// returns when nothing matched.
func (e *Engine) IsFallback(recs []Recommendation) bool {
	if len(recs) != 1 {
		return false
	}
	fb := e.fallback()
	return recs[0].Title == fb.Title && recs[0].Reasons == fb.Reasons
}

// NormalizeSkills splits comma-separated skill text into a set of trimmed, lowercase tokens.
func NormalizeSkills(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

func countMatches(keywords []string, skills map[string]struct{}) int {
	matches := 0
	for _, k := range keywords {
		if _, ok := skills[k]; ok {
			matches++
		}
	}
	return matches
}

func skillReason(group SkillGroup, matches int) string {
	noun := "match"
	if matches != 1 {
		noun = "matches"
	}
	return fmt.Sprintf("%s skills (%d %s)", group.DisplayName(), matches, noun)
}

// confidence rounds half to even and clamps to [0, 100].
func confidence(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return clamp(int(math.Min(math.Max(math.RoundToEven(score), 0), 100)))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
