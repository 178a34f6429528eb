package career

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titlesOf(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func findTitle(recs []Recommendation, title string) (Recommendation, bool) {
	for _, r := range recs {
		if r.Title == title {
			return r, true
		}
	}
	return Recommendation{}, false
}

func TestRecommend_InterestOnly(t *testing.T) {
	recs := Recommend("Other", "", "Finance")

	require.Len(t, recs, 1)
	assert.Equal(t, "Financial Analyst", recs[0].Title)
	assert.Equal(t, 70, recs[0].Confidence)
	assert.Equal(t, "Aligns with your interest: Finance", recs[0].Reasons)
	assert.Equal(t, []string{"Aligns with your interest: Finance"}, recs[0].ReasonList)
}

func TestRecommend_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		course   string
		skills   string
		interest string
	}{
		{name: "nothing recognised", course: "Other", skills: "", interest: "General"},
		{name: "unknown interest", course: "Other", skills: "", interest: "Astronomy"},
		{name: "only separators", course: "Other", skills: " , ,, ", interest: ""},
		{name: "unknown skills", course: "BA", skills: "pottery, juggling", interest: "General"},
		{name: "course alone never adds titles", course: "BTech", skills: "", interest: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend(tt.course, tt.skills, tt.interest)

			require.Len(t, recs, 1)
			assert.Equal(t, "Explore High-Demand Fields", recs[0].Title)
			assert.Equal(t, 50, recs[0].Confidence)
			assert.Contains(t, recs[0].Reasons, "certifications")
			assert.True(t, defaultEngine.IsFallback(recs))
		})
	}
}

func TestEngine_IsFallback(t *testing.T) {
	assert.False(t, defaultEngine.IsFallback(Recommend("Other", "", "Finance")))
	assert.False(t, defaultEngine.IsFallback(nil))
	assert.False(t, defaultEngine.IsFallback(Recommend("BTech", "python, java, html", "Technology")))
}

func TestRecommend_FullBTechExample(t *testing.T) {
	recs := Recommend("BTech", "python, sql, react, machine learning, leadership", "Data & Analytics")

	// Every title is a role title, so five BTech boosts push all of them to the cap
	// and ties keep first-credited order.
	assert.Equal(t, []string{
		"Software Engineer",
		"Full-Stack / Web Developer",
		"Data Analyst",
		"AI / ML Engineer",
		"Business Analyst",
		"Data Scientist",
	}, titlesOf(recs))

	for _, r := range recs {
		assert.Equal(t, 100, r.Confidence, r.Title)
		assert.Contains(t, r.ReasonList, "Strong fit for BTech graduates", r.Title)
	}

	analyst, ok := findTitle(recs, "Data Analyst")
	require.True(t, ok)
	assert.Equal(t, []string{
		"Data skills (1 match)",
		"Aligns with your interest: Data & Analytics",
		"Strong fit for BTech graduates",
	}, analyst.ReasonList)

	scientist, ok := findTitle(recs, "Data Scientist")
	require.True(t, ok)
	assert.Equal(t, "Aligns with your interest: Data & Analytics, Strong fit for BTech graduates", scientist.Reasons)
}

func TestRecommend_PartialCredit(t *testing.T) {
	tests := []struct {
		name   string
		skills string
		want   []Recommendation
	}{
		{
			name:   "one programming keyword",
			skills: "python",
			want:   []Recommendation{{Title: "Software Engineer", Confidence: 9}},
		},
		{
			name:   "two programming keywords",
			skills: "python, java",
			want:   []Recommendation{{Title: "Software Engineer", Confidence: 17}},
		},
		{
			name:   "shared keyword credits both groups",
			skills: "python, javascript",
			want: []Recommendation{
				{Title: "Software Engineer", Confidence: 17},
				{Title: "Full-Stack / Web Developer", Confidence: 9},
			},
		},
		{
			name:   "full finance coverage",
			skills: "finance, accounting, financial modeling, excel advanced",
			want:   []Recommendation{{Title: "Financial Analyst", Confidence: 60}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend("Other", tt.skills, "")

			require.Len(t, recs, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.Title, recs[i].Title)
				assert.Equal(t, want.Confidence, recs[i].Confidence)
			}
		})
	}
}

func TestRecommend_SkillNormalization(t *testing.T) {
	recs := Recommend("Other", "  PYTHON ,  Java,, python ", "")

	require.Len(t, recs, 1)
	assert.Equal(t, "Software Engineer", recs[0].Title)
	assert.Equal(t, 17, recs[0].Confidence)
	assert.Equal(t, "Programming skills (2 matches)", recs[0].Reasons)
}

func TestRecommend_KeywordsStayInTheirGroup(t *testing.T) {
	recs := Recommend("Other", "figma", "")

	require.Len(t, recs, 1)
	assert.Equal(t, "UI/UX Designer", recs[0].Title)
	assert.Equal(t, 12, recs[0].Confidence)
	_, ok := findTitle(recs, "Software Engineer")
	assert.False(t, ok)
}

func TestRecommend_CourseBoost(t *testing.T) {
	t.Run("boost per boosted group", func(t *testing.T) {
		recs := Recommend("MBA", "finance", "")

		require.Len(t, recs, 1)
		assert.Equal(t, "Financial Analyst", recs[0].Title)
		// 15 from skills plus 25 for each of MBA's three groups
		assert.Equal(t, 90, recs[0].Confidence)
		assert.Equal(t, []string{"Finance skills (1 match)", "Strong fit for MBA graduates"}, recs[0].ReasonList)
	})

	t.Run("non-role titles are not boosted", func(t *testing.T) {
		recs := Recommend("MBA", "seo, figma", "")

		require.Len(t, recs, 2)
		assert.Equal(t, []string{"Digital Marketer", "UI/UX Designer"}, titlesOf(recs))
		assert.Equal(t, 12, recs[0].Confidence)
		assert.Equal(t, 12, recs[1].Confidence)
	})

	t.Run("course match is case-sensitive", func(t *testing.T) {
		lower := Recommend("btech", "python", "")
		exact := Recommend("BTech", "python", "")

		require.Len(t, lower, 1)
		require.Len(t, exact, 1)
		assert.Equal(t, 9, lower[0].Confidence)
		assert.Equal(t, 100, exact[0].Confidence)
	})
}

func TestRecommend_InterestStacksOnSkills(t *testing.T) {
	recs := Recommend("Other", "python", "Technology")

	assert.Equal(t, []string{"Software Engineer", "Full-Stack Developer"}, titlesOf(recs))
	assert.Equal(t, 79, recs[0].Confidence)
	assert.Equal(t, 70, recs[1].Confidence)
	assert.Equal(t, "Programming skills (1 match), Aligns with your interest: Technology", recs[0].Reasons)
}

func TestRecommend_InterestIsCaseSensitive(t *testing.T) {
	recs := Recommend("Other", "", "finance")

	require.Len(t, recs, 1)
	assert.Equal(t, "Explore High-Demand Fields", recs[0].Title)
}

func TestRecommend_RankingOrder(t *testing.T) {
	recs := Recommend("Other", "sql, excel, python", "Design")

	assert.Equal(t, []string{"UI/UX Designer", "Data Analyst", "Software Engineer"}, titlesOf(recs))
	assert.Equal(t, []int{70, 20, 9}, []int{recs[0].Confidence, recs[1].Confidence, recs[2].Confidence})
}

func TestRecommend_TruncatesToSix(t *testing.T) {
	recs := Recommend("Other", "python, html, sql, ai, aws, seo, figma, finance, agile", "")

	assert.Equal(t, []string{
		"Financial Analyst",
		"Business Analyst",
		"AI / ML Engineer",
		"Digital Marketer",
		"UI/UX Designer",
		"Data Analyst",
	}, titlesOf(recs))
	assert.Equal(t, 15, recs[0].Confidence)
	assert.Equal(t, 10, recs[5].Confidence)
}

func TestRecommend_Determinism(t *testing.T) {
	first := Recommend("BCA", "python, sql, html, css, tableau", "Technology")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Recommend("BCA", "python, sql, html, css, tableau", "Technology"))
	}
}

func TestRecommend_MonotonicSkillContribution(t *testing.T) {
	keywords := []string{"sql", "excel", "power bi", "tableau", "pandas", "statistics"}
	prev := 0
	skills := ""
	for i, k := range keywords {
		if i > 0 {
			skills += ", "
		}
		skills += k

		rec, ok := findTitle(Recommend("Other", skills, ""), "Data Analyst")
		require.True(t, ok)
		assert.GreaterOrEqual(t, rec.Confidence, prev, "after adding %q", k)
		prev = rec.Confidence
	}
	assert.Equal(t, 60, prev)
}

func TestRecommend_Invariants(t *testing.T) {
	courses := []string{"BTech", "BCA", "MCA", "MBA", "BCom", "BSc", "BA", "Other", ""}
	interests := []string{"Technology", "Data & Analytics", "Management", "Finance", "Marketing", "Design", "Research", "General", ""}
	skillSets := []string{
		"",
		"python",
		"python, sql, react, machine learning, leadership",
		"figma, ui, ux, adobe, graphic design",
		"aws, docker, kubernetes, go, java, c++, dsa",
		"seo, content, social media, finance, accounting, agile, leadership",
	}

	for _, course := range courses {
		for _, interest := range interests {
			for _, skills := range skillSets {
				name := fmt.Sprintf("%s/%s/%s", course, interest, skills)
				recs := Recommend(course, skills, interest)

				require.NotEmpty(t, recs, name)
				assert.LessOrEqual(t, len(recs), 6, name)

				titles := make(map[string]bool)
				for i, r := range recs {
					assert.GreaterOrEqual(t, r.Confidence, 0, name)
					assert.LessOrEqual(t, r.Confidence, 100, name)
					assert.False(t, titles[r.Title], "duplicate title %q in %s", r.Title, name)
					titles[r.Title] = true

					reasons := make(map[string]bool)
					for _, reason := range r.ReasonList {
						assert.False(t, reasons[reason], "duplicate reason %q in %s", reason, name)
						reasons[reason] = true
					}

					if i > 0 {
						assert.GreaterOrEqual(t, recs[i-1].Confidence, r.Confidence, name)
					}
				}
			}
		}
	}
}

func TestRecommend_DoesNotShareState(t *testing.T) {
	recs := Recommend("Other", "", "Finance")
	recs[0].ReasonList[0] = "mutated"
	recs[0].Title = "mutated"

	again := Recommend("Other", "", "Finance")
	assert.Equal(t, "Financial Analyst", again[0].Title)
	assert.Equal(t, "Aligns with your interest: Finance", again[0].ReasonList[0])

	fb := Recommend("Other", "", "")
	fb[0].ReasonList[0] = "mutated"
	assert.NotEqual(t, "mutated", Recommend("Other", "", "")[0].ReasonList[0])
}

func TestRecommend_ConcurrentCalls(t *testing.T) {
	want := Recommend("BTech", "python, sql, react, machine learning, leadership", "Data & Analytics")

	var wg sync.WaitGroup
	results := make([][]Recommendation, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Recommend("BTech", "python, sql, react, machine learning, leadership", "Data & Analytics")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestEngine_RoundsHalfToEven(t *testing.T) {
	rules := DefaultRules()
	rules.SkillGroups = []SkillGroup{{
		Name:     "eight",
		Keywords: []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8"},
		Title:    "Test Engineer",
	}}
	engine := NewEngine(rules)

	tests := []struct {
		skills string
		want   int
	}{
		{skills: "k1", want: 8},                  // 7.5
		{skills: "k1, k2, k3", want: 22},         // 22.5
		{skills: "k1, k2, k3, k4, k5", want: 38}, // 37.5
	}
	for _, tt := range tests {
		t.Run(tt.skills, func(t *testing.T) {
			recs := engine.Recommend("Other", tt.skills, "")
			require.Len(t, recs, 1)
			assert.Equal(t, tt.want, recs[0].Confidence)
		})
	}
}

func TestEngine_UnmappedGroupContributesNothing(t *testing.T) {
	rules := DefaultRules()
	rules.SkillGroups = append(rules.SkillGroups, SkillGroup{Name: "hobbies", Keywords: []string{"chess"}})
	engine := NewEngine(rules)

	recs := engine.Recommend("Other", "chess", "")
	require.Len(t, recs, 1)
	assert.Equal(t, "Explore High-Demand Fields", recs[0].Title)
}

func TestEngine_NilRulesUsesDefaults(t *testing.T) {
	engine := NewEngine(nil)
	assert.Equal(t, Recommend("MCA", "docker, aws", "Technology"), engine.Recommend("MCA", "docker, aws", "Technology"))
	assert.Len(t, engine.Rules().SkillGroups, 9)
}

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills(" Power BI ,SQL,,  ,sql ")
	assert.Equal(t, map[string]struct{}{"power bi": {}, "sql": {}}, got)
	assert.Empty(t, NormalizeSkills(""))
}

func TestSkillGroup_DisplayName(t *testing.T) {
	assert.Equal(t, "Ai Ml", SkillGroup{Name: "ai_ml"}.DisplayName())
	assert.Equal(t, "Programming", SkillGroup{Name: "programming"}.DisplayName())
	assert.Equal(t, "Web", SkillGroup{Name: "WEB"}.DisplayName())
	assert.Equal(t, "Économie Générale", SkillGroup{Name: "économie_générale"}.DisplayName())
}

func TestRules_IsRoleTitle(t *testing.T) {
	rules := DefaultRules()
	assert.True(t, rules.isRoleTitle("Cloud / DevOps Engineer"))
	assert.True(t, rules.isRoleTitle("Full-Stack / Web Developer"))
	assert.True(t, rules.isRoleTitle("DATA SCIENTIST"))
	assert.True(t, rules.isRoleTitle("Research Analyst"))
	assert.False(t, rules.isRoleTitle("Product Manager"))
	assert.False(t, rules.isRoleTitle("UI/UX Designer"))
	assert.False(t, rules.isRoleTitle("Digital Marketer"))
}

func TestRecommendation_JSON(t *testing.T) {
	data, err := json.Marshal(Recommend("Other", "", "Marketing")[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "Digital Marketer",
		"confidence": 70,
		"reasons": "Aligns with your interest: Marketing",
		"reason_list": ["Aligns with your interest: Marketing"]
	}`, string(data))
}
