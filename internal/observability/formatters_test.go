package observability

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/placement-advisor/internal/career"
	"github.com/jonathan/placement-advisor/internal/placement"
	"github.com/stretchr/testify/assert"
)

func TestPrintRecommendInput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendInput("BTech", "Python, SQL , , python", "")
	output := buf.String()

	assert.Contains(t, output, "RECOMMENDATION INPUT")
	assert.Contains(t, output, "BTech")
	assert.Contains(t, output, "(none)")
	assert.Contains(t, output, "2 recognised tokens")
	assert.Contains(t, output, "• python")
	assert.Contains(t, output, "• sql")
}

func TestPrintRecommendInput_ManySkills(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRecommendInput("", "a, b, c, d, e, f, g, h", "Design")

	assert.Contains(t, buf.String(), "... and 2 more")
}

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations([]career.Recommendation{
		{Title: "Data Analyst", Confidence: 90, ReasonList: []string{"Data skills (2 matches)", "Aligns with your interest: Data & Analytics"}},
		{Title: "Software Engineer", Confidence: 9, ReasonList: []string{"Programming skills (1 match)"}},
	})
	output := buf.String()

	assert.Contains(t, output, "CAREER RECOMMENDATIONS")
	assert.Contains(t, output, "#1  Data Analyst")
	assert.Contains(t, output, " 90%")
	assert.Contains(t, output, "#2  Software Engineer")
	assert.Contains(t, output, "- Programming skills (1 match)")
	assert.Less(t, strings.Index(output, "Data Analyst"), strings.Index(output, "Software Engineer"))
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRecommendations(nil)
	assert.Empty(t, buf.String())
}

func TestPrintFeatures(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFeatures([]float64{1, 85.5, 0})
	output := buf.String()

	assert.Contains(t, output, "ENCODED FEATURES")
	assert.Contains(t, output, "gender")
	assert.Contains(t, output, "85.5")
	assert.Contains(t, output, "ssc_b")
}

func TestPrintPrediction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPrediction(&placement.Result{Label: "Placed", Placed: true, Probability: 0.912, Tier: "Tier 1"})
	output := buf.String()
	assert.Contains(t, output, "PLACEMENT PREDICTION")
	assert.Contains(t, output, "✓ Placed")
	assert.Contains(t, output, "91.2%")
	assert.Contains(t, output, "Tier 1")

	buf.Reset()
	p.PrintPrediction(&placement.Result{Label: "Not Placed", Probability: 0.2})
	assert.Contains(t, buf.String(), "✗ Not Placed")
	assert.Contains(t, buf.String(), "Company tier estimate: none")

	buf.Reset()
	p.PrintPrediction(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "[··········]", bar(0, 10))
	assert.Equal(t, "[█████·····]", bar(50, 10))
	assert.Equal(t, "[██████████]", bar(150, 10))
	assert.Equal(t, "[··········]", bar(-5, 10))
}
