// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/placement-advisor/internal/career"
	"github.com/jonathan/placement-advisor/internal/placement"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 6
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecommendInput shows the inputs as the engine sees them.
func (p *Printer) PrintRecommendInput(course, rawSkills, interest string) {
	skills := make([]string, 0)
	for s := range career.NormalizeSkills(rawSkills) {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Course:   %s\n", orNone(course)))
	sb.WriteString(fmt.Sprintf("Interest: %s\n", orNone(interest)))
	sb.WriteString(fmt.Sprintf("Skills:   %d recognised tokens\n", len(skills)))
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}

	p.printBox("RECOMMENDATION INPUT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs ranked titles with confidence bars and reasons.
func (p *Printer) PrintRecommendations(recs []career.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	for i, rec := range recs {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, rec.Title))
		sb.WriteString(fmt.Sprintf("    %s %3d%%\n", bar(rec.Confidence, 20), rec.Confidence))
		for _, reason := range rec.ReasonList {
			sb.WriteString(fmt.Sprintf("    - %s\n", reason))
		}
		if i < len(recs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CAREER RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeatures outputs the encoded feature vector next to its names.
func (p *Printer) PrintFeatures(features []float64) {
	if len(features) == 0 {
		return
	}

	var sb strings.Builder
	for i, v := range features {
		name := fmt.Sprintf("x%d", i)
		if i < len(placement.FeatureNames) {
			name = placement.FeatureNames[i]
		}
		sb.WriteString(fmt.Sprintf("%-16s %g\n", name, v))
	}

	p.printBox("ENCODED FEATURES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPrediction outputs a classifier decision.
func (p *Printer) PrintPrediction(res *placement.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	mark := "✗"
	if res.Placed {
		mark = "✓"
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", mark, res.Label))
	sb.WriteString(fmt.Sprintf("Probability: %s %.1f%%\n", bar(int(res.Probability*100+0.5), 20), res.Probability*100))
	if res.Tier != "" {
		sb.WriteString(fmt.Sprintf("Company tier estimate: %s", res.Tier))
	} else {
		sb.WriteString("Company tier estimate: none")
	}

	p.printBox("PLACEMENT PREDICTION", sb.String())
}

// bar renders pct in [0,100] as a fixed-width bar.
func bar(pct, width int) string {
	pct = max(0, min(pct, 100))
	filled := pct * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
