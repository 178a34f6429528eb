package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/placement-advisor/internal/career"
	"github.com/jonathan/placement-advisor/internal/observability"
	"github.com/jonathan/placement-advisor/internal/types"
	"github.com/spf13/cobra"
)

type recommendOptions struct {
	course    string
	skills    string
	interest  string
	rulesPath string
	asJSON    bool
	verbose   bool
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank career titles for a course, skills and interest",
		Long: `Score the inputs against the career rules and print up to six titles
ordered by confidence. Any input may be empty; with no signal at all a single
general recommendation is returned.`,
		Example: `  placement_agent recommend --course BTech --skills "python, sql, react" --interest Technology`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if opts.rulesPath == "" {
				opts.rulesPath = cfg.RulesPath
			}
			opts.verbose = opts.verbose || cfg.Verbose
			return runRecommend(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.course, "course", "", "Degree course, e.g. BTech, MBA")
	cmd.Flags().StringVar(&opts.skills, "skills", "", "Comma-separated skills")
	cmd.Flags().StringVar(&opts.interest, "interest", "", "Area of interest, e.g. Technology")
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "Path to a custom rules JSON file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print the normalised input and boxed results")
	return cmd
}

func runRecommend(out io.Writer, opts *recommendOptions) error {
	req := types.RecommendRequest{Course: opts.course, Skills: opts.skills, Interest: opts.interest}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	engine := career.NewEngine(nil)
	if opts.rulesPath != "" {
		rules, err := career.LoadRules(opts.rulesPath)
		if err != nil {
			return err
		}
		engine = career.NewEngine(rules)
	}

	recs := engine.Recommend(req.Course, req.Skills, req.Interest)

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(types.RecommendResponse{Recommendations: recs})
	}

	if opts.verbose {
		p := observability.NewPrinter(out)
		p.PrintRecommendInput(req.Course, req.Skills, req.Interest)
		p.PrintRecommendations(recs)
		return nil
	}

	for i, rec := range recs {
		fmt.Fprintf(out, "%d. %s (%d%%)\n", i+1, rec.Title, rec.Confidence)
		if rec.Reasons != "" {
			fmt.Fprintf(out, "   %s\n", rec.Reasons)
		}
	}
	return nil
}
