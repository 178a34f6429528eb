package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathan/placement-advisor/internal/observability"
	"github.com/jonathan/placement-advisor/internal/placement"
	"github.com/jonathan/placement-advisor/internal/types"
	"github.com/spf13/cobra"
)

type predictOptions struct {
	profile   placement.Profile
	modelPath string
	asJSON    bool
	verbose   bool
}

func newPredictCmd(root *rootOptions) *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict campus placement for an academic profile",
		Example: `  placement_agent predict --gender Male --ssc-p 85 --ssc-b Central --hsc-p 80 --hsc-b Central \
    --hsc-s Science --degree-p 78 --degree-t "Sci&Tech" --workex Yes --etest-p 85 --domain Technology`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if opts.modelPath == "" {
				opts.modelPath = cfg.ModelPath
			}
			opts.verbose = opts.verbose || cfg.Verbose
			return runPredict(commandContext(cmd), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	p := &opts.profile
	f.StringVar(&p.Gender, "gender", "", "Male or Female")
	f.Float64Var(&p.SSCPercent, "ssc-p", 0, "Secondary school percentage")
	f.StringVar(&p.SSCBoard, "ssc-b", "", "Secondary board: Central or Others")
	f.Float64Var(&p.HSCPercent, "hsc-p", 0, "Higher secondary percentage")
	f.StringVar(&p.HSCBoard, "hsc-b", "", "Higher secondary board: Central or Others")
	f.StringVar(&p.HSCStream, "hsc-s", "", "Higher secondary stream: Science, Commerce or Arts")
	f.Float64Var(&p.DegreePercent, "degree-p", 0, "Degree percentage")
	f.StringVar(&p.DegreeType, "degree-t", "", "Degree type: Sci&Tech, Comm&Mgmt or Others")
	f.StringVar(&p.WorkExperience, "workex", "", "Work experience: Yes or No")
	f.Float64Var(&p.AptitudePercent, "etest-p", 0, "Aptitude test percentage")
	f.StringVar(&p.Domain, "domain", "", "Interest domain, e.g. Technology, Finance")
	f.StringVar(&opts.modelPath, "model", "", "Path to a placement model JSON file")
	f.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Print the encoded features and a boxed result")

	for _, name := range []string{"gender", "ssc-b", "hsc-b", "hsc-s", "degree-t", "workex", "domain"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runPredict(ctx context.Context, out io.Writer, opts *predictOptions) error {
	req := types.PredictionRequest{Profile: opts.profile}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	var classifier placement.Classifier
	if opts.modelPath != "" {
		model, err := placement.LoadModel(opts.modelPath)
		if err != nil {
			return err
		}
		classifier = model
	}

	res, err := placement.NewPredictor(classifier).Predict(ctx, req.Profile)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(types.PredictionResponse{Result: res})
	}

	if opts.verbose {
		p := observability.NewPrinter(out)
		if features, err := placement.Encode(req.Profile); err == nil {
			p.PrintFeatures(features)
		}
		p.PrintPrediction(&res)
		return nil
	}

	fmt.Fprintf(out, "%s (probability %.1f%%)\n", res.Label, res.Probability*100)
	if res.Tier != "" {
		fmt.Fprintf(out, "Company tier estimate: %s\n", res.Tier)
	}
	return nil
}
