package main

import (
	"fmt"

	"github.com/jonathan/placement-advisor/internal/career"
	"github.com/jonathan/placement-advisor/internal/placement"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var rulesPath, modelPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check rules and model files against their schemas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rulesPath == "" && modelPath == "" {
				return fmt.Errorf("at least one of --rules or --model must be provided")
			}
			out := cmd.OutOrStdout()

			if rulesPath != "" {
				rules, err := career.LoadRules(rulesPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "rules OK: %d skill groups, %d courses, %d interests\n",
					len(rules.SkillGroups), len(rules.CourseBoosts), len(rules.InterestTitles))
			}
			if modelPath != "" {
				model, err := placement.LoadModel(modelPath)
				if err != nil {
					return err
				}
				name := model.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Fprintf(out, "model OK: %s, %d features, threshold %.2f\n", name, len(model.Features), model.Threshold)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rules JSON file")
	cmd.Flags().StringVar(&modelPath, "model", "", "Model JSON file")
	return cmd
}
