// Package main provides the placement_agent CLI: career recommendations,
// placement predictions and the HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/placement-advisor/internal/config"
	"github.com/jonathan/placement-advisor/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

// newRootCmd builds the command tree. Tests build a fresh tree per case so
// flag values never leak between runs.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "placement_agent",
		Short:         "Placement Advisor career recommendations and placement predictions",
		Long:          "Placement Advisor ranks career titles from a course, skills and interest, predicts campus placement from an academic profile, and serves both over a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")

	opts := &rootOptions{configPath: &configPath}
	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newRecommendCmd(opts),
		newPredictCmd(opts),
		newValidateCmd(),
	)
	return root
}

// rootOptions carries persistent flag values to subcommands.
type rootOptions struct {
	configPath *string
}

// loadConfig resolves configuration with precedence env > config file >
// built-in defaults, validates it and initialises logging. Command flags are
// applied by callers afterwards.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	merged := *env
	if path := *o.configPath; path != "" {
		file, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged = env.MergeWithDefaults(*file)
		merged.Verbose = file.Verbose
	}
	merged = merged.WithBuiltinDefaults()

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{Level: merged.LogLevel, Format: merged.LogFormat})
	return &merged, nil
}

// commandContext returns the command's context, or Background when run
// outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
