package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/placement-advisor/internal/logging"
	"github.com/jonathan/placement-advisor/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start an HTTP server exposing registration, login, career recommendations,
placement predictions and the admin dashboard API.

Storage is PostgreSQL when DATABASE_URL is set, otherwise embedded SQLite
(SQLITE_PATH, default placement_advisor.db). JWT_SECRET is required.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := server.NewFromConfig(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			logging.Info().Int("port", cfg.Port).Msg("placement advisor API")
			return srv.Run(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			store, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			backend := "postgres"
			if cfg.UseSQLite() {
				backend = "sqlite"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", backend)
			return nil
		},
	}
}
