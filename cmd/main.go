package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/heraldry-backend/internal/app"
)

// Set with -ldflags "-X main.Version=..." at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the heraldry catalog HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd := &cobra.Command{
		Use:           "heraldry",
		Short:         "Heraldry catalog backend",
		Long:          "Heraldry catalogs coats of arms, their blazon term chains and the locations they belong to, backed by a Neo4j graph.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML); CONFIG_FILE is used when empty")

	cmd.AddCommand(serve)
	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Create graph constraints and indexes (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return app.EnsureSchema(cmd.Context(), cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("heraldry version %s (build: %s)\n", Version, BuildTime)
		},
	})
	return cmd
}

func runServe(configPath string) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, Version)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
