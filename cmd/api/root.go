package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evo/internal/config"
	"evo/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "evo",
	Short:         "EVO vehicle expense tracker",
	Long:          "EVO tracks vehicle costs and service intervals and serves them over a JSON API.",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command; serve is the default.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&flagNoMigrate, "no-migrate", false, "Skip schema migration on startup")
}

// loadConfig reads the environment and builds the process logger.
func loadConfig() (*config.AppConfig, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(os.Stdout, cfg.Location()), nil
}
