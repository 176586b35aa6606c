package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evo/internal/database"
	"evo/internal/database/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(cmd.Context(), db, log, cfg.Database.Host); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("  Schema is up to date") + mutedStyle.Render(" ("+cfg.Database.Host+"/"+cfg.Database.Name+")"))
	return nil
}
