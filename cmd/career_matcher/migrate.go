package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-matcher/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Create the profiles, job_postings and learning_resources tables if they do not exist.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	if rt.cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable (or database_url config) is required")
	}

	database, err := db.Connect(cmd.Context(), rt.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Schema applied")
	return nil
}
