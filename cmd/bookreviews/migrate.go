package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/book-reviews/internal/common/config"
	"github.com/AlibekovAA/book-reviews/internal/common/db"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the database named by DATABASE_URL.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	databaseURL, err := config.LoadDatabaseURL()
	if err != nil {
		return err
	}

	log, err := logger.New("", "book-reviews-migrate", "info")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cmd.Println("Running migrations...")
	if err := db.Migrate(cmd.Context(), log, databaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
