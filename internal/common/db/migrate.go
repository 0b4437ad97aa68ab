package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/book-reviews/internal/common/db/migrations"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
)

// Migrate applies all pending embedded migrations over a short-lived
// database/sql connection.
func Migrate(ctx context.Context, log *logger.Logger, databaseURL string) error {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	return migrateDB(ctx, log, sqlDB)
}

func migrateDB(ctx context.Context, log *logger.Logger, sqlDB *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if len(results) == 0 {
		log.Infof("database schema is up to date")
		return nil
	}

	for _, res := range results {
		log.WithFields(ctx, logger.Fields{
			"version":  res.Source.Version,
			"duration": res.Duration,
			"action":   "migration_applied",
		}).Infof("applied migration %s", res.Source.Path)
	}

	return nil
}
