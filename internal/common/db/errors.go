package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
)

const (
	TableUsers   = "users"
	TableReviews = "reviews"
)

// UniqueViolation returns the violated constraint name when err is a
// unique_violation from PostgreSQL.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		metrics.DBUniqueViolationsTotal.WithLabelValues(pgErr.TableName, pgErr.ConstraintName).Inc()
		return pgErr.ConstraintName, true
	}
	return "", false
}

func HandleQueryError(err error, notFoundErr error, operation, table string, startTime time.Time) error {
	MeasureQueryDuration(operation, table, startTime)

	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && notFoundErr != nil {
		return notFoundErr
	}
	metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, operation, table string, startTime time.Time) error {
	MeasureQueryDuration(operation, table, startTime)

	if err == nil {
		return nil
	}
	metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(operation, table string, startTime time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}
