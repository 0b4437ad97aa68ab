package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     time.Second,
	Multiplier:   2.0,
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch {
	case pgerrcode.IsConnectionException(pgErr.Code):
		return true
	case pgErr.Code == pgerrcode.SerializationFailure, pgErr.Code == pgerrcode.DeadlockDetected:
		return true
	case pgErr.Code == pgerrcode.LockNotAvailable:
		return true
	}

	return false
}

// RetryWithBackoff reruns operation while it fails with a transient
// PostgreSQL error. operation must be safe to repeat.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, name string, config RetryConfig, operation func(context.Context) error) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := operation(ctx)
		if err == nil {
			if attempt > 1 && log != nil {
				log.Infof("database operation %s succeeded after %d attempts", name, attempt)
			}
			return nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			return err
		}

		if attempt == config.MaxAttempts {
			break
		}

		metrics.DBRetriesTotal.WithLabelValues(name).Inc()
		if log != nil {
			log.Warnf("database operation %s failed (attempt %d/%d): %v, retrying in %v", name, attempt, config.MaxAttempts, err, delay)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return fmt.Errorf("database operation %s failed after %d attempts: %w", name, config.MaxAttempts, lastErr)
}
