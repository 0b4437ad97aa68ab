package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/book-reviews/internal/common/clock"
	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
)

type CircuitBreaker struct {
	failures    atomic.Int32
	lastFailure atomic.Int64
	threshold   int32
	timeout     time.Duration
	resetAfter  time.Duration
	name        string
	clock       clock.Clock
	log         *logger.Logger
}

type CircuitBreakerConfig struct {
	Threshold  int32
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	Clock      clock.Clock
	Logger     *logger.Logger
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	c := config.Clock
	if c == nil {
		c = clock.NewRealClock()
	}
	return &CircuitBreaker{
		threshold:  config.Threshold,
		timeout:    config.Timeout,
		resetAfter: config.ResetAfter,
		name:       config.Name,
		clock:      c,
		log:        config.Logger,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.failures.Load() < cb.threshold {
		cb.setState(0)
		return false
	}

	last := cb.lastFailure.Load()
	if last == 0 {
		cb.setState(0)
		return false
	}

	if cb.clock.Now().Sub(time.Unix(0, last)) > cb.resetAfter {
		cb.reset()
		cb.setState(0)
		return false
	}

	cb.setState(1)
	return true
}

func (cb *CircuitBreaker) setState(state float64) {
	if cb.name != "" {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(state)
	}
}

func (cb *CircuitBreaker) recordFailure(err error) {
	cb.failures.Add(1)
	cb.lastFailure.Store(cb.clock.Now().UnixNano())
	if cb.name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	}
	cb.log.Warnf("circuit breaker [%s]: failure recorded: %v", cb.name, err)
}

func (cb *CircuitBreaker) reset() {
	cb.failures.Store(0)
	cb.lastFailure.Store(0)
}

// countsAsFailure reports whether err says something about the health of
// the dependency. Missing rows and domain outcomes such as a duplicate
// email are normal answers.
func countsAsFailure(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if de, ok := commonerrors.AsDomainError(err); ok {
		return de.Category() == commonerrors.CategoryInternal || de.Category() == commonerrors.CategoryExternal
	}
	return true
}

// Call runs fn under the breaker. A nil breaker runs fn directly.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb == nil {
		return fn(ctx)
	}

	if cb.IsOpen() {
		cb.log.Warnf("circuit breaker [%s]: circuit is open, rejecting request", cb.name)
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	if err != nil {
		if countsAsFailure(err) {
			cb.recordFailure(err)
		}
		return err
	}

	cb.reset()
	return nil
}
