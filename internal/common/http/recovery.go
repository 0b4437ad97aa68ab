package http

import (
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/observability/metrics"
)

// RecoveryMiddleware turns a handler panic into the generic 500 envelope.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				metrics.PanicsRecoveredTotal.Inc()
				log.WithFields(r.Context(), logger.Fields{
					"action": "panic_recovered",
					"method": r.Method,
					"path":   r.URL.Path,
				}).Criticalf("panic recovered: %v\n%s", rec, debug.Stack())
				WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", TraceIDFromContext(r.Context()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
