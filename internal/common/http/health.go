package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/logger"
)

// Pinger is satisfied by *pgxpool.Pool and by the in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(log *logger.Logger, pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := pinger.Ping(ctx); err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"error":  err.Error(),
					"action": "health_check_failed",
				}).Warn("storage ping failed")
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		log.Debugf("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
