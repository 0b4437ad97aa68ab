package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/constants"
	"github.com/AlibekovAA/book-reviews/internal/common/httpmetrics"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
)

type BaseOptions struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func BuildBaseHandler(log *logger.Logger, handler http.Handler, opts BaseOptions) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	cors := CORSMiddleware(opts.AllowedOrigins)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	timeout := TimeoutMiddleware(opts.RequestTimeout)

	return SecurityHeadersMiddleware(cors(recovery(TraceIDMiddleware(maxRequestSize(timeout(collector.Wrap(handler)))))))
}
