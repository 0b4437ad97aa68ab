package http

import (
	"net/http"

	"github.com/AlibekovAA/book-reviews/internal/common/constants"
)

// MaxRequestSizeMiddleware rejects declared oversize bodies up front and caps
// undeclared ones while they are read. DecodeJSON reports the latter as
// PAYLOAD_TOO_LARGE.
func MaxRequestSizeMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = constants.DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "request body too large", TraceIDFromContext(r.Context()))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
