package http

import "net/http"

// EnvelopeUnmatched answers requests that match no route, or match a route
// under another method, with the JSON error envelope instead of ServeMux's
// plain-text bodies. Redirects issued by the mux pass through unchanged.
func EnvelopeUnmatched(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, pattern := mux.Handler(r)
		if pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}

		fallback := &fallbackRecorder{header: http.Header{}}
		handler.ServeHTTP(fallback, r)

		traceID := TraceIDFromContext(r.Context())
		switch fallback.status {
		case http.StatusMethodNotAllowed:
			if allow := fallback.header.Get("Allow"); allow != "" {
				w.Header().Set("Allow", allow)
			}
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", traceID)
		case http.StatusNotFound:
			WriteErrorEnvelope(w, http.StatusNotFound, CodeNotFound, "route not found", traceID)
		default:
			handler.ServeHTTP(w, r)
		}
	})
}

// fallbackRecorder records what the mux's fallback handler would answer without
// writing anything to the client.
type fallbackRecorder struct {
	header http.Header
	status int
}

func (f *fallbackRecorder) Header() http.Header { return f.header }

func (f *fallbackRecorder) WriteHeader(status int) {
	if f.status == 0 {
		f.status = status
	}
}

func (f *fallbackRecorder) Write(b []byte) (int, error) {
	if f.status == 0 {
		f.status = http.StatusOK
	}
	return len(b), nil
}
