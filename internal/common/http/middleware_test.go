package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/logger"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"https://books.example.com"})(http.HandlerFunc(okHandler))

	t.Run("allowed origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/reviews/b1", nil)
		r.Header.Set("Origin", "https://books.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://books.example.com" {
			t.Errorf("expected origin echoed, got %q", got)
		}
	})

	t.Run("foreign origin", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/reviews/b1", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no CORS header, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/reviews", nil)
		r.Header.Set("Origin", "https://books.example.com")
		r.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://books.example.com" {
			t.Errorf("expected origin echoed on preflight, got %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
			t.Errorf("expected POST allowed, got %q", got)
		}
		if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
			t.Errorf("expected max age 600, got %q", got)
		}
	})

	t.Run("preflight for unlisted method", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/reviews", nil)
		r.Header.Set("Origin", "https://books.example.com")
		r.Header.Set("Access-Control-Request-Method", "DELETE")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected DELETE preflight refused, got origin %q", got)
		}
	})

	t.Run("preflight with authorization header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodOptions, "/auth/profile", nil)
		r.Header.Set("Origin", "https://books.example.com")
		r.Header.Set("Access-Control-Request-Method", "PUT")
		r.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://books.example.com" {
			t.Errorf("expected bearer preflight allowed, got origin %q", got)
		}
	})

	t.Run("empty list allows any origin", func(t *testing.T) {
		open := CORSMiddleware(nil)(http.HandlerFunc(okHandler))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		open.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("expected origin echoed, got %q", got)
		}
	})

	t.Run("wildcard entry allows any origin", func(t *testing.T) {
		open := CORSMiddleware([]string{" * "})(http.HandlerFunc(okHandler))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Origin", "https://elsewhere.example.com")
		w := httptest.NewRecorder()
		open.ServeHTTP(w, r)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://elsewhere.example.com" {
			t.Errorf("expected origin echoed, got %q", got)
		}
	})
}

func TestTraceIDMiddleware(t *testing.T) {
	var seen string
	handler := TraceIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Trace-ID", "abc")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if seen != "abc" || w.Header().Get("X-Trace-ID") != "abc" {
		t.Errorf("expected incoming trace id kept, got %q", seen)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Trace-ID", strings.Repeat("x", 200))
	handler.ServeHTTP(httptest.NewRecorder(), r)
	if len(seen) != 36 {
		t.Errorf("expected generated uuid for oversize header, got %q", seen)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(logger.NewWithWriter(io.Discard, "test", "error"))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, env.Code)
	}
}

func TestMaxRequestSizeMiddleware(t *testing.T) {
	handler := MaxRequestSizeMiddleware(8)(http.HandlerFunc(okHandler))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader("{}")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	var deadline time.Time
	var ok bool
	handler := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !ok || time.Until(deadline) > time.Second {
		t.Errorf("expected deadline within a second, got %v (%v)", deadline, ok)
	}

	passthrough := TimeoutMiddleware(0)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, ok = r.Context().Deadline()
	}))
	passthrough.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))
	if ok {
		t.Error("zero timeout must not set a deadline")
	}
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "error")

	w := httptest.NewRecorder()
	HealthHandler(log, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 without pinger, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	failing := pingerFunc(func(context.Context) error { return context.DeadlineExceeded })
	HealthHandler(log, failing).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when ping fails, got %d", w.Code)
	}
}
