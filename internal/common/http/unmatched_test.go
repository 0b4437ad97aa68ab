package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlibekovAA/book-reviews/internal/common/constants"
)

func newRoutedMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reviews", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /reviews/{bookId}", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"bookId": r.PathValue("bookId")})
	})
	return mux
}

func TestEnvelopeUnmatched(t *testing.T) {
	handler := EnvelopeUnmatched(newRoutedMux())

	cases := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"empty book id", http.MethodGet, "/reviews/", http.StatusNotFound, CodeNotFound},
		{"unknown route", http.MethodGet, "/books", http.StatusNotFound, CodeNotFound},
		{"nested book path", http.MethodGet, "/reviews/a/b", http.StatusNotFound, CodeNotFound},
		{"wrong method", http.MethodDelete, "/reviews", http.StatusMethodNotAllowed, CodeMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, tc.path, nil)
			r = r.WithContext(context.WithValue(r.Context(), constants.TraceIDKey, "trace-9"))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON body, got content type %q", ct)
			}
			env := decodeEnvelope(t, w)
			if env.Code != tc.wantCode || env.TraceID != "trace-9" {
				t.Errorf("unexpected envelope %+v", env)
			}
		})
	}
}

func TestEnvelopeUnmatched_KeepsAllowHeader(t *testing.T) {
	w := httptest.NewRecorder()
	EnvelopeUnmatched(newRoutedMux()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != "POST" {
		t.Errorf("expected Allow: POST, got %q", allow)
	}
}

func TestEnvelopeUnmatched_MatchedRoutesUntouched(t *testing.T) {
	handler := EnvelopeUnmatched(newRoutedMux())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/b1", nil))
	if w.Code != http.StatusOK || w.Body.String() != "{\"bookId\":\"b1\"}\n" {
		t.Errorf("unexpected response %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reviews", nil))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestEnvelopeUnmatched_RedirectsPassThrough(t *testing.T) {
	w := httptest.NewRecorder()
	EnvelopeUnmatched(newRoutedMux()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/../reviews/b1", nil))

	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("expected path-cleaning redirect, got %d", w.Code)
	}
}
