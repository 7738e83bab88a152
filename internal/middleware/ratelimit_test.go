package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newLimitedHandler(t *testing.T, ratePerSecond float64, burst int) http.Handler {
	t.Helper()
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	rl := NewRateLimiter(ratePerSecond, burst, stop)
	return rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	handler := newLimitedHandler(t, 1, 3)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i, rec.Code)
		}
	}
}

func TestRateLimiterBlocksOverBurst(t *testing.T) {
	handler := newLimitedHandler(t, 0.001, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got status %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got status %d, want 429", rec.Code)
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	handler := newLimitedHandler(t, 0.001, 1)

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first client: got status %d, want 200", rec.Code)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client retry: got status %d, want 429", rec.Code)
	}

	// A different IP has its own bucket.
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Fatalf("second client: got status %d, want 200", rec.Code)
	}
}
