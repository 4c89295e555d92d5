package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, limit int) (http.Handler, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	logger, _ := zap.NewDevelopment()
	mw := RateLimitMiddleware(client, RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "login_rate_limit",
	}, logger)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	return handler, func() {
		client.Close()
		mr.Close()
	}
}

func TestRateLimitBlocksExcessiveLoginAttempts(t *testing.T) {
	const limit = 5
	handler, cleanup := newLimitedHandler(t, limit)
	defer cleanup()

	for i := 0; i < limit; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "203.0.113.7:40000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit request: status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler, cleanup := newLimitedHandler(t, 1)
	defer cleanup()

	first := httptest.NewRequest("POST", "/login", nil)
	first.RemoteAddr = "198.51.100.1:1000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first client: status = %d", w.Code)
	}

	second := httptest.NewRequest("POST", "/login", nil)
	second.RemoteAddr = "198.51.100.2:1000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Fatalf("second client should not share the first client's window: status = %d", w.Code)
	}
}
