package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func requestFrom(handler http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Disabled(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, Burst: 1})(okHandler())

	for i := 0; i < 10; i++ {
		if w := requestFrom(handler, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Enabled: true, RequestsPerSecond: 0.5, Burst: 3})(okHandler())

	for i := 0; i < 3; i++ {
		if w := requestFrom(handler, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("request %d within burst: expected 200, got %d", i, w.Code)
		}
	}

	w := requestFrom(handler, "10.0.0.1:1234")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
}

func TestRateLimit_SeparateClients(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1})(okHandler())

	if w := requestFrom(handler, "10.0.0.1:1000"); w.Code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", w.Code)
	}
	// Same host on another port shares the bucket.
	if w := requestFrom(handler, "10.0.0.1:2000"); w.Code != http.StatusTooManyRequests {
		t.Errorf("same host: expected 429, got %d", w.Code)
	}
	if w := requestFrom(handler, "10.0.0.2:1000"); w.Code != http.StatusOK {
		t.Errorf("second client: expected 200, got %d", w.Code)
	}
}

func TestClientLimiters_EvictOldest(t *testing.T) {
	l := newClientLimiters(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, MaxClients: 2})
	now := time.Unix(0, 0)
	l.now = func() time.Time { return now }

	a := l.get("a")
	now = now.Add(time.Second)
	l.get("b")
	now = now.Add(time.Second)
	l.get("a") // refresh a, so b becomes the oldest
	now = now.Add(time.Second)
	l.get("c")

	if n := l.len(); n != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", n)
	}
	if l.get("a") != a {
		t.Error("recently seen client should keep its limiter")
	}
	if _, ok := l.clients["b"]; ok {
		t.Error("oldest client should have been evicted")
	}
}

func TestClientAddr(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.168.1.5:4321", "192.168.1.5"},
		{"[::1]:8080", "::1"},
		{"unix-socket", "unix-socket"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		if got := clientAddr(req); got != tt.want {
			t.Errorf("clientAddr(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}
