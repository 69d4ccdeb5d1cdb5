package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/haskel/monix/internal/config"
	"github.com/haskel/monix/internal/sampler"
)

func TestServer_Integration(t *testing.T) {
	cfg := config.Default()

	src := &staticSource{}
	srv := New(cfg, src, testLogger(), "0.1.0")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	base := "http://" + ln.Addr().String()

	t.Run("GET /health before first cycle", func(t *testing.T) {
		resp, err := http.Get(base + "/health")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
	})

	src.snap.Store(testSnapshot())

	t.Run("GET /snapshot", func(t *testing.T) {
		resp, err := http.Get(base + "/snapshot")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}
		if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("expected security headers, got X-Content-Type-Options=%q", got)
		}

		var snap sampler.Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if snap.Cycle != 7 {
			t.Errorf("expected cycle 7, got %d", snap.Cycle)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Serve() returned %v after graceful shutdown", err)
	}
}

func TestServer_RateLimited(t *testing.T) {
	cfg := config.Default()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}
	srv := New(cfg, &staticSource{}, testLogger(), "test")

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = serve(srv, http.MethodGet, "/health").Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected [200 200 429], got %v", codes)
	}
}
