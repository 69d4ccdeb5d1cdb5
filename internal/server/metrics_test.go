package server

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/haskel/monix/internal/sampler"
)

func TestMetrics_Update(t *testing.T) {
	m := NewMetrics()
	m.Update(testSnapshot())

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"cpu", testutil.ToFloat64(m.gauges.WithLabelValues("cpu")), 42},
		{"ram", testutil.ToFloat64(m.gauges.WithLabelValues("ram")), 60},
		{"memory used", testutil.ToFloat64(m.memory.WithLabelValues("used")), 600},
		{"net down", testutil.ToFloat64(m.network.WithLabelValues("down")), 8_000_000},
		{"volume", testutil.ToFloat64(m.volumeUsage.WithLabelValues("/", "ext4")), 50},
		{"cpu temp", testutil.ToFloat64(m.temperature.WithLabelValues("cpu")), 55},
		{"uptime", testutil.ToFloat64(m.uptime), 3600},
		{"cycle", testutil.ToFloat64(m.cycle), 7},
		{"gpu source down", testutil.ToFloat64(m.sourceUp.WithLabelValues("gpu")), 0},
		{"cpu source up", testutil.ToFloat64(m.sourceUp.WithLabelValues("cpu")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetrics_UnavailableSeriesRemoved(t *testing.T) {
	m := NewMetrics()
	m.Update(testSnapshot())

	next := testSnapshot()
	next.Cycle = 8
	next.CPU = sampler.Gauge{}
	next.Volumes = nil
	next.NetAvailable = false
	next.CPUTempC = nil
	m.Update(next)

	// Only ram remains among the usage gauges.
	if n := testutil.CollectAndCount(m.gauges); n != 1 {
		t.Errorf("usage gauges = %d series, want 1", n)
	}
	if n := testutil.CollectAndCount(m.volumeUsage); n != 0 {
		t.Errorf("volume series = %d, want 0", n)
	}
	if n := testutil.CollectAndCount(m.network); n != 0 {
		t.Errorf("network series = %d, want 0", n)
	}
	if n := testutil.CollectAndCount(m.temperature); n != 0 {
		t.Errorf("temperature series = %d, want 0", n)
	}
}

func TestMetrics_HealthGauge(t *testing.T) {
	m := NewMetrics()
	snap := testSnapshot()
	snap.Health = sampler.Health{Status: sampler.StatusStalled, Failures: 5}
	m.Update(snap)

	if got := testutil.ToFloat64(m.health); got != 2 {
		t.Errorf("health = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.failures); got != 5 {
		t.Errorf("failures = %v, want 5", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t, testSnapshot())

	w := serve(srv, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body, _ := io.ReadAll(w.Body)
	for _, want := range []string{
		`monix_usage_percent{gauge="cpu"} 42`,
		`monix_network_bits_per_second{direction="down"} 8e+06`,
		`monix_source_up{source="gpu"} 0`,
		`go_goroutines`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_CensusSeriesFollowAvailability(t *testing.T) {
	m := NewMetrics()

	snap := testSnapshot()
	snap.CensusAvailable = true
	snap.Processes = 312
	snap.Threads = 1450
	m.Update(snap)

	if got := testutil.ToFloat64(m.processes.WithLabelValues()); got != 312 {
		t.Errorf("processes = %v, want 312", got)
	}
	if got := testutil.ToFloat64(m.threads.WithLabelValues()); got != 1450 {
		t.Errorf("threads = %v, want 1450", got)
	}

	failed := testSnapshot()
	failed.Cycle = snap.Cycle + 1
	failed.Unavailable = append(failed.Unavailable, "processes")
	m.Update(failed)

	if n := testutil.CollectAndCount(m.processes); n != 0 {
		t.Errorf("processes series = %d, want 0", n)
	}
	if n := testutil.CollectAndCount(m.threads); n != 0 {
		t.Errorf("threads series = %d, want 0", n)
	}
}
