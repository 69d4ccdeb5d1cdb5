package monitor

import (
	"context"
	"testing"
)

// These tests read the real host.

func TestSystem_CPUPercent(t *testing.T) {
	pct, err := NewSystem().CPUPercent(context.Background())
	if err != nil {
		t.Fatalf("failed to collect CPU data: %v", err)
	}

	if pct < 0 || pct > 100 {
		t.Errorf("invalid CPU usage percent: %f", pct)
	}
}

func TestSystem_VirtualMemory(t *testing.T) {
	state, err := NewSystem().VirtualMemory(context.Background())
	if err != nil {
		t.Fatalf("failed to collect memory data: %v", err)
	}

	if state.TotalBytes == 0 {
		t.Error("total bytes should not be zero")
	}

	if state.UsedBytes > state.TotalBytes {
		t.Errorf("used bytes (%d) should not exceed total (%d)", state.UsedBytes, state.TotalBytes)
	}

	if state.UsagePercent < 0 || state.UsagePercent > 100 {
		t.Errorf("invalid memory usage percent: %f", state.UsagePercent)
	}
}

func TestSystem_DiskUsage(t *testing.T) {
	usage, err := NewSystem().DiskUsage(context.Background(), "/")
	if err != nil {
		t.Fatalf("failed to collect storage data: %v", err)
	}

	if usage.TotalBytes == 0 {
		t.Error("total bytes should not be zero")
	}

	if usage.UsedBytes > usage.TotalBytes {
		t.Errorf("used bytes (%d) should not exceed total (%d)", usage.UsedBytes, usage.TotalBytes)
	}
}

func TestSystem_DiskUsage_NonExistentPath(t *testing.T) {
	_, err := NewSystem().DiskUsage(context.Background(), "/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent path")
	}
}

func TestSystem_ProcessCensus(t *testing.T) {
	state, err := NewSystem().ProcessCensus(context.Background())
	if err != nil {
		t.Fatalf("failed to collect process data: %v", err)
	}

	if state.Processes <= 0 {
		t.Error("expected at least one process")
	}

	if state.Threads <= 0 {
		t.Error("expected at least one thread")
	}
}

func TestSystem_BootTime(t *testing.T) {
	boot, err := NewSystem().BootTime(context.Background())
	if err != nil {
		t.Fatalf("failed to read boot time: %v", err)
	}
	if boot.IsZero() {
		t.Error("boot time should not be zero")
	}
}

func TestSources_RealHostNeverFails(t *testing.T) {
	s := NewSources(NewSystem(), nil, 0, testLogger())
	ctx := context.Background()

	// Optional families may be unavailable on CI hosts; they must
	// still return rather than fail.
	s.Temperature(ctx)
	s.Battery(ctx)
	s.GPU(ctx)

	if r := s.Memory(ctx); !r.Available {
		t.Error("expected memory to be available")
	}
	if r := s.Uptime(ctx); !r.Available || r.Value <= 0 {
		t.Errorf("expected positive uptime, got %+v", r)
	}
}
