package monitor

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
)

// CPU returns the instantaneous overall CPU utilisation in percent.
func (s *Sources) CPU(ctx context.Context) Reading[float64] {
	r := guard(ctx, s.timeout, s.now, s.logger, SourceCPU, s.host.CPUPercent)
	if r.Available {
		r.Value = clampPercent(r.Value)
	}
	return r
}

func (System) CPUPercent(ctx context.Context) (float64, error) {
	// Interval 0 compares against the previous call, so the reading
	// costs nothing and needs no caller-side state.
	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(percentages) == 0 {
		return 0, fmt.Errorf("no cpu percentages reported")
	}
	return percentages[0], nil
}

func clampPercent(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
