package monitor

import (
	"context"

	"github.com/shirou/gopsutil/v4/mem"
)

// Memory returns virtual memory usage.
func (s *Sources) Memory(ctx context.Context) Reading[MemoryStat] {
	r := guard(ctx, s.timeout, s.now, s.logger, SourceMemory, s.host.VirtualMemory)
	r.Value.UsagePercent = clampPercent(r.Value.UsagePercent)
	return r
}

// Swap returns swap usage. A host without swap reports an available
// reading with zero totals.
func (s *Sources) Swap(ctx context.Context) Reading[SwapStat] {
	r := guard(ctx, s.timeout, s.now, s.logger, SourceSwap, s.host.SwapMemory)
	r.Value.UsagePercent = clampPercent(r.Value.UsagePercent)
	return r
}

func (System) VirtualMemory(ctx context.Context) (MemoryStat, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, err
	}

	return MemoryStat{
		UsedBytes:      v.Used,
		TotalBytes:     v.Total,
		AvailableBytes: v.Available,
		UsagePercent:   v.UsedPercent,
	}, nil
}

func (System) SwapMemory(ctx context.Context) (SwapStat, error) {
	v, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return SwapStat{}, err
	}

	return SwapStat{
		UsedBytes:    v.Used,
		TotalBytes:   v.Total,
		UsagePercent: v.UsedPercent,
	}, nil
}
