package monitor

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/net"
)

// Network returns cumulative byte counters summed over all interfaces.
func (s *Sources) Network(ctx context.Context) Reading[NetCounters] {
	return guard(ctx, s.timeout, s.now, s.logger, SourceNetwork, s.host.NetIOCounters)
}

func (System) NetIOCounters(ctx context.Context) (NetCounters, error) {
	stats, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetCounters{}, err
	}
	if len(stats) == 0 {
		return NetCounters{}, fmt.Errorf("no network counters reported")
	}

	return NetCounters{
		BytesSent: stats[0].BytesSent,
		BytesRecv: stats[0].BytesRecv,
	}, nil
}
