package monitor

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// Uptime returns the time since boot.
func (s *Sources) Uptime(ctx context.Context) Reading[time.Duration] {
	return guard(ctx, s.timeout, s.now, s.logger, SourceUptime, func(ctx context.Context) (time.Duration, error) {
		boot, err := s.host.BootTime(ctx)
		if err != nil {
			return 0, err
		}
		up := s.now().Sub(boot)
		if up < 0 {
			up = 0
		}
		return up, nil
	})
}

func (System) BootTime(ctx context.Context) (time.Time, error) {
	secs, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0), nil
}
