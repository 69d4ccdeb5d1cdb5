package monitor

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/haskel/monix/internal/rate"
	"github.com/haskel/monix/internal/volume"
)

// Volumes enumerates eligible volumes with their usage. A volume whose
// usage cannot be read is left out; only a failure to enumerate
// partitions makes the whole reading unavailable.
func (s *Sources) Volumes(ctx context.Context) Reading[[]volume.Record] {
	return guard(ctx, s.timeout, s.now, s.logger, SourceVolumes, func(ctx context.Context) ([]volume.Record, error) {
		parts, err := s.host.Partitions(ctx)
		if err != nil {
			return nil, fmt.Errorf("partitions: %w", err)
		}

		records := make([]volume.Record, 0, len(parts))
		for _, p := range parts {
			if !volume.Eligible(p) {
				continue
			}

			usage, err := s.host.DiskUsage(ctx, p.Mountpoint)
			if err != nil {
				// Skip volumes that are not accessible
				s.logger.Debug("volume usage unavailable", "mountpoint", p.Mountpoint, "error", err)
				continue
			}

			records = append(records, volume.Record{
				DisplayID:   volume.DisplayID(p, s.goos),
				Mountpoint:  p.Mountpoint,
				FSType:      p.FSType,
				UsedBytes:   usage.UsedBytes,
				TotalBytes:  usage.TotalBytes,
				UsedPercent: clampPercent(usage.UsedPercent),
			})
		}
		return records, nil
	})
}

// DiskIO returns cumulative per-device byte counters.
func (s *Sources) DiskIO(ctx context.Context) Reading[map[string]rate.IOCounters] {
	return guard(ctx, s.timeout, s.now, s.logger, SourceDiskIO, s.host.DiskIOCounters)
}

func (System) Partitions(ctx context.Context) ([]volume.Partition, error) {
	stats, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	parts := make([]volume.Partition, 0, len(stats))
	for _, p := range stats {
		parts = append(parts, volume.Partition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			FSType:     p.Fstype,
			Opts:       p.Opts,
		})
	}
	return parts, nil
}

func (System) DiskUsage(ctx context.Context, mountpoint string) (UsageStat, error) {
	usage, err := disk.UsageWithContext(ctx, mountpoint)
	if err != nil {
		return UsageStat{}, err
	}

	return UsageStat{
		UsedBytes:   usage.Used,
		TotalBytes:  usage.Total,
		UsedPercent: usage.UsedPercent,
	}, nil
}

func (System) DiskIOCounters(ctx context.Context) (map[string]rate.IOCounters, error) {
	stats, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return nil, err
	}

	counters := make(map[string]rate.IOCounters, len(stats))
	for name, st := range stats {
		counters[name] = rate.IOCounters{
			ReadBytes:  st.ReadBytes,
			WriteBytes: st.WriteBytes,
		}
	}
	return counters, nil
}
