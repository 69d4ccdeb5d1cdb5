package sampler

import (
	"fmt"
	"slices"
	"time"

	"github.com/haskel/monix/internal/colormap"
	"github.com/haskel/monix/internal/gpu"
	"github.com/haskel/monix/internal/monitor"
	"github.com/haskel/monix/internal/volume"
)

// Status is the coarse health of the sampling loop.
type Status int

const (
	StatusOK Status = iota
	StatusDegraded
	StatusStalled
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusStalled:
		return "stalled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ok":
		*s = StatusOK
	case "degraded":
		*s = StatusDegraded
	case "stalled":
		*s = StatusStalled
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Health combines the status with the consecutive failure count that
// produced it.
type Health struct {
	Status   Status `json:"status"`
	Failures int    `json:"consecutive_failures"`
}

func (h Health) String() string {
	if h.Status == StatusDegraded {
		return fmt.Sprintf("degraded(%d)", h.Failures)
	}
	return h.Status.String()
}

// Gauge is a smoothed percentage with its display colour. Redraw is
// false when the change since the previous snapshot is too small to be
// worth repainting.
type Gauge struct {
	Percent   float64      `json:"percent"`
	Color     colormap.RGB `json:"color"`
	Redraw    bool         `json:"redraw"`
	Available bool         `json:"available"`
}

// Snapshot is everything one cycle produced. It is never modified after
// being published; callers that need to change it should Clone first.
type Snapshot struct {
	Cycle     uint64    `json:"cycle"`
	Timestamp time.Time `json:"timestamp"`
	Health    Health    `json:"health"`

	CPU  Gauge `json:"cpu"`
	RAM  Gauge `json:"ram"`
	GPU  Gauge `json:"gpu"`
	VRAM Gauge `json:"vram"`

	MemoryDetail string `json:"memory_detail"`
	SwapDetail   string `json:"swap_detail"`
	GPUDetail    string `json:"gpu_detail"`

	Memory  *monitor.MemoryStat `json:"memory,omitempty"`
	Swap    *monitor.SwapStat   `json:"swap,omitempty"`
	GPUStat *gpu.Stat           `json:"gpu_stat,omitempty"`

	DiskIOAvailable bool    `json:"disk_io_available"`
	DiskRead        float64 `json:"disk_read_bytes_per_sec"`
	DiskWrite       float64 `json:"disk_write_bytes_per_sec"`
	DiskIODetail    string  `json:"disk_io_detail"`

	Volumes        []volume.Record `json:"volumes"`
	VolumesAdded   []string        `json:"volumes_added,omitempty"`
	VolumesRemoved []string        `json:"volumes_removed,omitempty"`

	NetAvailable bool    `json:"net_available"`
	NetDownBits  float64 `json:"net_down_bits_per_sec"`
	NetUpBits    float64 `json:"net_up_bits_per_sec"`
	NetDetail    string  `json:"net_detail"`

	CPUTempC *float64 `json:"cpu_temp_c,omitempty"`
	GPUTempC *float64 `json:"gpu_temp_c,omitempty"`

	Uptime     time.Duration `json:"uptime"`
	UptimeText string        `json:"uptime_text"`

	CensusAvailable bool `json:"census_available"`
	Processes       int  `json:"processes"`
	Threads         int  `json:"threads"`

	BatteryStat *monitor.BatteryStat `json:"battery_stat,omitempty"`
	Battery     string               `json:"battery"`

	// Unavailable lists the sources that could not be read this cycle.
	Unavailable []string `json:"unavailable,omitempty"`
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	clone := *s
	clone.Volumes = slices.Clone(s.Volumes)
	clone.VolumesAdded = slices.Clone(s.VolumesAdded)
	clone.VolumesRemoved = slices.Clone(s.VolumesRemoved)
	clone.Unavailable = slices.Clone(s.Unavailable)
	clone.Memory = clonePtr(s.Memory)
	clone.Swap = clonePtr(s.Swap)
	clone.GPUStat = clonePtr(s.GPUStat)
	clone.CPUTempC = clonePtr(s.CPUTempC)
	clone.GPUTempC = clonePtr(s.GPUTempC)
	clone.BatteryStat = clonePtr(s.BatteryStat)
	if clone.GPUStat != nil {
		clone.GPUStat.TemperatureC = clonePtr(s.GPUStat.TemperatureC)
	}
	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
