package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/haskel/monix/internal/rate"
	"github.com/haskel/monix/internal/volume"
)

// Source names, used in logs and in a snapshot's list of unavailable
// sources.
const (
	SourceCPU         = "cpu"
	SourceMemory      = "memory"
	SourceSwap        = "swap"
	SourceVolumes     = "volumes"
	SourceDiskIO      = "disk_io"
	SourceNetwork     = "network"
	SourceTemperature = "temperature"
	SourceBattery     = "battery"
	SourceProcesses   = "processes"
	SourceUptime      = "uptime"
	SourceGPU         = "gpu"
)

var (
	// ErrTimeout is reported when a source does not answer within its
	// time budget.
	ErrTimeout = errors.New("source timed out")

	// ErrNoBattery is returned by hosts without a battery.
	ErrNoBattery = errors.New("no battery")

	// ErrNoSensors is returned when no temperature sensor has a value.
	ErrNoSensors = errors.New("no temperature sensors")
)

// Reading is one sample of a metric family. Available is false when the
// source could not be read this cycle; Value is then the zero value and
// must not be displayed.
type Reading[T any] struct {
	Value     T
	Available bool
	At        time.Time
}

// Unavailable returns the unavailable sentinel for T.
func Unavailable[T any](at time.Time) Reading[T] {
	return Reading[T]{At: at}
}

// Available wraps v as a successful reading.
func Available[T any](v T, at time.Time) Reading[T] {
	return Reading[T]{Value: v, Available: true, At: at}
}

type MemoryStat struct {
	UsedBytes      uint64  `json:"used_bytes"`
	TotalBytes     uint64  `json:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
}

type SwapStat struct {
	UsedBytes    uint64  `json:"used_bytes"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

type NetCounters struct {
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

type TemperatureStat struct {
	SensorKey   string  `json:"sensor_key"`
	Temperature float64 `json:"temperature"`
}

type BatteryStat struct {
	Percent     float64       `json:"percent"`
	Plugged     bool          `json:"plugged"`
	SecondsLeft time.Duration `json:"seconds_left"`
}

type ProcessState struct {
	Processes int `json:"processes"`
	Threads   int `json:"threads"`
}

type UsageStat struct {
	UsedBytes   uint64
	TotalBytes  uint64
	UsedPercent float64
}

// Host is the set of OS collaborators the sources read from. System is
// the gopsutil-backed implementation; tests substitute fakes.
type Host interface {
	CPUPercent(ctx context.Context) (float64, error)
	VirtualMemory(ctx context.Context) (MemoryStat, error)
	SwapMemory(ctx context.Context) (SwapStat, error)
	Partitions(ctx context.Context) ([]volume.Partition, error)
	DiskUsage(ctx context.Context, mountpoint string) (UsageStat, error)
	DiskIOCounters(ctx context.Context) (map[string]rate.IOCounters, error)
	NetIOCounters(ctx context.Context) (NetCounters, error)
	Temperatures(ctx context.Context) ([]TemperatureStat, error)
	Battery(ctx context.Context) (BatteryStat, error)
	BootTime(ctx context.Context) (time.Time, error)
	ProcessCensus(ctx context.Context) (ProcessState, error)
}
