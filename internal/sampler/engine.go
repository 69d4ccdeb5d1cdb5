package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/haskel/monix/internal/colormap"
	"github.com/haskel/monix/internal/format"
	"github.com/haskel/monix/internal/gpu"
	"github.com/haskel/monix/internal/monitor"
	"github.com/haskel/monix/internal/rate"
	"github.com/haskel/monix/internal/smoothing"
	"github.com/haskel/monix/internal/volume"
)

// Placeholder is shown in place of a value that is unavailable.
const Placeholder = "—"

// Sources is the set of collectors a cycle reads from. Implementations
// must never fail the caller: every problem degrades to an unavailable
// reading.
type Sources interface {
	CPU(ctx context.Context) monitor.Reading[float64]
	Memory(ctx context.Context) monitor.Reading[monitor.MemoryStat]
	Swap(ctx context.Context) monitor.Reading[monitor.SwapStat]
	Volumes(ctx context.Context) monitor.Reading[[]volume.Record]
	DiskIO(ctx context.Context) monitor.Reading[map[string]rate.IOCounters]
	Network(ctx context.Context) monitor.Reading[monitor.NetCounters]
	Temperature(ctx context.Context) monitor.Reading[float64]
	Battery(ctx context.Context) monitor.Reading[monitor.BatteryStat]
	Processes(ctx context.Context) monitor.Reading[monitor.ProcessState]
	Uptime(ctx context.Context) monitor.Reading[time.Duration]
	GPU(ctx context.Context) monitor.Reading[gpu.Stat]
	Close() error
}

var _ Sources = (*monitor.Sources)(nil)

// Metric ids for rate and smoothing state.
const (
	metricCPU     = "cpu"
	metricRAM     = "ram"
	metricGPU     = "gpu"
	metricVRAM    = "vram"
	metricNetDown = "net_down"
	metricNetUp   = "net_up"
	metricRead    = "disk_read"
	metricWrite   = "disk_write"
)

// Options configures an Engine. Zero fields take the defaults.
type Options struct {
	Interval         time.Duration
	Alpha            float64
	FailureThreshold int
	CensusEvery      int
	RateEpsilon      time.Duration
	RedrawThreshold  float64
	LoadGradient     colormap.Gradient
	VRAMGradient     colormap.Gradient
	Now              func() time.Time
}

// DefaultOptions returns the standard sampling setup.
func DefaultOptions() Options {
	return Options{
		Interval:         time.Second,
		Alpha:            smoothing.DefaultAlpha,
		FailureThreshold: 3,
		CensusEvery:      5,
		RateEpsilon:      rate.DefaultEpsilon,
		RedrawThreshold:  colormap.DefaultRedrawThreshold,
		LoadGradient:     colormap.LoadGradient(),
		VRAMGradient:     colormap.VRAMGradient(),
		Now:              time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Interval <= 0 {
		o.Interval = d.Interval
	}
	if o.Alpha == 0 {
		o.Alpha = d.Alpha
	}
	if o.FailureThreshold <= 0 {
		o.FailureThreshold = d.FailureThreshold
	}
	if o.CensusEvery <= 0 {
		o.CensusEvery = d.CensusEvery
	}
	if o.RateEpsilon <= 0 {
		o.RateEpsilon = d.RateEpsilon
	}
	if o.RedrawThreshold <= 0 {
		o.RedrawThreshold = d.RedrawThreshold
	}
	if o.LoadGradient == (colormap.Gradient{}) {
		o.LoadGradient = d.LoadGradient
	}
	if o.VRAMGradient == (colormap.Gradient{}) {
		o.VRAMGradient = d.VRAMGradient
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// Engine runs sampling cycles. At most one cycle runs at a time; all
// derived state (rates, smoothing, volumes, health) is owned by the
// cycle holding cycleMu.
type Engine struct {
	sources Sources
	opts    Options
	logger  *slog.Logger

	cycleMu  sync.Mutex
	closed   bool
	cycle    uint64
	failures int

	rates   *rate.Computer
	diskIO  *rate.DiskIO
	ema     *smoothing.EMA
	volumes *volume.Reconciler
	drawn   map[string]Gauge

	census   monitor.ProcessState
	censusOK bool

	last atomic.Pointer[Snapshot]

	closeOnce sync.Once
	closeErr  error
}

// New creates an Engine reading from sources.
func New(sources Sources, opts Options, logger *slog.Logger) (*Engine, error) {
	opts = opts.withDefaults()
	ema, err := smoothing.New(opts.Alpha)
	if err != nil {
		return nil, fmt.Errorf("smoothing: %w", err)
	}
	return &Engine{
		sources: sources,
		opts:    opts,
		logger:  logger,
		rates:   rate.New(opts.RateEpsilon),
		diskIO:  rate.NewDiskIO(opts.RateEpsilon),
		ema:     ema,
		volumes: volume.NewReconciler(),
		drawn:   make(map[string]Gauge),
	}, nil
}

// Interval returns the configured cycle period.
func (e *Engine) Interval() time.Duration {
	return e.opts.Interval
}

// Latest returns the most recently published snapshot, or nil before
// the first cycle.
func (e *Engine) Latest() *Snapshot {
	return e.last.Load()
}

// Cycle runs one collect, compute and publish pass and returns the new
// snapshot with true. When another cycle is still running, or the
// engine has been shut down, it returns the latest snapshot and false.
func (e *Engine) Cycle(ctx context.Context) (*Snapshot, bool) {
	if !e.cycleMu.TryLock() {
		e.logger.Debug("cycle skipped, previous cycle still running")
		return e.Latest(), false
	}
	defer e.cycleMu.Unlock()

	if e.closed {
		return e.Latest(), false
	}

	e.cycle++
	census := e.cycle%uint64(e.opts.CensusEvery) == 0

	snap, err := e.run(ctx, census)
	e.recordOutcome(err)

	if snap == nil {
		snap = e.fallback()
	}
	snap.Cycle = e.cycle
	snap.Health = e.health()
	e.last.Store(snap)
	return snap, true
}

func (e *Engine) run(ctx context.Context, census bool) (snap *Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, fmt.Errorf("cycle panic: %v", r)
		}
	}()

	c, err := e.collect(ctx, census)
	// Partial data is still assembled when a source failed.
	return e.assemble(c), err
}

// fallback is published when computing a snapshot failed: the last
// good values, marked as unchanged.
func (e *Engine) fallback() *Snapshot {
	prev := e.Latest()
	if prev == nil {
		return &Snapshot{
			Timestamp:    e.opts.Now(),
			MemoryDetail: Placeholder,
			SwapDetail:   Placeholder,
			GPUDetail:    Placeholder,
			DiskIODetail: Placeholder,
			NetDetail:    Placeholder,
			UptimeText:   Placeholder,
			Battery:      Placeholder,
		}
	}
	snap := prev.Clone()
	snap.Timestamp = e.opts.Now()
	snap.VolumesAdded, snap.VolumesRemoved = nil, nil
	for _, g := range []*Gauge{&snap.CPU, &snap.RAM, &snap.GPU, &snap.VRAM} {
		g.Redraw = false
	}
	return snap
}

func (e *Engine) recordOutcome(err error) {
	before := e.health()
	if err != nil {
		e.failures++
		e.logger.Warn("sampling cycle failed", "cycle", e.cycle, "failures", e.failures, "error", err)
	} else {
		e.failures = 0
	}

	after := e.health()
	if after.Status == before.Status {
		return
	}
	if after.Status == StatusOK {
		e.logger.Info("sampling recovered", "cycle", e.cycle)
	} else {
		e.logger.Warn("sampling health changed", "from", before.Status, "to", after.Status, "failures", e.failures)
	}
}

func (e *Engine) health() Health {
	switch {
	case e.failures == 0:
		return Health{Status: StatusOK}
	case e.failures > e.opts.FailureThreshold:
		return Health{Status: StatusStalled, Failures: e.failures}
	default:
		return Health{Status: StatusDegraded, Failures: e.failures}
	}
}

// Shutdown stops further cycles, waits for a running one to finish and
// releases the sources. It is safe to call more than once; the sources
// are closed exactly once.
func (e *Engine) Shutdown() error {
	e.closeOnce.Do(func() {
		e.cycleMu.Lock()
		e.closed = true
		cycles := e.cycle
		e.cycleMu.Unlock()

		e.closeErr = e.sources.Close()
		e.logger.Info("sampler stopped", "cycles", cycles)
	})
	return e.closeErr
}

type collected struct {
	cpu         monitor.Reading[float64]
	memory      monitor.Reading[monitor.MemoryStat]
	swap        monitor.Reading[monitor.SwapStat]
	volumes     monitor.Reading[[]volume.Record]
	diskIO      monitor.Reading[map[string]rate.IOCounters]
	network     monitor.Reading[monitor.NetCounters]
	temperature monitor.Reading[float64]
	battery     monitor.Reading[monitor.BatteryStat]
	uptime      monitor.Reading[time.Duration]
	gpu         monitor.Reading[gpu.Stat]
	processes   monitor.Reading[monitor.ProcessState]
	censusRan   bool
}

// collect reads every source concurrently. A panic escaping a source is
// contained here and reported as the cycle's error; the other readings
// are kept.
func (e *Engine) collect(ctx context.Context, census bool) (*collected, error) {
	c := &collected{censusRan: census}

	var g errgroup.Group
	run := func(name string, read func()) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("source %s panicked: %v", name, r)
				}
			}()
			read()
			return nil
		})
	}

	run(monitor.SourceCPU, func() { c.cpu = e.sources.CPU(ctx) })
	run(monitor.SourceMemory, func() { c.memory = e.sources.Memory(ctx) })
	run(monitor.SourceSwap, func() { c.swap = e.sources.Swap(ctx) })
	run(monitor.SourceVolumes, func() { c.volumes = e.sources.Volumes(ctx) })
	run(monitor.SourceDiskIO, func() { c.diskIO = e.sources.DiskIO(ctx) })
	run(monitor.SourceNetwork, func() { c.network = e.sources.Network(ctx) })
	run(monitor.SourceTemperature, func() { c.temperature = e.sources.Temperature(ctx) })
	run(monitor.SourceBattery, func() { c.battery = e.sources.Battery(ctx) })
	run(monitor.SourceUptime, func() { c.uptime = e.sources.Uptime(ctx) })
	run(monitor.SourceGPU, func() { c.gpu = e.sources.GPU(ctx) })
	if census {
		run(monitor.SourceProcesses, func() { c.processes = e.sources.Processes(ctx) })
	}

	return c, g.Wait()
}

func (e *Engine) assemble(c *collected) *Snapshot {
	s := &Snapshot{Timestamp: e.opts.Now()}

	e.assembleNetwork(s, c.network)
	e.assembleDiskIO(s, c.diskIO)

	s.CPU = e.gauge(metricCPU, c.cpu.Value, c.cpu.Available, e.opts.LoadGradient)
	s.RAM = e.gauge(metricRAM, c.memory.Value.UsagePercent, c.memory.Available, e.opts.LoadGradient)

	s.MemoryDetail = Placeholder
	if c.memory.Available {
		m := c.memory.Value
		s.Memory = &m
		s.MemoryDetail = fmt.Sprintf("RAM: %s / %s (Avail %s)",
			format.Uint(m.UsedBytes), format.Uint(m.TotalBytes), format.Uint(m.AvailableBytes))
	}

	s.SwapDetail = "Swap: " + Placeholder
	if c.swap.Available {
		sw := c.swap.Value
		s.Swap = &sw
		if sw.TotalBytes > 0 {
			s.SwapDetail = fmt.Sprintf("Swap: %.0f%% (%s/%s)",
				sw.UsagePercent, format.Uint(sw.UsedBytes), format.Uint(sw.TotalBytes))
		}
	}

	e.assembleGPU(s, c.gpu)

	if c.temperature.Available {
		t := c.temperature.Value
		s.CPUTempC = &t
	}

	s.UptimeText = Placeholder
	if c.uptime.Available {
		s.Uptime = c.uptime.Value
		s.UptimeText = format.Duration(c.uptime.Value)
	}

	// Cycles without a census keep the last result; a census that ran
	// and failed drops it rather than showing stale counts.
	if c.censusRan {
		e.census = c.processes.Value
		e.censusOK = c.processes.Available
	}
	s.CensusAvailable = e.censusOK
	s.Processes = e.census.Processes
	s.Threads = e.census.Threads

	s.Battery = Placeholder
	if c.battery.Available {
		b := c.battery.Value
		s.BatteryStat = &b
		s.Battery = batteryText(b)
	}

	// A failed enumeration keeps the previous volume set.
	if c.volumes.Available {
		delta := e.volumes.Reconcile(c.volumes.Value)
		s.VolumesAdded = delta.Added
		s.VolumesRemoved = delta.Removed
		for _, id := range delta.Added {
			e.logger.Info("volume appeared", "volume", id)
		}
		for _, id := range delta.Removed {
			e.logger.Info("volume removed", "volume", id)
		}
	}
	s.Volumes = e.volumes.Records()

	s.Unavailable = unavailable(c)
	return s
}

func (e *Engine) assembleNetwork(s *Snapshot, r monitor.Reading[monitor.NetCounters]) {
	if !r.Available {
		// The gap is discarded: a returning counter starts a new baseline.
		e.rates.Forget(metricNetDown)
		e.rates.Forget(metricNetUp)
		s.NetDetail = Placeholder
		return
	}

	down := e.smoothedRate(metricNetDown, float64(r.Value.BytesRecv), r.At)
	up := e.smoothedRate(metricNetUp, float64(r.Value.BytesSent), r.At)
	s.NetAvailable = true
	s.NetDownBits = down * 8
	s.NetUpBits = up * 8
	s.NetDetail = fmt.Sprintf("↓ %s  ↑ %s", format.Megabits(s.NetDownBits), format.Megabits(s.NetUpBits))
}

func (e *Engine) assembleDiskIO(s *Snapshot, r monitor.Reading[map[string]rate.IOCounters]) {
	if !r.Available {
		e.diskIO.Reset()
		s.DiskIODetail = Placeholder
		return
	}

	primed := e.diskIO.Primed()
	read, write := e.diskIO.Rates(r.Value, r.At)
	if primed {
		read = e.ema.Smooth(metricRead, read)
		write = e.ema.Smooth(metricWrite, write)
	}
	s.DiskIOAvailable = true
	s.DiskRead = read
	s.DiskWrite = write
	s.DiskIODetail = fmt.Sprintf("IO: R %s  W %s", format.BytesPerSecond(read), format.BytesPerSecond(write))
}

func (e *Engine) assembleGPU(s *Snapshot, r monitor.Reading[gpu.Stat]) {
	st := r.Value
	s.GPU = e.gauge(metricGPU, st.UtilizationPercent, r.Available, e.opts.LoadGradient)
	s.VRAM = e.gauge(metricVRAM, st.VRAMPercent(), r.Available && st.HasVRAM, e.opts.VRAMGradient)

	if !r.Available {
		s.GPUDetail = "No GPU data"
		return
	}

	s.GPUStat = &st
	if st.TemperatureC != nil {
		t := *st.TemperatureC
		s.GPUTempC = &t
	}
	if st.HasVRAM {
		s.GPUDetail = fmt.Sprintf("VRAM: %s / %s\nUtil: %.0f%%",
			format.Uint(st.VRAMUsed), format.Uint(st.VRAMTotal), st.UtilizationPercent)
	} else {
		s.GPUDetail = fmt.Sprintf("Util: %.0f%%", st.UtilizationPercent)
	}
}

// smoothedRate folds a cumulative counter into its rate and smooths it.
// The baseline cycle reports 0 without seeding the smoother, so the
// first real rate is the first smoothed observation.
func (e *Engine) smoothedRate(id string, cumulative float64, at time.Time) float64 {
	primed := e.rates.Known(id)
	r := e.rates.Rate(id, cumulative, at)
	if !primed {
		return 0
	}
	return e.ema.Smooth(id, r)
}

// gauge smooths a percentage and decides whether it is worth redrawing
// relative to the last value that was flagged for redraw.
func (e *Engine) gauge(id string, raw float64, ok bool, g colormap.Gradient) Gauge {
	drawn, seen := e.drawn[id]
	if !ok {
		out := Gauge{Redraw: !seen || drawn.Available}
		if out.Redraw {
			e.drawn[id] = out
		}
		return out
	}

	pct := clampPercent(e.ema.Smooth(id, raw))
	out := Gauge{Percent: pct, Color: g.Percent(pct), Available: true}
	out.Redraw = !seen || !drawn.Available ||
		colormap.ShouldRedraw(drawn.Percent, out.Percent, drawn.Color, out.Color, e.opts.RedrawThreshold)
	if out.Redraw {
		e.drawn[id] = out
	}
	return out
}

func batteryText(b monitor.BatteryStat) string {
	text := fmt.Sprintf("%.0f%%", b.Percent)
	if b.Plugged {
		return text + "⚡"
	}
	if b.SecondsLeft > 0 {
		text += " (" + format.Duration(b.SecondsLeft) + ")"
	}
	return text
}

func unavailable(c *collected) []string {
	var names []string
	add := func(ok bool, name string) {
		if !ok {
			names = append(names, name)
		}
	}
	add(c.cpu.Available, monitor.SourceCPU)
	add(c.memory.Available, monitor.SourceMemory)
	add(c.swap.Available, monitor.SourceSwap)
	add(c.volumes.Available, monitor.SourceVolumes)
	add(c.diskIO.Available, monitor.SourceDiskIO)
	add(c.network.Available, monitor.SourceNetwork)
	add(c.temperature.Available, monitor.SourceTemperature)
	add(c.battery.Available, monitor.SourceBattery)
	add(c.uptime.Available, monitor.SourceUptime)
	add(c.gpu.Available, monitor.SourceGPU)
	if c.censusRan {
		add(c.processes.Available, monitor.SourceProcesses)
	}
	return names
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
