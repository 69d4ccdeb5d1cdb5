package server

import (
	"net/http"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haskel/monix/internal/monitor"
	"github.com/haskel/monix/internal/sampler"
)

const namespace = "monix"

var allSources = []string{
	monitor.SourceCPU,
	monitor.SourceMemory,
	monitor.SourceSwap,
	monitor.SourceVolumes,
	monitor.SourceDiskIO,
	monitor.SourceNetwork,
	monitor.SourceTemperature,
	monitor.SourceBattery,
	monitor.SourceProcesses,
	monitor.SourceUptime,
	monitor.SourceGPU,
}

// Metrics mirrors the latest snapshot into a private Prometheus
// registry. Series for values that are unavailable are removed rather
// than reported as zero.
type Metrics struct {
	registry *prometheus.Registry

	mu        sync.Mutex
	lastCycle uint64

	gauges      *prometheus.GaugeVec
	memory      *prometheus.GaugeVec
	swap        *prometheus.GaugeVec
	network     *prometheus.GaugeVec
	diskIO      *prometheus.GaugeVec
	volumeUsage *prometheus.GaugeVec
	volumeBytes *prometheus.GaugeVec
	temperature *prometheus.GaugeVec
	battery     *prometheus.GaugeVec
	sourceUp    *prometheus.GaugeVec
	uptime      prometheus.Gauge
	// processes and threads have no labels; they are vectors so the
	// series can be removed while the census is unavailable.
	processes *prometheus.GaugeVec
	threads   *prometheus.GaugeVec
	health      prometheus.Gauge
	failures    prometheus.Gauge
	cycle       prometheus.Gauge
}

func NewMetrics() *Metrics {
	gaugeVec := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &Metrics{
		registry:    prometheus.NewRegistry(),
		gauges:      gaugeVec("usage_percent", "Smoothed utilisation of the dashboard gauges.", "gauge"),
		memory:      gaugeVec("memory_bytes", "Physical memory.", "type"),
		swap:        gaugeVec("swap_bytes", "Swap space.", "type"),
		network:     gaugeVec("network_bits_per_second", "Smoothed network throughput.", "direction"),
		diskIO:      gaugeVec("disk_io_bytes_per_second", "Smoothed disk throughput.", "operation"),
		volumeUsage: gaugeVec("volume_usage_percent", "Used space per volume.", "volume", "fstype"),
		volumeBytes: gaugeVec("volume_bytes", "Volume capacity.", "volume", "type"),
		temperature: gaugeVec("temperature_celsius", "Component temperature.", "sensor"),
		battery:     gaugeVec("battery_percent", "Battery charge.", "plugged"),
		sourceUp:    gaugeVec("source_up", "Whether a source was readable in the latest cycle.", "source"),
		uptime:      gauge("host_uptime_seconds", "Time since host boot."),
		processes:   gaugeVec("processes", "Process count from the latest census."),
		threads:     gaugeVec("threads", "Thread count from the latest census."),
		health:      gauge("sampler_health", "Sampler health: 0 ok, 1 degraded, 2 stalled."),
		failures:    gauge("sampler_consecutive_failures", "Consecutive failed cycles."),
		cycle:       gauge("sampler_cycle", "Number of the latest published cycle."),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.gauges, m.memory, m.swap, m.network, m.diskIO,
		m.volumeUsage, m.volumeBytes, m.temperature, m.battery, m.sourceUp,
		m.uptime, m.processes, m.threads, m.health, m.failures, m.cycle,
	)
	return m
}

// Registry returns the registry the metrics live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler refreshes the metrics from source on every scrape and then
// serves them.
func (m *Metrics) Handler(source SnapshotSource) http.Handler {
	promHandler := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Update(source.Latest())
		promHandler.ServeHTTP(w, r)
	})
}

// Update copies snap into the gauges. Repeated calls with the same
// cycle are no-ops.
func (m *Metrics) Update(snap *sampler.Snapshot) {
	if snap == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if snap.Cycle != 0 && snap.Cycle == m.lastCycle {
		return
	}
	m.lastCycle = snap.Cycle

	m.cycle.Set(float64(snap.Cycle))
	m.health.Set(float64(snap.Health.Status))
	m.failures.Set(float64(snap.Health.Failures))

	for _, g := range []struct {
		name  string
		gauge sampler.Gauge
	}{
		{"cpu", snap.CPU},
		{"ram", snap.RAM},
		{"gpu", snap.GPU},
		{"vram", snap.VRAM},
	} {
		if g.gauge.Available {
			m.gauges.WithLabelValues(g.name).Set(g.gauge.Percent)
		} else {
			m.gauges.DeleteLabelValues(g.name)
		}
	}

	m.memory.Reset()
	if mem := snap.Memory; mem != nil {
		m.memory.WithLabelValues("used").Set(float64(mem.UsedBytes))
		m.memory.WithLabelValues("total").Set(float64(mem.TotalBytes))
		m.memory.WithLabelValues("available").Set(float64(mem.AvailableBytes))
	}

	m.swap.Reset()
	if sw := snap.Swap; sw != nil {
		m.swap.WithLabelValues("used").Set(float64(sw.UsedBytes))
		m.swap.WithLabelValues("total").Set(float64(sw.TotalBytes))
	}

	m.network.Reset()
	if snap.NetAvailable {
		m.network.WithLabelValues("down").Set(snap.NetDownBits)
		m.network.WithLabelValues("up").Set(snap.NetUpBits)
	}

	m.diskIO.Reset()
	if snap.DiskIOAvailable {
		m.diskIO.WithLabelValues("read").Set(snap.DiskRead)
		m.diskIO.WithLabelValues("write").Set(snap.DiskWrite)
	}

	m.volumeUsage.Reset()
	m.volumeBytes.Reset()
	for _, v := range snap.Volumes {
		m.volumeUsage.WithLabelValues(v.DisplayID, v.FSType).Set(v.UsedPercent)
		m.volumeBytes.WithLabelValues(v.DisplayID, "used").Set(float64(v.UsedBytes))
		m.volumeBytes.WithLabelValues(v.DisplayID, "total").Set(float64(v.TotalBytes))
	}

	m.temperature.Reset()
	if snap.CPUTempC != nil {
		m.temperature.WithLabelValues("cpu").Set(*snap.CPUTempC)
	}
	if snap.GPUTempC != nil {
		m.temperature.WithLabelValues("gpu").Set(*snap.GPUTempC)
	}

	m.battery.Reset()
	if b := snap.BatteryStat; b != nil {
		plugged := "false"
		if b.Plugged {
			plugged = "true"
		}
		m.battery.WithLabelValues(plugged).Set(b.Percent)
	}

	m.uptime.Set(snap.Uptime.Seconds())
	m.processes.Reset()
	m.threads.Reset()
	if snap.CensusAvailable {
		m.processes.WithLabelValues().Set(float64(snap.Processes))
		m.threads.WithLabelValues().Set(float64(snap.Threads))
	}

	for _, source := range allSources {
		up := 1.0
		if slices.Contains(snap.Unavailable, source) {
			up = 0
		}
		m.sourceUp.WithLabelValues(source).Set(up)
	}
}
