package cli

import (
	"fmt"
	"log/slog"

	"github.com/haskel/monix/internal/config"
	"github.com/haskel/monix/internal/gpu"
	"github.com/haskel/monix/internal/logger"
	"github.com/haskel/monix/internal/monitor"
	"github.com/haskel/monix/internal/sampler"
)

// engineOptions maps the configuration onto sampler options.
func engineOptions(cfg *config.Config) sampler.Options {
	opts := sampler.DefaultOptions()
	opts.Interval = cfg.Interval()
	opts.Alpha = cfg.Smoothing.Alpha
	opts.FailureThreshold = cfg.Sampling.FailureThreshold
	opts.CensusEvery = cfg.Sampling.CensusEvery
	opts.RateEpsilon = cfg.RateEpsilon()
	opts.RedrawThreshold = cfg.Smoothing.RedrawThreshold
	opts.LoadGradient = cfg.Colors.Load
	opts.VRAMGradient = cfg.Colors.VRAM
	return opts
}

// newEngine wires the host collectors, and the GPU session when
// enabled, into a sampling engine.
func newEngine(cfg *config.Config, log *slog.Logger) (*sampler.Engine, error) {
	var session *gpu.Session
	if cfg.GPU.Enabled {
		session = gpu.NewSession(gpu.NewNVMLDriver(cfg.GPU.DeviceIndex), logger.Component(log, "gpu"))
	}

	sources := monitor.NewSources(monitor.NewSystem(), session, cfg.SourceTimeout(), logger.Component(log, "monitor"))

	engine, err := sampler.New(sources, engineOptions(cfg), logger.Component(log, "sampler"))
	if err != nil {
		_ = sources.Close()
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	return engine, nil
}

// loadConfig loads --config, or the defaults when none is given. A
// named file that cannot be loaded is an error rather than a silent
// fallback.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}
