package config

import (
	"net"
	"strconv"
	"time"

	"github.com/haskel/monix/internal/colormap"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Smoothing SmoothingConfig `yaml:"smoothing"`
	Colors    ColorsConfig    `yaml:"colors"`
	GPU       GPUConfig       `yaml:"gpu"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Host      string          `yaml:"host"`
	Port      int             `yaml:"port"`
	PIDFile   string          `yaml:"pid_file"`
	Profiling ProfilingConfig `yaml:"profiling"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig limits requests per client address.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type ProfilingConfig struct {
	Enabled bool `yaml:"enabled"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// SamplingConfig controls the cycle loop.
type SamplingConfig struct {
	IntervalMS      int `yaml:"interval_ms"`
	SourceTimeoutMS int `yaml:"source_timeout_ms"`

	// FailureThreshold is the number of consecutive failed cycles
	// tolerated before health reports stalled.
	FailureThreshold int `yaml:"failure_threshold"`

	// CensusEvery runs the process census on every Nth cycle.
	CensusEvery int `yaml:"census_every"`

	RateEpsilonMS int `yaml:"rate_epsilon_ms"`
}

type SmoothingConfig struct {
	Alpha float64 `yaml:"alpha"`

	// RedrawThreshold is the smallest gauge change, in percentage
	// points, that is worth repainting.
	RedrawThreshold float64 `yaml:"redraw_threshold"`
}

type ColorsConfig struct {
	Load colormap.Gradient `yaml:"load"`
	VRAM colormap.Gradient `yaml:"vram"`
}

type GPUConfig struct {
	Enabled     bool `yaml:"enabled"`
	DeviceIndex int  `yaml:"device_index"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.Sampling.IntervalMS) * time.Millisecond
}

func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Sampling.SourceTimeoutMS) * time.Millisecond
}

func (c *Config) RateEpsilon() time.Duration {
	return time.Duration(c.Sampling.RateEpsilonMS) * time.Millisecond
}

func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
