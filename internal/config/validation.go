package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Sampling.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sampling: %w", err))
	}

	if err := c.Smoothing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("smoothing: %w", err))
	}

	if err := c.GPU.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("gpu: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if err := c.validateProfilingSecurity(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// validateProfilingSecurity refuses to expose pprof without basic auth.
func (c *Config) validateProfilingSecurity() error {
	if c.Server.Profiling.Enabled && !c.Auth.Enabled {
		return fmt.Errorf("server.profiling requires auth to be enabled")
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}

	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be positive"))
		}
		if s.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.burst must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

func (s *SamplingConfig) Validate() error {
	var errs []error

	if s.IntervalMS < 100 {
		errs = append(errs, fmt.Errorf("interval_ms must be at least 100, got %d", s.IntervalMS))
	}

	if s.SourceTimeoutMS < 1 {
		errs = append(errs, fmt.Errorf("source_timeout_ms must be positive, got %d", s.SourceTimeoutMS))
	} else if s.SourceTimeoutMS > s.IntervalMS {
		errs = append(errs, fmt.Errorf("source_timeout_ms (%d) must not exceed interval_ms (%d)", s.SourceTimeoutMS, s.IntervalMS))
	}

	if s.FailureThreshold < 1 {
		errs = append(errs, fmt.Errorf("failure_threshold must be at least 1"))
	}

	if s.CensusEvery < 1 {
		errs = append(errs, fmt.Errorf("census_every must be at least 1"))
	}

	if s.RateEpsilonMS < 1 {
		errs = append(errs, fmt.Errorf("rate_epsilon_ms must be at least 1"))
	}

	return errors.Join(errs...)
}

func (s *SmoothingConfig) Validate() error {
	var errs []error

	if s.Alpha <= 0 || s.Alpha >= 1 {
		errs = append(errs, fmt.Errorf("alpha must be in (0, 1), got %g", s.Alpha))
	}

	// The sampler reads a non-positive threshold as "use the default".
	if s.RedrawThreshold <= 0 {
		errs = append(errs, fmt.Errorf("redraw_threshold must be positive, got %g", s.RedrawThreshold))
	}

	return errors.Join(errs...)
}

func (g *GPUConfig) Validate() error {
	if g.DeviceIndex < 0 {
		return fmt.Errorf("device_index must be non-negative, got %d", g.DeviceIndex)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}

func (a *AuthConfig) Validate() error {
	if a.Enabled {
		if a.User == "" {
			return fmt.Errorf("user cannot be empty when auth is enabled")
		}
		if a.Password == "" {
			return fmt.Errorf("password cannot be empty when auth is enabled")
		}
	}
	return nil
}
