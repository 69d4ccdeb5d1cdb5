// Package gpu owns the lifecycle of the vendor GPU handle.
//
// A Session acquires the device lazily on the first sample, tries
// exactly once, and releases it exactly once on Close. A failed
// acquisition is remembered so later samples return immediately.
package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrNoDriver is returned by drivers that are not supported on
	// this platform or build.
	ErrNoDriver = errors.New("gpu driver not available")

	// ErrUnavailable is returned by Sample when acquisition failed
	// earlier in the process.
	ErrUnavailable = errors.New("gpu unavailable")

	// ErrReleased is returned by Sample after Close.
	ErrReleased = errors.New("gpu session released")
)

// Stat is one GPU reading.
type Stat struct {
	UtilizationPercent float64  `json:"utilization_percent"`
	TemperatureC       *float64 `json:"temperature_c,omitempty"`
	VRAMUsed           uint64   `json:"vram_used"`
	VRAMTotal          uint64   `json:"vram_total"`
	HasVRAM            bool     `json:"has_vram"`
}

// VRAMPercent returns VRAM usage as a percentage, or 0 when unknown.
func (s Stat) VRAMPercent() float64 {
	if !s.HasVRAM || s.VRAMTotal == 0 {
		return 0
	}
	return float64(s.VRAMUsed) / float64(s.VRAMTotal) * 100
}

// Driver is a vendor binding for a single device.
type Driver interface {
	Init() error
	Sample() (Stat, error)
	Shutdown() error
}

// State is the lifecycle position of a Session.
type State int

const (
	Uninitialized State = iota
	Acquired
	Released
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Acquired:
		return "acquired"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session wraps a Driver with the acquire-once / release-once
// lifecycle. It is safe for concurrent use; a sample in flight
// completes before Close shuts the driver down.
type Session struct {
	mu        sync.Mutex
	driver    Driver
	state     State
	attempted bool
	logger    *slog.Logger
}

// NewSession creates a Session over driver. Nothing is acquired until
// the first Sample.
func NewSession(driver Driver, logger *slog.Logger) *Session {
	return &Session{
		driver: driver,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sample reads the device, acquiring it first if this is the first
// call. Errors leave the state unchanged except for the one-time
// acquisition attempt.
func (s *Session) Sample() (stat Stat, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			stat, err = Stat{}, fmt.Errorf("gpu driver panic: %v", r)
		}
	}()

	switch s.state {
	case Released:
		return Stat{}, ErrReleased
	case Uninitialized:
		if s.attempted {
			return Stat{}, ErrUnavailable
		}
		if err := s.acquire(); err != nil {
			return Stat{}, err
		}
	}

	stat, err = s.driver.Sample()
	if err != nil {
		return Stat{}, fmt.Errorf("gpu sample: %w", err)
	}
	return stat, nil
}

func (s *Session) acquire() (err error) {
	s.attempted = true

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gpu driver panic during init: %v", r)
		}
		if err != nil {
			s.logger.Info("gpu not available, disabling gpu sampling", "error", err)
		}
	}()

	if err := s.driver.Init(); err != nil {
		return fmt.Errorf("gpu init: %w", err)
	}

	s.state = Acquired
	s.logger.Info("gpu session acquired")
	return nil
}

// Close releases the device if it was acquired. Calling Close more
// than once is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = Released

	if prev != Acquired {
		return nil
	}

	if err := s.driver.Shutdown(); err != nil {
		return fmt.Errorf("gpu shutdown: %w", err)
	}
	s.logger.Info("gpu session released")
	return nil
}

// Disabled returns a driver that always fails to initialise, for
// configurations with GPU sampling turned off.
func Disabled() Driver {
	return noDriver{}
}

type noDriver struct{}

func (noDriver) Init() error           { return ErrNoDriver }
func (noDriver) Sample() (Stat, error) { return Stat{}, ErrNoDriver }
func (noDriver) Shutdown() error       { return nil }
