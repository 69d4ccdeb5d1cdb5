package tui

import (
	"time"

	"github.com/haskel/monix/internal/sampler"
)

// Config holds TUI configuration
type Config struct {
	Source          Source
	SourceLabel     string
	RefreshInterval time.Duration
}

// Model represents the TUI state
type Model struct {
	config Config

	snap *sampler.Snapshot
	bars *barCache

	// UI state
	width       int
	height      int
	loading     bool
	err         error
	lastUpdated time.Time

	// Volume list scroll position
	volumeOffset int
}

// barCache keeps the last rendering of each gauge so that gauges whose
// snapshot says no redraw is needed are not re-rendered.
type barCache struct {
	rendered map[string]string
	renders  int
}

func newBarCache() *barCache {
	return &barCache{rendered: make(map[string]string)}
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Second
	}
	return Model{
		config:  cfg,
		bars:    newBarCache(),
		loading: true,
	}
}

// fetchTimeout bounds one refresh; a slow source must not stall the
// next tick indefinitely.
func (m Model) fetchTimeout() time.Duration {
	return max(m.config.RefreshInterval, time.Second)
}
