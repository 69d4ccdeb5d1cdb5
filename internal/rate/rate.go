// Package rate derives per-second rates from cumulative counters.
//
// A Computer is owned by a single sampling loop and is not safe for
// concurrent use.
package rate

import "time"

// DefaultEpsilon is the smallest interval a rate is divided by.
const DefaultEpsilon = time.Millisecond

type state struct {
	value float64
	at    time.Time
}

// Computer tracks the previous sample of each counter by id.
type Computer struct {
	epsilon time.Duration
	state   map[string]state
}

// New creates a Computer. A non-positive epsilon selects DefaultEpsilon.
func New(epsilon time.Duration) *Computer {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Computer{
		epsilon: epsilon,
		state:   make(map[string]state),
	}
}

// Rate returns the per-second increase of counter id since its previous
// sample. The first sample of an id only establishes a baseline and
// yields 0. A counter that went backwards (reset or wrap) yields 0.
func (c *Computer) Rate(id string, cumulative float64, now time.Time) float64 {
	prev, seen := c.state[id]
	c.state[id] = state{value: cumulative, at: now}

	if !seen {
		return 0
	}

	delta := cumulative - prev.value
	if delta < 0 {
		delta = 0
	}
	return delta / c.seconds(now.Sub(prev.at))
}

// Forget drops the baseline of id, so the next sample starts fresh.
// Used when a counter was unavailable for a cycle.
func (c *Computer) Forget(id string) {
	delete(c.state, id)
}

// Known reports whether id has a baseline.
func (c *Computer) Known(id string) bool {
	_, ok := c.state[id]
	return ok
}

func (c *Computer) seconds(dt time.Duration) float64 {
	if dt < c.epsilon {
		dt = c.epsilon
	}
	return dt.Seconds()
}
