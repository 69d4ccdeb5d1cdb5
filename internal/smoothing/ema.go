// Package smoothing damps metric jitter with an exponential moving
// average keyed by metric id.
package smoothing

import (
	"fmt"
	"sync"
)

// DefaultAlpha is the weight given to each new observation.
const DefaultAlpha = 0.30

// EMA holds the smoothed value of each metric.
type EMA struct {
	mu     sync.RWMutex
	values map[string]float64
	alpha  float64
}

// New creates an EMA with smoothing factor alpha, which must lie in
// (0, 1). Higher values track the raw signal faster.
func New(alpha float64) (*EMA, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("alpha must be in (0, 1), got %v", alpha)
	}
	return &EMA{
		values: make(map[string]float64),
		alpha:  alpha,
	}, nil
}

// MustNew is New for constant alphas.
func MustNew(alpha float64) *EMA {
	e, err := New(alpha)
	if err != nil {
		panic(err)
	}
	return e
}

// Alpha returns the smoothing factor.
func (e *EMA) Alpha() float64 {
	return e.alpha
}

// Smooth folds raw into the average for id and returns the result.
// The first observation of an id is returned unchanged.
func (e *EMA) Smooth(id string, raw float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, exists := e.values[id]
	if !exists {
		e.values[id] = raw
		return raw
	}

	// new_avg = alpha * value + (1 - alpha) * old_avg
	next := e.alpha*raw + (1-e.alpha)*prev
	e.values[id] = next
	return next
}

// Value returns the current smoothed value of id without updating it.
func (e *EMA) Value(id string) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, ok := e.values[id]
	return v, ok
}

// Len returns the number of tracked metrics.
func (e *EMA) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.values)
}
