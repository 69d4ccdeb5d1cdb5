package rate

import "time"

// IOCounters is the cumulative read/write byte count of one device.
type IOCounters struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// DiskIO aggregates per-device byte counters into total read and write
// rates. Only devices present in both the previous and the current map
// contribute, so a device appearing or vanishing never pairs against a
// mismatched baseline.
type DiskIO struct {
	epsilon time.Duration
	prev    map[string]IOCounters
	prevAt  time.Time
	primed  bool
}

// NewDiskIO creates a DiskIO aggregator.
func NewDiskIO(epsilon time.Duration) *DiskIO {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &DiskIO{epsilon: epsilon}
}

// Rates returns read and write bytes per second since the previous call.
// The first call, and the first call after Reset, returns zeros.
func (d *DiskIO) Rates(current map[string]IOCounters, now time.Time) (read, write float64) {
	if d.primed {
		var reads, writes uint64
		for name, cur := range current {
			prev, ok := d.prev[name]
			if !ok {
				continue
			}
			reads += clampedDelta(cur.ReadBytes, prev.ReadBytes)
			writes += clampedDelta(cur.WriteBytes, prev.WriteBytes)
		}

		dt := now.Sub(d.prevAt)
		if dt < d.epsilon {
			dt = d.epsilon
		}
		read = float64(reads) / dt.Seconds()
		write = float64(writes) / dt.Seconds()
	}

	d.prev = make(map[string]IOCounters, len(current))
	for name, c := range current {
		d.prev[name] = c
	}
	d.prevAt = now
	d.primed = true
	return read, write
}

// Primed reports whether a baseline exists, i.e. whether the next call
// to Rates can produce a real rate.
func (d *DiskIO) Primed() bool {
	return d.primed
}

// Reset discards the baseline.
func (d *DiskIO) Reset() {
	d.prev = nil
	d.primed = false
}

func clampedDelta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
