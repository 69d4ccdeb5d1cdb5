//go:build !linux || !cgo

package gpu

// NewNVMLDriver returns a driver that reports ErrNoDriver; NVML is only
// bound on linux with cgo enabled.
func NewNVMLDriver(index int) Driver {
	return noDriver{}
}
