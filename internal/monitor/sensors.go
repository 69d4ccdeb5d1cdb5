package monitor

import (
	"context"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// Temperature returns the CPU temperature in °C, taken from the first
// sensor group that reports any value.
func (s *Sources) Temperature(ctx context.Context) Reading[float64] {
	return guard(ctx, s.timeout, s.now, s.logger, SourceTemperature, func(ctx context.Context) (float64, error) {
		stats, err := s.host.Temperatures(ctx)
		if len(stats) == 0 && err != nil {
			return 0, err
		}
		temp, ok := FirstGroupTemperature(stats)
		if !ok {
			return 0, ErrNoSensors
		}
		return temp, nil
	})
}

// FirstGroupTemperature groups readings by chip (the sensor key up to
// the first underscore), keeps enumeration order, and returns the first
// valid reading of the first group that has one. NaN and infinite
// readings count as "no value"; 0 °C is a real reading.
func FirstGroupTemperature(stats []TemperatureStat) (float64, bool) {
	var order []string
	groups := make(map[string][]float64)

	for _, st := range stats {
		group := sensorGroup(st.SensorKey)
		if _, seen := groups[group]; !seen {
			order = append(order, group)
			groups[group] = nil
		}
		if validTemperature(st.Temperature) {
			groups[group] = append(groups[group], st.Temperature)
		}
	}

	for _, g := range order {
		if readings := groups[g]; len(readings) > 0 {
			return readings[0], true
		}
	}
	return 0, false
}

func sensorGroup(key string) string {
	if i := strings.IndexByte(key, '_'); i > 0 {
		return key[:i]
	}
	return key
}

func validTemperature(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0)
}

func (System) Temperatures(ctx context.Context) ([]TemperatureStat, error) {
	// Partial results come back together with a warnings error; keep
	// whatever was read.
	stats, err := sensors.TemperaturesWithContext(ctx)

	out := make([]TemperatureStat, 0, len(stats))
	for _, st := range stats {
		out = append(out, TemperatureStat{
			SensorKey:   st.SensorKey,
			Temperature: st.Temperature,
		})
	}
	return out, err
}
