package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/distatus/battery"
)

// Battery returns charge level and power state. Hosts without a
// battery report unavailable.
func (s *Sources) Battery(ctx context.Context) Reading[BatteryStat] {
	r := guard(ctx, s.timeout, s.now, s.logger, SourceBattery, s.host.Battery)
	r.Value.Percent = clampPercent(r.Value.Percent)
	return r
}

func (System) Battery(ctx context.Context) (BatteryStat, error) {
	bats, err := battery.GetAll()
	if err != nil {
		var partial battery.Errors
		if !errors.As(err, &partial) {
			return BatteryStat{}, err
		}
		// Some batteries failed to read; use the rest.
	}

	stat, ok := combineBatteries(bats)
	if !ok {
		return BatteryStat{}, ErrNoBattery
	}
	return stat, nil
}

// combineBatteries folds all readable batteries into one status. The
// host counts as plugged unless some battery is discharging.
func combineBatteries(bats []*battery.Battery) (BatteryStat, bool) {
	var current, full, drain float64
	discharging := false
	found := false

	for _, b := range bats {
		if b == nil || b.Full <= 0 {
			continue
		}
		found = true
		current += b.Current
		full += b.Full
		if b.State.Raw == battery.Discharging {
			discharging = true
			drain += b.ChargeRate
		}
	}

	if !found {
		return BatteryStat{}, false
	}

	stat := BatteryStat{
		Percent: current / full * 100,
		Plugged: !discharging,
	}
	if discharging && drain > 0 {
		hours := current / drain
		stat.SecondsLeft = time.Duration(hours * float64(time.Hour))
	}
	return stat, true
}
