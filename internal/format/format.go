// Package format renders byte counts, durations and throughput for
// human-readable snapshot fields.
package format

import (
	"fmt"
	"time"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Bytes formats n using binary multiples with one decimal place,
// e.g. 1024 -> "1.0 KB". Values past the largest unit stay in TB.
func Bytes(n float64) string {
	value, unit := scale(n)
	return fmt.Sprintf("%.1f %s", value, byteUnits[unit])
}

// Uint is Bytes for unsigned counters.
func Uint(n uint64) string {
	return Bytes(float64(n))
}

// BytesPerSecond formats a byte rate, e.g. "1.5 MB/s".
func BytesPerSecond(rate float64) string {
	return Bytes(rate) + "/s"
}

// Megabits formats a bit rate in decimal megabits per second.
func Megabits(bitsPerSecond float64) string {
	return fmt.Sprintf("%.2f Mb/s", bitsPerSecond/1_000_000)
}

// Unit returns the index into the unit table Bytes would use for n.
// It never decreases as n grows.
func Unit(n float64) int {
	_, unit := scale(n)
	return unit
}

func scale(n float64) (float64, int) {
	i := 0
	for n >= 1024 && i < len(byteUnits)-1 {
		n /= 1024
		i++
	}
	return n, i
}

// Duration formats d as "1d 2h 3m", "2h 3m 4s" or "3m 4s" depending on
// its magnitude. Sub-second precision is dropped.
func Duration(d time.Duration) string {
	sec := int64(d / time.Second)
	if sec < 0 {
		sec = 0
	}

	days, rem := sec/86400, sec%86400
	hours, rem := rem/3600, rem%3600
	minutes, seconds := rem/60, rem%60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	default:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
}
