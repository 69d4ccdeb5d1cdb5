// Package volume tracks the set of mounted volumes eligible for usage
// reporting and reports how it changes between cycles.
package volume

import (
	"slices"
	"strings"
)

// Partition describes one mounted filesystem as enumerated by the OS.
type Partition struct {
	Device     string
	Mountpoint string
	FSType     string
	Opts       []string
}

// Record is the usage of one eligible volume.
type Record struct {
	DisplayID   string  `json:"display_id"`
	Mountpoint  string  `json:"mountpoint"`
	FSType      string  `json:"fs_type"`
	UsedBytes   uint64  `json:"used_bytes"`
	TotalBytes  uint64  `json:"total_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

var opticalFSTypes = map[string]bool{
	"iso9660": true,
	"udf":     true,
	"cdfs":    true,
}

// Eligible reports whether p should appear in usage reporting: it must
// have a filesystem type and must not be optical or removable media.
func Eligible(p Partition) bool {
	if p.FSType == "" {
		return false
	}
	if opticalFSTypes[strings.ToLower(p.FSType)] {
		return false
	}
	for _, opt := range p.Opts {
		o := strings.ToLower(opt)
		if strings.Contains(o, "cdrom") || o == "removable" {
			return false
		}
	}
	return !strings.HasPrefix(p.Device, "/dev/loop")
}

// DisplayID returns the stable key for p. On Windows this is the drive
// letter ("C:"); elsewhere the mount path.
func DisplayID(p Partition, goos string) string {
	if goos == "windows" {
		letter := p.Device
		if letter == "" {
			letter = p.Mountpoint
		}
		if len(letter) >= 2 && letter[1] == ':' {
			return strings.ToUpper(letter[:2])
		}
	}
	return p.Mountpoint
}

// Delta is the outcome of one reconciliation. All slices are ordered
// by display id.
type Delta struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Updated []string `json:"updated"`
}

// Changed reports whether membership changed.
func (d Delta) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Diff compares the previously known ids against the volumes seen in
// the current cycle.
func Diff(previous map[string]struct{}, current []Record) Delta {
	var d Delta
	seen := make(map[string]struct{}, len(current))

	for _, r := range current {
		if _, dup := seen[r.DisplayID]; dup {
			continue
		}
		seen[r.DisplayID] = struct{}{}

		if _, known := previous[r.DisplayID]; known {
			d.Updated = append(d.Updated, r.DisplayID)
		} else {
			d.Added = append(d.Added, r.DisplayID)
		}
	}

	for id := range previous {
		if _, ok := seen[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}

	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	slices.Sort(d.Updated)
	return d
}
