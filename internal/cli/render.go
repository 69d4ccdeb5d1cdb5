package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/haskel/monix/internal/format"
	"github.com/haskel/monix/internal/sampler"
)

// printSnapshot writes snap as indented JSON or as a text report.
func printSnapshot(w io.Writer, snap *sampler.Snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	renderSnapshot(w, snap)
	return nil
}

func renderSnapshot(w io.Writer, snap *sampler.Snapshot) {
	fmt.Fprintf(w, "=== Snapshot %d (%s) ===\n", snap.Cycle, snap.Health)
	fmt.Fprintf(w, "Time: %s\n", snap.Timestamp.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "\nGauges:\n")
	fmt.Fprintf(w, "  CPU:  %s\n", gaugeText(snap.CPU))
	fmt.Fprintf(w, "  RAM:  %s\n", gaugeText(snap.RAM))
	fmt.Fprintf(w, "  GPU:  %s\n", gaugeText(snap.GPU))
	fmt.Fprintf(w, "  VRAM: %s\n", gaugeText(snap.VRAM))

	fmt.Fprintf(w, "\nMemory:\n")
	fmt.Fprintf(w, "  %s\n", snap.MemoryDetail)
	fmt.Fprintf(w, "  %s\n", snap.SwapDetail)

	fmt.Fprintf(w, "\nGPU:\n")
	for _, line := range strings.Split(snap.GPUDetail, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}

	fmt.Fprintf(w, "\nThroughput:\n")
	fmt.Fprintf(w, "  Net:  %s\n", snap.NetDetail)
	fmt.Fprintf(w, "  Disk: %s\n", snap.DiskIODetail)

	fmt.Fprintf(w, "\nSensors:\n")
	fmt.Fprintf(w, "  CPU temp: %s\n", celsius(snap.CPUTempC))
	fmt.Fprintf(w, "  GPU temp: %s\n", celsius(snap.GPUTempC))
	fmt.Fprintf(w, "  Battery:  %s\n", snap.Battery)

	fmt.Fprintf(w, "\nHost:\n")
	fmt.Fprintf(w, "  Uptime: %s\n", snap.UptimeText)
	if snap.CensusAvailable {
		fmt.Fprintf(w, "  Processes: %d\n", snap.Processes)
		fmt.Fprintf(w, "  Threads: %d\n", snap.Threads)
	} else {
		fmt.Fprintf(w, "  Processes: %s\n", sampler.Placeholder)
	}

	if len(snap.Volumes) > 0 {
		fmt.Fprintf(w, "\nVolumes:\n")
		for _, v := range snap.Volumes {
			fmt.Fprintf(w, "  %-16s %5.1f%%  %s / %s  (%s)\n",
				v.DisplayID, v.UsedPercent,
				format.Uint(v.UsedBytes), format.Uint(v.TotalBytes), v.FSType)
		}
	}

	if len(snap.Unavailable) > 0 {
		fmt.Fprintf(w, "\nUnavailable: %s\n", strings.Join(snap.Unavailable, ", "))
	}
}

func gaugeText(g sampler.Gauge) string {
	if !g.Available {
		return sampler.Placeholder
	}
	return fmt.Sprintf("%.1f%% %s", g.Percent, g.Color.Hex())
}

func celsius(c *float64) string {
	if c == nil {
		return sampler.Placeholder
	}
	return fmt.Sprintf("%.0f°C", *c)
}
