package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/monix/internal/colormap"
	"github.com/haskel/monix/internal/format"
	"github.com/haskel/monix/internal/sampler"
)

const (
	gaugeBarWidth  = 20
	volumeBarWidth = 20
	maxVisibleVols = 6
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderTitleBar())

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.snap != nil {
		sections = append(sections,
			m.renderGauges(),
			m.renderDetails(),
			m.renderThroughput(),
		)
		if len(m.snap.Volumes) > 0 {
			sections = append(sections, m.renderVolumes())
		}
	}

	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("MONIX")
	if m.config.SourceLabel != "" {
		title += labelStyle.Render(" " + m.config.SourceLabel)
	}
	if m.snap != nil {
		badge := lipgloss.NewStyle().
			Bold(true).
			Foreground(healthColor(m.snap.Health.Status)).
			Render(m.snap.Health.String())
		title += "  " + badge
	}

	refreshInfo := fmt.Sprintf("↻ %s", m.config.RefreshInterval)
	if m.loading {
		refreshInfo = "↻ loading..."
	}

	help := "q:quit r:refresh ↑↓:scroll"

	rightPart := fmt.Sprintf("%s | %s", refreshInfo, help)
	spacing := max(m.width-lipgloss.Width(title)-lipgloss.Width(rightPart)-2, 1)

	return fmt.Sprintf("%s%s%s", title, strings.Repeat(" ", spacing), helpStyle.Render(rightPart))
}

func (m Model) renderGauges() string {
	cpu := m.gaugeBar("CPU ", m.snap.CPU)
	ram := m.gaugeBar("RAM ", m.snap.RAM)
	gpu := m.gaugeBar("GPU ", m.snap.GPU)
	vram := m.gaugeBar("VRAM", m.snap.VRAM)

	return fmt.Sprintf("  %s    %s\n  %s    %s", cpu, ram, gpu, vram)
}

// gaugeBar renders a gauge, reusing the previous rendering when the
// snapshot says the change is not worth a repaint.
func (m Model) gaugeBar(label string, g sampler.Gauge) string {
	if cached, ok := m.bars.rendered[label]; ok && !g.Redraw {
		return cached
	}

	var bar string
	if g.Available {
		bar = renderProgressBar(label, g.Percent, rgbColor(g.Color), gaugeBarWidth)
	} else {
		bar = fmt.Sprintf("%s [%s] %6s",
			labelStyle.Render(label),
			progressBarEmptyStyle.Render(strings.Repeat("░", gaugeBarWidth)),
			sampler.Placeholder)
	}

	m.bars.rendered[label] = bar
	m.bars.renders++
	return bar
}

func renderProgressBar(label string, percent float64, color lipgloss.Color, width int) string {
	filled := min(max(int(percent/100*float64(width)), 0), width)

	filledBar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyBar := progressBarEmptyStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s [%s%s] %5.1f%%", labelStyle.Render(label), filledBar, emptyBar, percent)
}

func (m Model) renderDetails() string {
	lines := []string{
		m.snap.MemoryDetail,
		m.snap.SwapDetail,
	}
	lines = append(lines, strings.Split(m.snap.GPUDetail, "\n")...)
	lines = append(lines, fmt.Sprintf("Temp: CPU %s  GPU %s",
		temperatureText(m.snap.CPUTempC), temperatureText(m.snap.GPUTempC)))

	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderThroughput() string {
	var parts []string
	parts = append(parts, labelStyle.Render("Net ")+valueStyle.Render(m.snap.NetDetail))
	parts = append(parts, labelStyle.Render("Disk ")+valueStyle.Render(m.snap.DiskIODetail))
	parts = append(parts, labelStyle.Render("Up ")+valueStyle.Render(m.snap.UptimeText))
	parts = append(parts, labelStyle.Render("Bat ")+valueStyle.Render(m.snap.Battery))

	return "  " + strings.Join(parts, "  │  ")
}

func (m Model) renderVolumes() string {
	vols := m.snap.Volumes

	var lines []string
	lines = append(lines, sectionHeaderStyle.Render("  Volumes"))

	start := min(m.volumeOffset, len(vols))
	end := min(start+maxVisibleVols, len(vols))

	for _, v := range vols[start:end] {
		name := v.DisplayID
		if len(name) > 12 {
			name = name[:12]
		}
		name = fmt.Sprintf("%-12s", name)

		bar := renderProgressBar(name, v.UsedPercent, rgbColor(volumeColor(v.UsedPercent)), volumeBarWidth)
		info := fmt.Sprintf("(%s / %s)", format.Uint(v.UsedBytes), format.Uint(v.TotalBytes))

		lines = append(lines, fmt.Sprintf("  %s  %s", bar, valueStyle.Render(info)))
	}

	if len(vols) > maxVisibleVols {
		lines = append(lines, helpStyle.Render(fmt.Sprintf("  [%d-%d of %d volumes]", start+1, end, len(vols))))
	}

	return strings.Join(lines, "\n")
}

func volumeColor(percent float64) colormap.RGB {
	return volumeGradient.Percent(percent)
}

func (m Model) renderFooter() string {
	if m.snap == nil {
		return ""
	}

	processes := sampler.Placeholder
	threads := sampler.Placeholder
	if m.snap.CensusAvailable {
		processes = fmt.Sprintf("%d", m.snap.Processes)
		threads = formatNumber(m.snap.Threads)
	}

	footer := fmt.Sprintf(
		"  Processes: %s │ Threads: %s │ Cycle: %d │ Updated: %s",
		processes,
		threads,
		m.snap.Cycle,
		m.lastUpdated.Format("15:04:05"),
	)
	if len(m.snap.Unavailable) > 0 {
		footer += " │ Unavailable: " + strings.Join(m.snap.Unavailable, ", ")
	}
	return helpStyle.Render(footer)
}

func temperatureText(c *float64) string {
	if c == nil {
		return sampler.Placeholder
	}
	return fmt.Sprintf("%.0f°C", *c)
}

func formatNumber(n int) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%d,%03d,%03d", n/1_000_000, n/1000%1000, n%1000)
	}
	if n >= 1000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d", n)
}
