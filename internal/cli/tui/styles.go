package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/haskel/monix/internal/colormap"
	"github.com/haskel/monix/internal/sampler"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("86")  // Cyan
	colorSecondary = lipgloss.Color("240") // Gray
	colorSuccess   = lipgloss.Color("82")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("196") // Red
	colorMuted     = lipgloss.Color("245") // Light gray
)

// Styles
var (
	// Title bar
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Section headers
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	// Progress bar
	progressBarEmptyStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	// Detail panel
	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Error
	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

// volumeGradient colours volume bars; volumes carry no colour of their
// own in a snapshot.
var volumeGradient = colormap.LoadGradient()

// healthColor returns the badge colour for a health status.
func healthColor(s sampler.Status) lipgloss.Color {
	switch s {
	case sampler.StatusStalled:
		return colorDanger
	case sampler.StatusDegraded:
		return colorWarning
	default:
		return colorSuccess
	}
}

func rgbColor(c colormap.RGB) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
