package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchSnapshot(m.config.Source, m.fetchTimeout()),
		tick(m.config.RefreshInterval),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.snap = msg.snap
			m.lastUpdated = time.Now()
			m.clampVolumeOffset()
		}
		return m, nil

	case tickMsg:
		m.loading = true
		return m, tea.Batch(
			fetchSnapshot(m.config.Source, m.fetchTimeout()),
			tick(m.config.RefreshInterval),
		)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		// Manual refresh
		m.loading = true
		return m, fetchSnapshot(m.config.Source, m.fetchTimeout())

	case "up", "k":
		if m.volumeOffset > 0 {
			m.volumeOffset--
		}
		return m, nil

	case "down", "j":
		if m.snap != nil && m.volumeOffset < len(m.snap.Volumes)-1 {
			m.volumeOffset++
		}
		return m, nil
	}

	return m, nil
}

// clampVolumeOffset keeps the scroll position valid when volumes are
// removed.
func (m *Model) clampVolumeOffset() {
	n := len(m.snap.Volumes)
	if m.volumeOffset >= n {
		m.volumeOffset = max(n-1, 0)
	}
}
