package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/monix/internal/sampler"
)

// Source yields the snapshot to display on each refresh.
type Source interface {
	Snapshot(ctx context.Context) (*sampler.Snapshot, error)
}

var errNoSnapshot = errors.New("no snapshot yet")

// EngineSource samples the local host: every refresh runs one cycle on
// the dashboard's own schedule.
type EngineSource struct {
	Engine *sampler.Engine
}

func (s EngineSource) Snapshot(ctx context.Context) (*sampler.Snapshot, error) {
	snap, _ := s.Engine.Cycle(ctx)
	if snap == nil {
		return nil, errNoSnapshot
	}
	return snap, nil
}

// HTTPSource polls a running exporter.
type HTTPSource struct {
	BaseURL  string
	User     string
	Password string
	Client   *http.Client
}

func (s HTTPSource) Snapshot(ctx context.Context) (*sampler.Snapshot, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/snapshot", nil)
	if err != nil {
		return nil, err
	}
	if s.User != "" && s.Password != "" {
		req.SetBasicAuth(s.User, s.Password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, errNoSnapshot
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, body)
	}

	var snap sampler.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

type snapshotMsg struct {
	snap *sampler.Snapshot
	err  error
}

type tickMsg time.Time

// fetchSnapshot asks the source for a snapshot as a tea.Cmd.
func fetchSnapshot(src Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := src.Snapshot(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

// tick creates a periodic tick command
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
