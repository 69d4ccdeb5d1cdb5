package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/haskel/monix/internal/sampler"
)

type InfoResponse struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	StartedAt     string `json:"started_at"`
	IntervalMS    int    `json:"interval_ms"`
	LatestCycle   uint64 `json:"latest_cycle"`
	GPUSampling   bool   `json:"gpu_sampling"`
	AuthProtected bool   `json:"auth_protected"`
}

type HealthResponse struct {
	Status              string    `json:"status"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	Cycle               uint64    `json:"cycle"`
	LastSample          time.Time `json:"last_sample,omitzero"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const statusStarting = "starting"

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	resp := InfoResponse{
		Name:          "monix",
		Version:       s.version,
		StartedAt:     s.startedAt.UTC().Format(time.RFC3339),
		IntervalMS:    s.config.Sampling.IntervalMS,
		GPUSampling:   s.config.GPU.Enabled,
		AuthProtected: s.authConfig.Enabled(),
	}
	if snap := s.snapshots.Latest(); snap != nil {
		resp.LatestCycle = snap.Cycle
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports the sampler's health. It answers 503 only when
// sampling has stalled; a degraded sampler is still serving data.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshots.Latest()
	if snap == nil {
		s.writeJSON(w, http.StatusOK, HealthResponse{Status: statusStarting})
		return
	}

	resp := HealthResponse{
		Status:              snap.Health.Status.String(),
		ConsecutiveFailures: snap.Health.Failures,
		Cycle:               snap.Cycle,
		LastSample:          snap.Timestamp,
	}

	status := http.StatusOK
	if snap.Health.Status == sampler.StatusStalled {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

// handleReady answers 200 once the first snapshot has been published.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.snapshots.Latest() == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshots.Latest()
	if snap == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "no snapshot yet"})
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
	}
}
