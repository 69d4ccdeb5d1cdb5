package server

import (
	"net/http"
	"net/http/pprof"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.Handle("GET /metrics", s.metrics.Handler(s.snapshots))

	if s.config.Server.Profiling.Enabled {
		s.setupProfilingRoutes(mux)
	}

	return mux
}

// setupProfilingRoutes exposes pprof. Config validation guarantees
// basic auth is on whenever this runs.
func (s *Server) setupProfilingRoutes(mux *http.ServeMux) {
	s.logger.Info("profiling endpoints enabled at /debug/pprof/ (auth required)")
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("POST /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	// Index also serves the named profiles (heap, goroutine, ...).
	mux.HandleFunc("GET /debug/pprof/{name...}", pprof.Index)
}
