package monitor

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/haskel/monix/internal/gpu"
)

// Sources exposes one method per metric family. Every method returns a
// Reading and never fails the caller: errors, panics and overruns of
// the per-call timeout all degrade to an unavailable reading.
type Sources struct {
	host    Host
	gpu     *gpu.Session
	timeout time.Duration
	now     func() time.Time
	goos    string
	logger  *slog.Logger
}

// NewSources creates Sources reading from host. session may be nil
// when GPU sampling is disabled. A non-positive timeout selects
// DefaultTimeout.
func NewSources(host Host, session *gpu.Session, timeout time.Duration, logger *slog.Logger) *Sources {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sources{
		host:    host,
		gpu:     session,
		timeout: timeout,
		now:     time.Now,
		goos:    runtime.GOOS,
		logger:  logger,
	}
}

// GPU samples the GPU session.
func (s *Sources) GPU(ctx context.Context) Reading[gpu.Stat] {
	if s.gpu == nil {
		return Unavailable[gpu.Stat](s.now())
	}
	return guard(ctx, s.timeout, s.now, s.logger, SourceGPU, func(context.Context) (gpu.Stat, error) {
		return s.gpu.Sample()
	})
}

// Close releases the GPU session, if any.
func (s *Sources) Close() error {
	if s.gpu == nil {
		return nil
	}
	return s.gpu.Close()
}
