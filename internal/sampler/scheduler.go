package sampler

import (
	"context"
	"sync"
	"time"
)

// Handoff is a single-slot mailbox between a producer of snapshots and
// one consumer. Publishing replaces any unread snapshot, so a slow
// consumer only ever sees the newest one.
type Handoff struct {
	mu     sync.Mutex
	latest *Snapshot
	ready  chan struct{}
}

// NewHandoff creates an empty Handoff.
func NewHandoff() *Handoff {
	return &Handoff{ready: make(chan struct{}, 1)}
}

// Publish stores s and signals the consumer. It never blocks.
func (h *Handoff) Publish(s *Snapshot) {
	h.mu.Lock()
	h.latest = s
	h.mu.Unlock()

	select {
	case h.ready <- struct{}{}:
	default:
		// A signal is already pending; the consumer will read the new value.
	}
}

// Ready receives a value whenever a snapshot was published since the
// consumer last drained it.
func (h *Handoff) Ready() <-chan struct{} {
	return h.ready
}

// Latest returns the newest published snapshot, or nil.
func (h *Handoff) Latest() *Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// RunCooperative runs one cycle per tick on the calling goroutine and
// passes each new snapshot to publish. It returns nil when ticks is
// closed and ctx.Err() when ctx is done. A cycle that has started is
// allowed to finish even if ctx is cancelled meanwhile.
func (e *Engine) RunCooperative(ctx context.Context, ticks <-chan time.Time, publish func(*Snapshot)) error {
	cycleCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if snap, ran := e.Cycle(cycleCtx); ran {
				publish(snap)
			}
		}
	}
}

// Worker runs cycles on a dedicated goroutine and publishes them to a
// Handoff.
type Worker struct {
	handoff *Handoff
	done    chan struct{}
	err     error
}

// StartWorker starts the worker topology: an immediate cycle, then one
// per Interval until ctx is done.
func (e *Engine) StartWorker(ctx context.Context) *Worker {
	w := &Worker{
		handoff: NewHandoff(),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(w.done)

		if snap, ok := e.Cycle(context.WithoutCancel(ctx)); ok {
			w.handoff.Publish(snap)
		}

		ticker := time.NewTicker(e.opts.Interval)
		defer ticker.Stop()
		w.err = e.RunCooperative(ctx, ticker.C, w.handoff.Publish)
	}()

	return w
}

// Snapshots returns the handoff the worker publishes to.
func (w *Worker) Snapshots() *Handoff {
	return w.handoff
}

// Done is closed when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns why the worker stopped. It is only meaningful after Done
// is closed.
func (w *Worker) Err() error {
	<-w.done
	return w.err
}
