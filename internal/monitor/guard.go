package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a single source call.
const DefaultTimeout = 500 * time.Millisecond

type result[T any] struct {
	value T
	err   error
}

// guard runs fn with a deadline and converts every failure mode (error,
// panic, timeout) into the unavailable sentinel. A call that overruns
// its deadline is abandoned; its result is discarded when it finally
// returns.
func guard[T any](ctx context.Context, timeout time.Duration, now func() time.Time, logger *slog.Logger, name string, fn func(context.Context) (T, error)) Reading[T] {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result[T]{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result[T]{value: v, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			logger.Debug("source unavailable", "source", name, "error", res.err)
			return Unavailable[T](now())
		}
		return Available(res.value, now())
	case <-ctx.Done():
		logger.Debug("source unavailable", "source", name, "error", ErrTimeout)
		return Unavailable[T](now())
	}
}
