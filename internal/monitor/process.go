package monitor

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

// Processes counts processes and their threads. This walks every
// process and is comparatively expensive.
func (s *Sources) Processes(ctx context.Context) Reading[ProcessState] {
	return guard(ctx, s.timeout, s.now, s.logger, SourceProcesses, s.host.ProcessCensus)
}

func (System) ProcessCensus(ctx context.Context) (ProcessState, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return ProcessState{}, err
	}

	// Count threads
	var threadCount int
	for _, p := range procs {
		if ctx.Err() != nil {
			return ProcessState{}, ctx.Err()
		}
		threads, err := p.NumThreadsWithContext(ctx)
		if err == nil {
			threadCount += int(threads)
		}
	}

	return ProcessState{
		Processes: len(procs),
		Threads:   threadCount,
	}, nil
}
