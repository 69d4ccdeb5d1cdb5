package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/monix/internal/logger"
	"github.com/haskel/monix/internal/sampler"
)

var (
	snapshotCycles   int
	snapshotInterval time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Sample the local host and print snapshots",
	Long: `Run sampling cycles in the foreground and print each snapshot.

Rates need two cycles: the first snapshot reports zero throughput.

Examples:
  monix snapshot                 # two cycles, text report
  monix snapshot --cycles 5      # five cycles, one per interval
  monix snapshot --json          # JSON output`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVarP(&snapshotCycles, "cycles", "n", 2, "number of cycles to run")
	snapshotCmd.Flags().DurationVar(&snapshotInterval, "interval", 0, "time between cycles (default from config)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if snapshotCycles < 1 {
		return fmt.Errorf("--cycles must be at least 1")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(os.Stderr, level, cfg.Logging.Format)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Shutdown(); err != nil {
			log.Error("sampler shutdown error", "error", err)
		}
	}()

	interval := snapshotInterval
	if interval <= 0 {
		interval = engine.Interval()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var printErr error
	err = engine.RunCooperative(ctx, countedTicks(ctx, snapshotCycles, interval), func(snap *sampler.Snapshot) {
		if printErr == nil {
			printErr = printSnapshot(os.Stdout, snap, jsonOut)
		}
	})
	if printErr != nil {
		return printErr
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// countedTicks delivers n ticks, the first immediately and the rest
// interval apart, then closes the channel.
func countedTicks(ctx context.Context, n int, interval time.Duration) <-chan time.Time {
	ticks := make(chan time.Time)
	go func() {
		defer close(ticks)
		for i := range n {
			if i > 0 {
				select {
				case <-time.After(interval):
				case <-ctx.Done():
					return
				}
			}
			select {
			case ticks <- time.Now():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ticks
}
