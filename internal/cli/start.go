package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/monix/internal/config"
	"github.com/haskel/monix/internal/logger"
	"github.com/haskel/monix/internal/server"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the monix exporter",
	Long: `Start sampling in the background and serve snapshots over HTTP
in foreground mode. SIGHUP reloads credentials, SIGINT/SIGTERM stop.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override address if specified via flag
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	log.Info("monix starting",
		"version", Version,
		"config", cfgFile,
		"interval", cfg.Interval(),
	)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := engine.StartWorker(ctx)

	if cfg.Server.PIDFile != "" {
		if err := writePIDFile(cfg.Server.PIDFile); err != nil {
			log.Warn("failed to write PID file", "error", err)
		} else {
			defer os.Remove(cfg.Server.PIDFile)
		}
	}

	srv := server.New(cfg, worker.Snapshots(), logger.Component(log, "server"), Version)

	sighupCh := make(chan os.Signal, 1)
	sigCh := make(chan os.Signal, 1)
	shutdownDone := make(chan struct{})

	signal.Notify(sighupCh, syscall.SIGHUP)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Handle SIGHUP for hot-reload
	go func() {
		for {
			select {
			case <-sighupCh:
				log.Info("SIGHUP received, reloading configuration")

				newCfg := config.LoadOrDefault(cfgFile)
				if err := newCfg.Validate(); err != nil {
					log.Error("invalid configuration, reload aborted", "error", err)
					continue
				}

				srv.ReloadConfig(newCfg)
			case <-shutdownDone:
				return
			}
		}
	}()

	// Handle shutdown signals
	go func() {
		select {
		case <-sigCh:
			log.Info("shutdown signal received")
		case <-worker.Done():
			log.Error("sampler stopped unexpectedly", "error", worker.Err())
		}

		signal.Stop(sighupCh)
		signal.Stop(sigCh)
		close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}()

	log.Info("monix ready", "addr", srv.Addr())

	serveErr := srv.Start()

	// Stop sampling: the in-flight cycle finishes, then sources close.
	cancel()
	<-worker.Done()
	if err := engine.Shutdown(); err != nil {
		log.Error("sampler shutdown error", "error", err)
	}

	if serveErr != nil {
		return fmt.Errorf("server error: %w", serveErr)
	}

	log.Info("monix stopped")
	return nil
}
