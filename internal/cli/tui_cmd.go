package cli

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/monix/internal/cli/tui"
	"github.com/haskel/monix/internal/logger"
)

var (
	refreshInterval time.Duration
	tuiRemote       bool
	tuiLogFile      string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Long: `Launch an interactive terminal dashboard.

By default the dashboard samples the local host itself, one cycle per
refresh. With --remote it polls a running monix server instead.

Examples:
  monix tui                              # Sample this host
  monix tui --refresh 500ms              # Faster refresh rate
  monix tui --remote --host 10.0.0.1     # Watch a remote server`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&refreshInterval, "refresh", 0, "dashboard refresh interval (default from config)")
	tuiCmd.Flags().BoolVar(&tuiRemote, "remote", false, "poll a running server instead of sampling locally")
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "write sampler logs to this file")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	interval := refreshInterval
	if interval <= 0 {
		interval = cfg.Interval()
	}

	if tuiRemote {
		return tui.Run(tui.Config{
			Source: tui.HTTPSource{
				BaseURL:  GetServerURL(),
				User:     user,
				Password: password,
			},
			SourceLabel:     GetServerURL(),
			RefreshInterval: interval,
		})
	}

	// The dashboard owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	log := logger.NewWithWriter(logOut, cfg.Logging.Level, cfg.Logging.Format)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Shutdown(); err != nil {
			log.Error("sampler shutdown error", "error", err)
		}
	}()

	return tui.Run(tui.Config{
		Source:          tui.EngineSource{Engine: engine},
		SourceLabel:     "local",
		RefreshInterval: interval,
	})
}
