package cli

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running monix server",
	Long:  `Stop the monix server by sending SIGTERM to the process specified in the PID file.`,
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&pidFile, "pid-file", "", "PID file path (overrides config)")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	pid, err := signalServer(syscall.SIGTERM)
	if err != nil {
		return err
	}

	if jsonOut {
		fmt.Printf(`{"status":"stopped","pid":%d}`+"\n", pid)
	} else {
		fmt.Printf("Sent SIGTERM to process %d\n", pid)
	}
	return nil
}
