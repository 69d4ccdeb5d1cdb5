package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest snapshot from a running server",
	Long:  `Query the running monix server for its most recent snapshot.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := NewClient()

	snap, raw, err := client.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	if jsonOut {
		fmt.Println(string(raw))
		return nil
	}

	renderSnapshot(os.Stdout, snap)
	return nil
}
