package cmd

import (
	"fmt"

	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the daemon session's history",
	Long:  "Starts a fresh benchmarking session in the daemon. Saved snapshots are kept; use 'mbench history --clear' to remove them.",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(projectRoot()))
	if !client.Ping() {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon is not running; nothing to reset")
		return nil
	}
	if err := client.Reset(); err != nil {
		return fmt.Errorf("reset via daemon failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "⚡ session reset")
	return nil
}
