package cmd

import (
	"fmt"

	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daemon status",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "Output JSON")
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath(projectRoot()))

	if !client.Ping() {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ mbench daemon is not running")
		return nil
	}

	health, err := client.Health()
	if err != nil {
		return err
	}
	if healthJSON {
		return writeJSON(cmd.OutOrStdout(), health)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatHealth(health, resolveColor("auto")))
	return nil
}
