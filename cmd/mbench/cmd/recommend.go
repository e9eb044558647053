package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	recommendJSON  bool
	recommendColor string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show the fastest algorithm for the daemon session",
	Long:  "Ranks every algorithm with recorded runs by mean search time, fastest first. Needs the daemon; a one-shot session has no history.",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output JSON")
	recommendCmd.Flags().StringVar(&recommendColor, "color", "auto", "Color output: auto, always, never")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	b, err := openSessionBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	rec, err := b.Recommend()
	if err != nil {
		return err
	}
	if recommendJSON {
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRecommendation(rec, resolveColor(recommendColor)))
	return nil
}

// openSessionBackend opens the backend for commands that read session state.
// Without a daemon the session is empty, which is reported rather than hidden.
func openSessionBackend() (backend, error) {
	root := projectRoot()
	settings, err := loadSettings(root)
	if err != nil {
		return nil, err
	}
	b, err := openBackend(root, settings, false)
	if err != nil {
		return nil, err
	}
	if !b.Remote() {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "⚡ daemon is not running; showing an empty session (start it with: mbench daemon start)")
	}
	return b, nil
}
