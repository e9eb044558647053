package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/corey/mbench/internal/app"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
	historyClear bool
	historyForce bool
	historyColor string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived recommendation snapshots",
	Long:  "Lists snapshots saved by 'mbench report --save', newest first. Works with or without the daemon.",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.IntVarP(&historyLimit, "limit", "n", 10, "Maximum snapshots to show (0 = all)")
	f.BoolVar(&historyJSON, "json", false, "Output JSON")
	f.BoolVar(&historyClear, "clear", false, "Delete every snapshot")
	f.BoolVar(&historyForce, "force", false, "Skip the --clear confirmation prompt")
	f.StringVar(&historyColor, "color", "auto", "Color output: auto, always, never")
}

func runHistory(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	settings, err := loadSettings(root)
	if err != nil {
		return err
	}

	if historyClear {
		return clearHistory(cmd, root)
	}

	b, err := openBackend(root, settings, false)
	if err != nil {
		return err
	}
	defer b.Close()

	snaps, err := b.Snapshots(historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), snaps)
	}
	fmt.Fprint(cmd.OutOrStdout(), formatSnapshots(snaps, resolveColor(historyColor)))
	return nil
}

// clearHistory deletes the archive directly; the daemon holds the database
// lock, so it must be stopped first.
func clearHistory(cmd *cobra.Command, root string) error {
	if !historyForce {
		fmt.Fprint(cmd.OutOrStdout(), "This will delete every saved snapshot. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
	}

	settings, err := loadSettings(root)
	if err != nil {
		return err
	}
	a, err := app.New(app.Config{ProjectRoot: root, Settings: settings})
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("cannot clear history: %s", diagnoseDBLock(root))
		}
		return err
	}
	defer a.Stop()

	if err := a.ClearSnapshots(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
	return nil
}
