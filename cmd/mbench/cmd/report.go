package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reportJSON  bool
	reportSave  bool
	reportColor string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the daemon session",
	Long:  "Prints per-algorithm run counts, hit counts, mean time and comparisons, plus the recommendation. --save archives the summary (never the text or patterns) for 'mbench history'.",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output JSON, including every recorded outcome")
	reportCmd.Flags().BoolVar(&reportSave, "save", false, "Archive the recommendation as a snapshot")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
}

func runReport(cmd *cobra.Command, args []string) error {
	b, err := openSessionBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	report, err := b.Report()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if reportJSON {
		if err := writeJSON(w, report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(w, formatReport(report, resolveColor(reportColor)))
	}

	if reportSave {
		snap, err := b.SaveSnapshot()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "⚡ saved snapshot #%d\n", snap.ID)
	}
	return nil
}
