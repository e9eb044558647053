package cmd

import (
	"fmt"
	"os"

	"github.com/corey/mbench/internal/app"
	"github.com/corey/mbench/internal/config"
	"github.com/corey/mbench/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "mbench",
	Short:         "mbench: substring search benchmark",
	Long:          "Runs greedy, KMP and Boyer-Moore search over your text, counts character comparisons, and recommends the fastest algorithm.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// loadSettings reads .mbench/config.yaml, creating it on first use.
func loadSettings(root string) (*config.Config, error) {
	return config.Load(app.NewPaths(root).Config)
}

// newLogger builds the logger for a command. Only the daemon writes a log file.
func newLogger(root string, settings *config.Config, service string, toFile bool) *logging.Logger {
	cfg := logging.Config{
		Level:   settings.LogLevel,
		JSON:    settings.LogFormat == "json",
		Service: service,
	}
	if toFile {
		cfg.LogDir = app.NewPaths(root).LogDir
	} else {
		// One-shot commands report through their output; keep stderr for warnings.
		if settings.LogLevel == "info" {
			cfg.Level = "warn"
		}
	}
	return logging.New(cfg)
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
}
