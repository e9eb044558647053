package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/corey/mbench/internal/adapters/web"
	"github.com/corey/mbench/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows paths, effective settings (config.yaml plus MBENCH_* overrides) and daemon status. No daemon required.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)
	settings, err := loadSettings(root)
	if err != nil {
		return err
	}
	sockPath := socket.SocketPath(root)

	color := resolveColor("auto")
	client := socket.NewClient(sockPath)
	daemonRunning := client.Ping()
	daemonStatus := paint(color, colorYellow, "✗ not running")
	if daemonRunning {
		daemonStatus = paint(color, colorGreen, "✓ running")
	}

	httpPort := fmt.Sprintf("%d", settings.HTTPPort)
	switch {
	case settings.HTTPPort == 0:
		httpPort = fmt.Sprintf("%d (derived)", web.DefaultPort(root))
	case settings.HTTPPort < 0:
		httpPort = "disabled"
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, paint(color, colorBold, "⚡ mbench config"))
	fmt.Fprintf(w, "  Root:        %s\n", root)
	fmt.Fprintf(w, "  Config:      %s\n", paths.Config)
	fmt.Fprintf(w, "  DB:          %s\n", paths.DB)
	fmt.Fprintf(w, "  Logs:        %s\n", paths.LogDir)
	fmt.Fprintf(w, "  Socket:      %s\n", sockPath)
	fmt.Fprintf(w, "  Daemon:      %s\n", daemonStatus)
	fmt.Fprintf(w, "  Algorithm:   %s\n", settings.Algorithm)
	fmt.Fprintf(w, "  Case:        %s\n", caseLabel(settings.CaseSensitive))
	fmt.Fprintf(w, "  Workers:     %d\n", settings.Workers)
	fmt.Fprintf(w, "  Verify:      %t\n", settings.Verify)
	fmt.Fprintf(w, "  HTTP port:   %s\n", httpPort)
	fmt.Fprintf(w, "  Log:         %s (%s)\n", settings.LogLevel, settings.LogFormat)

	if daemonRunning {
		if portData, err := os.ReadFile(paths.PortFile); err == nil {
			fmt.Fprintf(w, "  HTTP API:    http://localhost:%s\n", strings.TrimSpace(string(portData)))
		}
	}
	return nil
}

func caseLabel(sensitive bool) string {
	if sensitive {
		return "sensitive"
	}
	return "insensitive"
}
