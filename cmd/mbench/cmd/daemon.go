package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/corey/mbench/internal/app"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the mbench daemon",
	Long:  "The daemon holds one benchmarking session across commands and serves it over a Unix socket and an HTTP API.",
}

var daemonForeground bool

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon in the background",
	Long:  "Starts the daemon detached from the terminal and returns once it answers on its socket. Output goes to .mbench/log/daemon.out.",
	RunE:  runDaemonStart,
}

// daemonRunCmd is the detached child started by daemon start.
var daemonRunCmd = &cobra.Command{
	Use:    "run",
	Short:  "Run the daemon in the foreground",
	Hidden: true,
	RunE:   runDaemonRun,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonForeground, "foreground", false, "Stay attached to the terminal")
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonRunCmd)
}

// daemonReadyTimeout bounds how long start waits for the child's socket.
const daemonReadyTimeout = 5 * time.Second

func runDaemonStart(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	sockPath := socket.SocketPath(root)

	// Check if already running
	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon already running")
		return nil
	}
	if daemonForeground {
		return runDaemonRun(cmd, args)
	}

	paths := app.NewPaths(root)
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	logFile, err := os.OpenFile(paths.DaemonLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer logFile.Close()

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	child := exec.Command(self, "daemon", "run")
	child.Dir = root
	child.Stdout = logFile
	child.Stderr = logFile
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := child.Start(); err != nil {
		return fmt.Errorf("spawn daemon: %w", err)
	}
	exited := make(chan error, 1)
	go func() { exited <- child.Wait() }()

	deadline := time.After(daemonReadyTimeout)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-exited:
			return fmt.Errorf("daemon exited during startup (%v); see %s", err, paths.DaemonLog)
		case <-deadline:
			return fmt.Errorf("daemon did not answer within %s; see %s", daemonReadyTimeout, paths.DaemonLog)
		case <-tick.C:
			if !client.Ping() {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "⚡ mbench daemon started at %s\n", sockPath)
			if portData, err := os.ReadFile(paths.PortFile); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "⚡ http api at http://localhost:%s\n", strings.TrimSpace(string(portData)))
			}
			return nil
		}
	}
}

func runDaemonRun(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	sockPath := socket.SocketPath(root)

	settings, err := loadSettings(root)
	if err != nil {
		return err
	}
	logger := newLogger(root, settings, "daemon", true)
	defer logger.Close()

	if settings.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(app.Config{ProjectRoot: root, Settings: settings, Logger: logger})
	if err != nil {
		if isDBLockError(err) {
			return fmt.Errorf("cannot start daemon: %s", diagnoseDBLock(root))
		}
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}
	if err := os.WriteFile(a.Paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		logger.Warn("write pid file", "path", a.Paths.PIDFile, "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "⚡ mbench daemon started at %s\n", sockPath)
	if a.WebServer != nil && a.WebServer.Port() != 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "⚡ http api at %s\n", a.WebServer.URL())
	}

	// Wait for a signal or a remote shutdown request.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case <-sigCh:
	case <-a.Server.ShutdownCh():
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\n⚡ shutting down...")
	err = a.Stop()
	a.Paths.CleanEphemeral()
	return err
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	client := socket.NewClient(socket.SocketPath(root))

	if !client.Ping() {
		fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon is not running")
		return nil
	}

	if err := client.Shutdown(); err != nil {
		return err
	}
	// Wait for the socket to go away so the next command sees a stopped daemon.
	for i := 0; i < 40 && client.Ping(); i++ {
		time.Sleep(50 * time.Millisecond)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "⚡ daemon stopped")
	return nil
}
