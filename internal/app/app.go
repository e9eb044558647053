// Package app wires together all adapters and domain logic.
// It provides lifecycle management for the mbench daemon: create, start, stop.
// The same wiring backs one-shot CLI runs, which simply never call Start.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/corey/mbench/internal/adapters/ahocorasick"
	"github.com/corey/mbench/internal/adapters/bbolt"
	"github.com/corey/mbench/internal/adapters/prom"
	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/corey/mbench/internal/adapters/web"
	"github.com/corey/mbench/internal/config"
	"github.com/corey/mbench/internal/domain/bench"
	"github.com/corey/mbench/internal/logging"
	"github.com/corey/mbench/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	ProjectRoot string
	Paths       *Paths
	Settings    *config.Config

	Store     *bbolt.Store
	Metrics   *prom.Metrics
	Engine    *bench.Engine
	Server    *socket.Server
	WebServer *web.Server // nil when the HTTP API is disabled
	Logger    *logging.Logger

	httpPort int
	started  time.Time
	stopOnce sync.Once
}

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	DBPath      string          // path to bbolt file (default: .mbench/mbench.db)
	Settings    *config.Config  // project settings (default: config.DefaultConfig())
	Logger      *logging.Logger // default: discard
	Clock       ports.Clock     // default: wall clock
}

// New creates an App with all dependencies wired. Does not start services.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	paths := NewPaths(cfg.ProjectRoot)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}
	if cfg.Settings == nil {
		cfg.Settings = config.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	store, err := bbolt.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	metrics := prom.New()

	runnerOpts := []bench.RunnerOption{bench.WithWorkers(cfg.Settings.Workers)}
	if cfg.Clock != nil {
		runnerOpts = append(runnerOpts, bench.WithClock(cfg.Clock))
	}
	if cfg.Settings.Verify {
		runnerOpts = append(runnerOpts, bench.WithVerifier(ahocorasick.NewReference()))
	}
	engine := bench.NewEngine(
		bench.NewSession(cfg.Clock),
		bench.NewRunner(runnerOpts...),
		bench.WithMetrics(metrics),
	)

	a := &App{
		ProjectRoot: cfg.ProjectRoot,
		Paths:       paths,
		Settings:    cfg.Settings,
		Store:       store,
		Metrics:     metrics,
		Engine:      engine,
		Logger:      cfg.Logger,
		httpPort:    cfg.Settings.HTTPPort,
	}

	sockPath := socket.SocketPath(cfg.ProjectRoot)
	a.Server = socket.NewServer(a, sockPath, a.Logger.Logger)

	if a.httpPort >= 0 {
		a.WebServer = web.NewServer(a, metrics.Handler(), paths.PortFile, a.Logger.Logger)
	}

	return a, nil
}

// Start begins the daemon (socket server + HTTP server).
func (a *App) Start() error {
	a.started = time.Now()
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	// HTTP API is non-fatal if the port is unavailable.
	if a.WebServer != nil {
		httpPort := a.httpPort
		if httpPort == 0 {
			httpPort = web.DefaultPort(a.ProjectRoot)
		}
		if err := a.WebServer.Start(httpPort); err != nil {
			a.Logger.Warn("http api unavailable", "port", httpPort, "error", err)
		}
	}
	a.Logger.Info("daemon started",
		"socket", a.Server.Addr(),
		"session", a.Engine.Session().ID(),
		"workers", a.Settings.Workers,
		"verify", a.Settings.Verify,
	)
	return nil
}

// Stop shuts down all services and closes the store. Idempotent; safe for
// an App that was never started.
func (a *App) Stop() error {
	var err error
	a.stopOnce.Do(func() {
		if a.WebServer != nil {
			a.WebServer.Stop()
		}
		a.Server.Stop()
		err = a.Store.Close()
		if !a.started.IsZero() {
			a.Logger.Info("daemon stopped", "uptime", time.Since(a.started).Round(time.Second))
		}
	})
	return err
}

// MatchBenchmark runs one submission through the engine and logs it.
func (a *App) MatchBenchmark(ctx context.Context, req ports.MatchRequest) ([]ports.MatchOutcome, error) {
	start := time.Now()
	outcomes, err := a.Engine.MatchBenchmark(ctx, req)
	if err != nil {
		a.Logger.Warn("match rejected", "algorithm", req.Algorithm, "error", err)
		return nil, err
	}
	a.Logger.Info("run recorded",
		"algorithm", req.Algorithm,
		"patterns", len(outcomes),
		"case_sensitive", req.CaseSensitive,
		"duration", time.Since(start),
	)
	return outcomes, nil
}

// GetRecommendation ranks algorithms over the session history.
func (a *App) GetRecommendation() ports.Recommendation {
	return a.Engine.GetRecommendation()
}

// Report snapshots the session.
func (a *App) Report() *bench.Report {
	return a.Engine.Report()
}

// Reset discards the session history and starts a new session.
func (a *App) Reset() {
	a.Engine.Reset()
	a.Logger.Info("session reset", "session", a.Engine.Session().ID())
}

// SaveSnapshot archives the current recommendation and per-algorithm
// summaries. Text and patterns are never persisted.
func (a *App) SaveSnapshot() (*ports.Snapshot, error) {
	snap := a.Engine.Report().Snapshot()
	if err := a.Store.SaveSnapshot(snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	a.Logger.Info("snapshot saved", "id", snap.ID, "session", snap.SessionID)
	return snap, nil
}

// Snapshots lists archived snapshots, newest first. limit <= 0 returns all.
func (a *App) Snapshots(limit int) ([]*ports.Snapshot, error) {
	return a.Store.ListSnapshots(limit)
}

// ClearSnapshots deletes the whole archive.
func (a *App) ClearSnapshots() error {
	return a.Store.DeleteAll()
}

// Health reports daemon liveness and session size.
func (a *App) Health() socket.HealthResult {
	result := socket.HealthResult{
		Status:    "ok",
		SessionID: a.Engine.Session().ID(),
		Runs:      len(a.Engine.Session().Runs()),
	}
	if !a.started.IsZero() {
		result.Uptime = time.Since(a.started).Round(time.Second).String()
	}
	if a.WebServer != nil && a.WebServer.Port() != 0 {
		result.HTTPURL = a.WebServer.URL()
	}
	return result
}
