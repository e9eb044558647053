package cmd

import (
	"context"
	"fmt"

	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/corey/mbench/internal/app"
	"github.com/corey/mbench/internal/config"
	"github.com/corey/mbench/internal/domain/bench"
	"github.com/corey/mbench/internal/ports"
)

// backend is where a command's session lives: the daemon when it is
// running, otherwise an in-process app that ends with the command.
type backend interface {
	Match(ctx context.Context, req ports.MatchRequest) ([]ports.MatchOutcome, error)
	Recommend() (ports.Recommendation, error)
	Report() (*bench.Report, error)
	Reset() error
	SaveSnapshot() (*ports.Snapshot, error)
	Snapshots(limit int) ([]*ports.Snapshot, error)
	Remote() bool
	Close() error
}

// openBackend connects to the project daemon, or wires a local app when no
// daemon answers or local is set.
func openBackend(root string, settings *config.Config, local bool) (backend, error) {
	if !local {
		client := socket.NewClient(socket.SocketPath(root))
		if client.Ping() {
			return &daemonBackend{client: client}, nil
		}
	}

	a, err := app.New(app.Config{
		ProjectRoot: root,
		Settings:    settings,
		Logger:      newLogger(root, settings, "cli", false),
	})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(root))
		}
		return nil, err
	}
	return &localBackend{app: a}, nil
}

// daemonBackend forwards to the daemon over its Unix socket.
type daemonBackend struct {
	client *socket.Client
}

func (d *daemonBackend) Match(_ context.Context, req ports.MatchRequest) ([]ports.MatchOutcome, error) {
	result, err := d.client.Match(socket.MatchParams{
		Text:          req.Text,
		Patterns:      req.Patterns,
		Algorithm:     req.Algorithm.String(),
		CaseSensitive: req.CaseSensitive,
	})
	if err != nil {
		return nil, err
	}
	return result.Outcomes, nil
}

func (d *daemonBackend) Recommend() (ports.Recommendation, error) {
	rec, err := d.client.Recommend()
	if err != nil {
		return ports.Recommendation{}, err
	}
	return *rec, nil
}

func (d *daemonBackend) Report() (*bench.Report, error) { return d.client.Report() }
func (d *daemonBackend) Reset() error                   { return d.client.Reset() }

func (d *daemonBackend) SaveSnapshot() (*ports.Snapshot, error) { return d.client.Snapshot() }

func (d *daemonBackend) Snapshots(limit int) ([]*ports.Snapshot, error) {
	result, err := d.client.Snapshots(limit)
	if err != nil {
		return nil, err
	}
	return result.Snapshots, nil
}

func (d *daemonBackend) Remote() bool { return true }
func (d *daemonBackend) Close() error { return nil }

// localBackend runs everything in this process.
type localBackend struct {
	app *app.App
}

func (l *localBackend) Match(ctx context.Context, req ports.MatchRequest) ([]ports.MatchOutcome, error) {
	return l.app.MatchBenchmark(ctx, req)
}

func (l *localBackend) Recommend() (ports.Recommendation, error) {
	return l.app.GetRecommendation(), nil
}

func (l *localBackend) Report() (*bench.Report, error) { return l.app.Report(), nil }

func (l *localBackend) Reset() error {
	l.app.Reset()
	return nil
}

func (l *localBackend) SaveSnapshot() (*ports.Snapshot, error) { return l.app.SaveSnapshot() }

func (l *localBackend) Snapshots(limit int) ([]*ports.Snapshot, error) {
	return l.app.Snapshots(limit)
}

func (l *localBackend) Remote() bool { return false }

func (l *localBackend) Close() error {
	l.app.Logger.Close()
	return l.app.Stop()
}
