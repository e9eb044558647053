package bench

import (
	"context"
	"fmt"

	"github.com/corey/mbench/internal/domain/match"
	"github.com/corey/mbench/internal/ports"
)

// Engine is the entry point transports call: it conditions a request, runs
// it, and records the outcomes into its session.
type Engine struct {
	session *Session
	runner  *Runner
	metrics ports.MetricsSink
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMetrics reports every recorded run to sink.
func WithMetrics(sink ports.MetricsSink) EngineOption {
	return func(e *Engine) { e.metrics = sink }
}

// NewEngine creates an engine over session and runner. Nil arguments get defaults.
func NewEngine(session *Session, runner *Runner, opts ...EngineOption) *Engine {
	if session == nil {
		session = NewSession(nil)
	}
	if runner == nil {
		runner = NewRunner()
	}
	e := &Engine{session: session, runner: runner}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the engine's session.
func (e *Engine) Session() *Session {
	return e.session
}

// MatchBenchmark runs req.Algorithm over every non-blank pattern and appends
// the outcomes to the session history. An invalid algorithm, a cancelled
// context or a verification failure returns an error and records nothing.
func (e *Engine) MatchBenchmark(ctx context.Context, req ports.MatchRequest) ([]ports.MatchOutcome, error) {
	if !req.Algorithm.Valid() {
		return nil, fmt.Errorf("%w: %s", ports.ErrInvalidAlgorithm, req.Algorithm)
	}

	text, patterns := match.Normalize(req.Text, req.Patterns, req.CaseSensitive)
	outcomes, err := e.runner.RunLabeled(ctx, text, patterns, req.Patterns, req.Algorithm)
	if err != nil {
		return nil, err
	}

	e.session.Record(req.Algorithm, outcomes)
	if e.metrics != nil {
		e.metrics.ObserveRun(req.Algorithm, outcomes)
	}
	return outcomes, nil
}

// GetRecommendation ranks algorithms over the whole session history.
func (e *Engine) GetRecommendation() ports.Recommendation {
	return e.session.Recommend()
}

// Report snapshots the session for renderers.
func (e *Engine) Report() *Report {
	return e.session.Report()
}

// Reset starts a new session, discarding history.
func (e *Engine) Reset() {
	e.session.Reset()
}
