// Package bench drives the matching algorithms, accumulates per-algorithm
// history for a benchmarking session, and derives the recommendation.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/corey/mbench/internal/domain/match"
	"github.com/corey/mbench/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Runner executes one algorithm over an ordered list of patterns against one
// text, timing each pattern search on its own.
type Runner struct {
	clock    ports.Clock
	workers  int
	verifier ports.Verifier
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock injects the time source used to measure each search.
func WithClock(c ports.Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithWorkers sets how many pattern searches may run at once. Values <= 1
// keep the runner sequential.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// WithVerifier cross-checks every index against v.
func WithVerifier(v ports.Verifier) RunnerOption {
	return func(r *Runner) { r.verifier = v }
}

// NewRunner creates a sequential runner on the wall clock unless options say otherwise.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{clock: wallClock{}, workers: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = wallClock{}
	}
	return r
}

// Run searches each non-blank pattern in text with alg. Outcomes follow the
// input order; blank patterns produce no outcome.
func (r *Runner) Run(ctx context.Context, text string, patterns []string, alg ports.Algorithm) ([]ports.MatchOutcome, error) {
	return r.RunLabeled(ctx, text, patterns, patterns, alg)
}

// RunLabeled is Run with a separate display label per pattern, used when the
// searched patterns were case folded and the outcome must echo the originals.
// labels must have the same length as patterns.
func (r *Runner) RunLabeled(ctx context.Context, text string, patterns, labels []string, alg ports.Algorithm) ([]ports.MatchOutcome, error) {
	searcher, err := match.For(alg)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(patterns) {
		return nil, fmt.Errorf("runner: %d labels for %d patterns", len(labels), len(patterns))
	}

	textRunes := []rune(text)
	slots := make([]*ports.MatchOutcome, len(patterns))

	if r.workers <= 1 {
		for i, p := range patterns {
			if match.Blank(p) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o, err := r.searchOne(searcher, text, textRunes, p, labels[i])
			if err != nil {
				return nil, err
			}
			slots[i] = &o
		}
		return collect(slots), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, p := range patterns {
		if match.Blank(p) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := r.searchOne(searcher, text, textRunes, p, labels[i])
			if err != nil {
				return err
			}
			slots[i] = &o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return collect(slots), nil
}

func (r *Runner) searchOne(s ports.Searcher, text string, textRunes []rune, pattern, label string) (ports.MatchOutcome, error) {
	patternRunes := []rune(pattern)

	start := r.clock.Now()
	idx, comparisons := s.Search(textRunes, patternRunes)
	elapsed := r.clock.Now().Sub(start)

	if r.verifier != nil {
		if want := r.verifier.FirstIndex(text, pattern); want != idx {
			return ports.MatchOutcome{}, fmt.Errorf("%w: pattern %q: got index %d, reference %d",
				ports.ErrVerification, label, idx, want)
		}
	}

	return ports.MatchOutcome{
		Pattern:     label,
		Index:       idx,
		Comparisons: comparisons,
		TimeMs:      durationMs(elapsed),
	}, nil
}

func durationMs(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}

func collect(slots []*ports.MatchOutcome) []ports.MatchOutcome {
	out := make([]ports.MatchOutcome, 0, len(slots))
	for _, o := range slots {
		if o != nil {
			out = append(out, *o)
		}
	}
	return out
}
