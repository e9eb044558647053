package bench

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/corey/mbench/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Engine: MatchBenchmark / GetRecommendation end to end
// =============================================================================

type recordingSink struct {
	mu   sync.Mutex
	runs map[ports.Algorithm]int
}

func (s *recordingSink) ObserveRun(alg ports.Algorithm, outcomes []ports.MatchOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs == nil {
		s.runs = make(map[ports.Algorithm]int)
	}
	s.runs[alg] += len(outcomes)
}

func newTestEngine(step time.Duration, opts ...EngineOption) *Engine {
	clock := newStepClock(step)
	return NewEngine(NewSession(clock), NewRunner(WithClock(clock)), opts...)
}

func TestEngine_KMPScenario(t *testing.T) {
	e := newTestEngine(time.Millisecond)
	out, err := e.MatchBenchmark(context.Background(), ports.MatchRequest{
		Text:          "abxabcabcaby",
		Patterns:      []string{"abcaby"},
		Algorithm:     ports.KMP,
		CaseSensitive: true,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "abcaby", out[0].Pattern)
	assert.Equal(t, 6, out[0].Index)
	assert.LessOrEqual(t, out[0].Comparisons, 12)
	assert.GreaterOrEqual(t, out[0].TimeMs, 0.0)
}

func TestEngine_NotFoundAnyAlgorithm(t *testing.T) {
	e := newTestEngine(time.Millisecond)
	for _, alg := range ports.Algorithms() {
		out, err := e.MatchBenchmark(context.Background(), ports.MatchRequest{
			Text:      "hello world",
			Patterns:  []string{"xyz"},
			Algorithm: alg,
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, ports.NotFound, out[0].Index, alg.String())
	}
}

func TestEngine_EmptyPatternSkip(t *testing.T) {
	e := newTestEngine(time.Millisecond)
	out, err := e.MatchBenchmark(context.Background(), ports.MatchRequest{
		Text:     "a cat sat",
		Patterns: []string{"", "cat", ""},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "cat", out[0].Pattern)
	assert.Equal(t, 2, out[0].Index)
}

func TestEngine_CaseSensitivity(t *testing.T) {
	for _, alg := range ports.Algorithms() {
		e := newTestEngine(time.Millisecond)

		out, err := e.MatchBenchmark(context.Background(), ports.MatchRequest{
			Text: "ABC", Patterns: []string{"abc"}, Algorithm: alg, CaseSensitive: false,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, out[0].Index, alg.String())
		assert.Equal(t, "abc", out[0].Pattern)

		out, err = e.MatchBenchmark(context.Background(), ports.MatchRequest{
			Text: "ABC", Patterns: []string{"abc"}, Algorithm: alg, CaseSensitive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, ports.NotFound, out[0].Index, alg.String())
	}
}

func TestEngine_OriginalPatternEchoed(t *testing.T) {
	e := newTestEngine(time.Millisecond)
	out, err := e.MatchBenchmark(context.Background(), ports.MatchRequest{
		Text: "Hello World", Patterns: []string{"WORLD"}, Algorithm: ports.BoyerMoore,
	})
	require.NoError(t, err)
	assert.Equal(t, "WORLD", out[0].Pattern)
	assert.Equal(t, 6, out[0].Index)
}

func TestEngine_InvalidAlgorithmLeavesHistory(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(time.Millisecond, WithMetrics(sink))
	_, err := e.MatchBenchmark(context.Background(), ports.MatchRequest{
		Text: "abc", Patterns: []string{"a"}, Algorithm: ports.Greedy,
	})
	require.NoError(t, err)

	_, err = e.MatchBenchmark(context.Background(), ports.MatchRequest{
		Text: "abc", Patterns: []string{"a"}, Algorithm: ports.Algorithm(99),
	})
	assert.True(t, errors.Is(err, ports.ErrInvalidAlgorithm))
	assert.Len(t, e.Session().Runs(), 1)
	assert.Equal(t, 1, sink.runs[ports.Greedy])
}

func TestEngine_DeterministicCounts(t *testing.T) {
	e := newTestEngine(time.Millisecond)
	req := ports.MatchRequest{
		Text:      "she sells sea shells by the sea shore",
		Patterns:  []string{"sea shore", "shells", "sand"},
		Algorithm: ports.BoyerMoore,
	}
	first, err := e.MatchBenchmark(context.Background(), req)
	require.NoError(t, err)
	second, err := e.MatchBenchmark(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Index, second[i].Index)
		assert.Equal(t, first[i].Comparisons, second[i].Comparisons)
	}
}

func TestEngine_RecommendationOverSubmissions(t *testing.T) {
	e := newTestEngine(2 * time.Millisecond)
	ctx := context.Background()

	_, err := e.MatchBenchmark(ctx, ports.MatchRequest{Text: "abc", Patterns: []string{"a", "b"}, Algorithm: ports.KMP})
	require.NoError(t, err)
	_, err = e.MatchBenchmark(ctx, ports.MatchRequest{Text: "abc", Patterns: []string{"c"}, Algorithm: ports.Greedy})
	require.NoError(t, err)

	rec := e.GetRecommendation()
	require.Len(t, rec.RankedAverages, 2)
	// Both measure exactly one clock step per pattern: a tie, first recorded wins.
	assert.Equal(t, ports.KMP, rec.Best.Algorithm)
	assert.Equal(t, 2.0, rec.Best.MeanTimeMs)
	assert.Len(t, e.Session().Outcomes(ports.KMP), 2)

	e.Reset()
	assert.Nil(t, e.GetRecommendation().Best)
}

func TestEngine_FailedRunRecordsNothing(t *testing.T) {
	clock := newStepClock(time.Millisecond)
	e := NewEngine(NewSession(clock), NewRunner(WithClock(clock), WithVerifier(fixedVerifier(-5))))
	_, err := e.MatchBenchmark(context.Background(), ports.MatchRequest{
		Text: "abc", Patterns: []string{"b"}, Algorithm: ports.Greedy,
	})
	assert.ErrorIs(t, err, ports.ErrVerification)
	assert.Empty(t, e.Session().Runs())
}
