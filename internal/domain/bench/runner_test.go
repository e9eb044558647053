package bench

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/corey/mbench/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Benchmark Runner: one algorithm, many patterns, per-pattern timing
// =============================================================================

func TestRunner_SkipsBlankPatternsKeepsOrder(t *testing.T) {
	r := NewRunner(WithClock(newStepClock(time.Millisecond)))
	out, err := r.Run(context.Background(), "a cat sat", []string{"", "cat", "  ", "sat", "a"}, ports.Greedy)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "cat", out[0].Pattern)
	assert.Equal(t, 2, out[0].Index)
	assert.Equal(t, "sat", out[1].Pattern)
	assert.Equal(t, 6, out[1].Index)
	assert.Equal(t, "a", out[2].Pattern)
	assert.Equal(t, 0, out[2].Index)
}

func TestRunner_TimesEachPatternIndependently(t *testing.T) {
	r := NewRunner(WithClock(newStepClock(1500 * time.Microsecond)))
	out, err := r.Run(context.Background(), "hello world", []string{"hello", "world", "xyz"}, ports.KMP)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, o := range out {
		assert.Equal(t, 1.5, o.TimeMs, o.Pattern)
	}
}

func TestRunner_InvalidAlgorithm(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), "abc", []string{"a"}, ports.Algorithm(9))
	assert.True(t, errors.Is(err, ports.ErrInvalidAlgorithm))
}

func TestRunner_LabelMismatch(t *testing.T) {
	_, err := NewRunner().RunLabeled(context.Background(), "abc", []string{"a", "b"}, []string{"a"}, ports.Greedy)
	assert.Error(t, err)
}

func TestRunner_LabelsEchoOriginals(t *testing.T) {
	out, err := NewRunner().RunLabeled(context.Background(), "abc", []string{"abc"}, []string{"ABC"}, ports.BoyerMoore)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ABC", out[0].Pattern)
	assert.Equal(t, 0, out[0].Index)
}

func TestRunner_ConcurrentMatchesSequential(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog while the cat sleeps"
	var patterns []string
	for i := 0; i < 60; i++ {
		switch i % 4 {
		case 0:
			patterns = append(patterns, "fox")
		case 1:
			patterns = append(patterns, "")
		case 2:
			patterns = append(patterns, fmt.Sprintf("missing-%d", i))
		default:
			patterns = append(patterns, "the cat")
		}
	}

	for _, alg := range ports.Algorithms() {
		seq, err := NewRunner().Run(context.Background(), text, patterns, alg)
		require.NoError(t, err)
		par, err := NewRunner(WithWorkers(8)).Run(context.Background(), text, patterns, alg)
		require.NoError(t, err)

		require.Len(t, par, len(seq))
		for i := range seq {
			assert.Equal(t, seq[i].Pattern, par[i].Pattern)
			assert.Equal(t, seq[i].Index, par[i].Index)
			assert.Equal(t, seq[i].Comparisons, par[i].Comparisons)
		}
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner().Run(ctx, "abc", []string{"a"}, ports.Greedy)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewRunner(WithWorkers(4)).Run(ctx, "abc", []string{"a", "b"}, ports.Greedy)
	assert.ErrorIs(t, err, context.Canceled)
}

type fixedVerifier int

func (v fixedVerifier) FirstIndex(text, pattern string) int { return int(v) }

func TestRunner_Verifier(t *testing.T) {
	r := NewRunner(WithVerifier(fixedVerifier(2)))
	out, err := r.Run(context.Background(), "a cat", []string{"cat"}, ports.KMP)
	require.NoError(t, err)
	assert.Equal(t, 2, out[0].Index)

	r = NewRunner(WithVerifier(fixedVerifier(0)))
	_, err = r.Run(context.Background(), "a cat", []string{"cat"}, ports.KMP)
	assert.ErrorIs(t, err, ports.ErrVerification)
}
