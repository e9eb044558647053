package bench

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/corey/mbench/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Aggregator & Recommender: session history and ranking
// =============================================================================

func outcomes(times ...float64) []ports.MatchOutcome {
	out := make([]ports.MatchOutcome, len(times))
	for i, tm := range times {
		out[i] = ports.MatchOutcome{Pattern: fmt.Sprintf("p%d", i), Index: i, TimeMs: tm}
	}
	return out
}

func TestSession_EmptyRecommendation(t *testing.T) {
	s := NewSession(nil)
	rec := s.Recommend()
	assert.Empty(t, rec.RankedAverages)
	assert.NotNil(t, rec.RankedAverages)
	assert.Nil(t, rec.Best)
}

func TestSession_RanksByMean(t *testing.T) {
	s := NewSession(nil)
	s.Record(ports.Greedy, outcomes(1.0, 2.0))
	s.Record(ports.KMP, outcomes(0.5))
	s.Record(ports.BoyerMoore, outcomes(0.75, 0.75))

	rec := s.Recommend()
	require.Len(t, rec.RankedAverages, 3)
	assert.Equal(t, ports.RankedAverage{Algorithm: ports.KMP, MeanTimeMs: 0.5}, rec.RankedAverages[0])
	assert.Equal(t, ports.RankedAverage{Algorithm: ports.BoyerMoore, MeanTimeMs: 0.75}, rec.RankedAverages[1])
	assert.Equal(t, ports.RankedAverage{Algorithm: ports.Greedy, MeanTimeMs: 1.5}, rec.RankedAverages[2])
	require.NotNil(t, rec.Best)
	assert.Equal(t, ports.KMP, rec.Best.Algorithm)
}

func TestSession_HistoryAccumulates(t *testing.T) {
	s := NewSession(nil)
	s.Record(ports.Greedy, outcomes(1.0, 2.0))
	assert.Equal(t, 1.5, s.Recommend().RankedAverages[0].MeanTimeMs)

	// A second submission adds to the history instead of replacing it.
	s.Record(ports.Greedy, outcomes(6.0))
	assert.Equal(t, 3.0, s.Recommend().RankedAverages[0].MeanTimeMs)
	assert.Len(t, s.Outcomes(ports.Greedy), 3)
	assert.Len(t, s.Runs(), 2)
}

func TestSession_RoundsToThreeDecimals(t *testing.T) {
	s := NewSession(nil)
	s.Record(ports.KMP, outcomes(0.0012, 0.0013, 0.0014))
	assert.Equal(t, 0.001, s.Recommend().Best.MeanTimeMs)
}

func TestSession_TiesKeepFirstRecordedOrder(t *testing.T) {
	s := NewSession(nil)
	s.Record(ports.BoyerMoore, outcomes(1.0001))
	s.Record(ports.Greedy, outcomes(1.0004))
	s.Record(ports.KMP, outcomes(1.0))

	rec := s.Recommend()
	require.Len(t, rec.RankedAverages, 3)
	assert.Equal(t, ports.BoyerMoore, rec.RankedAverages[0].Algorithm)
	assert.Equal(t, ports.Greedy, rec.RankedAverages[1].Algorithm)
	assert.Equal(t, ports.KMP, rec.RankedAverages[2].Algorithm)

	for i := 0; i < 5; i++ {
		assert.Equal(t, rec, s.Recommend())
	}
}

func TestSession_EmptyBatchNotRanked(t *testing.T) {
	s := NewSession(nil)
	s.Record(ports.Greedy, nil)
	assert.Empty(t, s.Recommend().RankedAverages)
	assert.Len(t, s.Runs(), 1)

	// Greedy's empty batch does not claim a tie-break slot.
	s.Record(ports.KMP, outcomes(1.0))
	s.Record(ports.Greedy, outcomes(1.0))
	assert.Equal(t, ports.KMP, s.Recommend().Best.Algorithm)
}

func TestSession_RecordCopiesBatch(t *testing.T) {
	s := NewSession(nil)
	batch := outcomes(1.0)
	s.Record(ports.Greedy, batch)
	batch[0].TimeMs = 100
	assert.Equal(t, 1.0, s.Outcomes(ports.Greedy)[0].TimeMs)
}

func TestSession_Reset(t *testing.T) {
	clock := newStepClock(time.Second)
	s := NewSession(clock)
	id := s.ID()
	started := s.Started()
	s.Record(ports.Greedy, outcomes(1.0))

	s.Reset()
	assert.NotEqual(t, id, s.ID())
	assert.True(t, s.Started().After(started))
	assert.Empty(t, s.Runs())
	assert.Nil(t, s.Recommend().Best)
}

func TestSession_ConcurrentRecordsDoNotInterleave(t *testing.T) {
	s := NewSession(nil)
	const writers, batchSize = 16, 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]ports.MatchOutcome, batchSize)
			for i := range batch {
				batch[i] = ports.MatchOutcome{Pattern: fmt.Sprintf("w%d", w), Index: i, TimeMs: 1}
			}
			s.Record(ports.KMP, batch)
		}()
	}
	wg.Wait()

	history := s.Outcomes(ports.KMP)
	require.Len(t, history, writers*batchSize)
	for start := 0; start < len(history); start += batchSize {
		block := history[start : start+batchSize]
		for i, o := range block {
			assert.Equal(t, block[0].Pattern, o.Pattern, "batch split at %d", start+i)
			assert.Equal(t, i, o.Index, "batch order broken at %d", start+i)
		}
	}
	assert.Len(t, s.Runs(), writers)
}
