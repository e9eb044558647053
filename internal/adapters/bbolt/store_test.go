package bbolt

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/mbench/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// bbolt snapshot store: archive recommendations, newest first, crash safe
// =============================================================================

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestSnapshot creates a realistic snapshot with the given best algorithm.
func makeTestSnapshot(sessionID string, best ports.Algorithm, mean float64) *ports.Snapshot {
	ranked := []ports.RankedAverage{
		{Algorithm: best, MeanTimeMs: mean},
		{Algorithm: ports.Greedy, MeanTimeMs: mean * 3},
	}
	return &ports.Snapshot{
		SessionID: sessionID,
		TakenAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Summaries: []ports.AlgorithmSummary{
			{Algorithm: best, Runs: 2, Outcomes: 6, Found: 4, MeanTimeMs: mean, MeanComparisons: 11.5, TotalComparisons: 69},
			{Algorithm: ports.Greedy, Runs: 1, Outcomes: 3, Found: 2, MeanTimeMs: mean * 3, MeanComparisons: 40, TotalComparisons: 120},
		},
		Recommendation: ports.Recommendation{RankedAverages: ranked, Best: &ranked[0]},
	}
}

func TestStore_SaveList_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	original := makeTestSnapshot("sess-1", ports.BoyerMoore, 0.012)

	require.NoError(t, store.SaveSnapshot(original))
	assert.Equal(t, uint64(1), original.ID)

	loaded, err := store.ListSnapshots(0)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.SessionID, got.SessionID)
	assert.True(t, original.TakenAt.Equal(got.TakenAt))
	assert.Equal(t, original.Summaries, got.Summaries)
	assert.Equal(t, original.Recommendation.RankedAverages, got.Recommendation.RankedAverages)
	require.NotNil(t, got.Recommendation.Best)
	assert.Equal(t, ports.BoyerMoore, got.Recommendation.Best.Algorithm)
}

func TestStore_ListNewestFirstWithLimit(t *testing.T) {
	store, _ := newTestStore(t)
	for i, alg := range []ports.Algorithm{ports.Greedy, ports.KMP, ports.BoyerMoore} {
		require.NoError(t, store.SaveSnapshot(makeTestSnapshot("sess", alg, float64(i+1))))
	}

	all, err := store.ListSnapshots(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(3), all[0].ID)
	assert.Equal(t, uint64(1), all[2].ID)

	two, err := store.ListSnapshots(2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, ports.BoyerMoore, two[0].Recommendation.Best.Algorithm)
	assert.Equal(t, ports.KMP, two[1].Recommendation.Best.Algorithm)
}

func TestStore_EmptyList(t *testing.T) {
	store, _ := newTestStore(t)
	snaps, err := store.ListSnapshots(10)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestStore_NilSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.SaveSnapshot(nil))
}

func TestStore_DeleteAllIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.DeleteAll())

	require.NoError(t, store.SaveSnapshot(makeTestSnapshot("s", ports.KMP, 1)))
	require.NoError(t, store.DeleteAll())
	require.NoError(t, store.DeleteAll())

	snaps, err := store.ListSnapshots(0)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestStore_CrashRecovery(t *testing.T) {
	// Committed snapshots survive close and reopen; sequence keeps counting.
	dir := t.TempDir()
	path := filepath.Join(dir, "crash.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(makeTestSnapshot("s", ports.KMP, 1)))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	snap := makeTestSnapshot("s", ports.Greedy, 2)
	require.NoError(t, store2.SaveSnapshot(snap))
	assert.Equal(t, uint64(2), snap.ID)

	loaded, err := store2.ListSnapshots(0)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestStore_LockTimeout(t *testing.T) {
	// A second open of the same file times out instead of blocking forever.
	_, path := newTestStore(t)
	_, err := NewStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestStore_ConcurrentSaves(t *testing.T) {
	store, _ := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.SaveSnapshot(makeTestSnapshot("s", ports.KMP, 1)))
		}()
	}
	wg.Wait()

	snaps, err := store.ListSnapshots(0)
	require.NoError(t, err)
	require.Len(t, snaps, 20)
	seen := make(map[uint64]bool)
	for _, s := range snaps {
		assert.False(t, seen[s.ID], "duplicate id %d", s.ID)
		seen[s.ID] = true
	}
}
