package ports

import "time"

// SnapshotStore archives recommendation snapshots to durable storage.
// Snapshots carry timing aggregates only: no text and no pattern strings.
// Writes are serialized by the adapter; a crash mid-write must not corrupt
// previously committed snapshots.
type SnapshotStore interface {
	// SaveSnapshot assigns s.ID and persists it.
	SaveSnapshot(s *Snapshot) error

	// ListSnapshots returns up to limit snapshots, newest first.
	// limit <= 0 returns all of them.
	ListSnapshots(limit int) ([]*Snapshot, error)

	// DeleteAll removes every snapshot. Idempotent.
	DeleteAll() error
}

// Snapshot is an archived recommendation plus per-algorithm aggregates.
type Snapshot struct {
	ID             uint64             `json:"id"`
	SessionID      string             `json:"session_id"`
	TakenAt        time.Time          `json:"taken_at"`
	Summaries      []AlgorithmSummary `json:"summaries"`
	Recommendation Recommendation     `json:"recommendation"`
}

// AlgorithmSummary aggregates one algorithm's session history.
type AlgorithmSummary struct {
	Algorithm        Algorithm `json:"algorithm"`
	Runs             int       `json:"runs"`
	Outcomes         int       `json:"outcomes"`
	Found            int       `json:"found"`
	MeanTimeMs       float64   `json:"mean_time_ms"`
	MeanComparisons  float64   `json:"mean_comparisons"`
	TotalComparisons int       `json:"total_comparisons"`
}
