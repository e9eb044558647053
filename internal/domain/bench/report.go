package bench

import (
	"time"

	"github.com/corey/mbench/internal/ports"
)

// Report is an immutable snapshot of a session, handed to renderers and exporters.
type Report struct {
	SessionID      string                   `json:"session_id"`
	StartedAt      time.Time                `json:"started_at"`
	GeneratedAt    time.Time                `json:"generated_at"`
	Runs           []ports.AlgorithmRun     `json:"runs"`
	Summaries      []ports.AlgorithmSummary `json:"summaries"`
	Recommendation ports.Recommendation     `json:"recommendation"`
}

// Report builds a Report from the session's current state.
func (s *Session) Report() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := s.runsLocked()
	return &Report{
		SessionID:      s.id,
		StartedAt:      s.started,
		GeneratedAt:    s.clock.Now(),
		Runs:           runs,
		Summaries:      Summarize(runs, s.order),
		Recommendation: s.recommendLocked(),
	}
}

// Snapshot converts the report into its archivable form, dropping every
// pattern string.
func (r *Report) Snapshot() *ports.Snapshot {
	return &ports.Snapshot{
		SessionID:      r.SessionID,
		TakenAt:        r.GeneratedAt,
		Summaries:      append([]ports.AlgorithmSummary(nil), r.Summaries...),
		Recommendation: r.Recommendation,
	}
}

// Summarize aggregates runs per algorithm. Algorithms appear in the given
// order; algorithms with runs but no outcomes follow, in run order.
func Summarize(runs []ports.AlgorithmRun, order []ports.Algorithm) []ports.AlgorithmSummary {
	byAlg := make(map[ports.Algorithm]*ports.AlgorithmSummary)
	times := make(map[ports.Algorithm]float64)
	seq := append([]ports.Algorithm(nil), order...)
	for _, alg := range order {
		byAlg[alg] = &ports.AlgorithmSummary{Algorithm: alg}
	}

	for _, run := range runs {
		sum, ok := byAlg[run.Algorithm]
		if !ok {
			sum = &ports.AlgorithmSummary{Algorithm: run.Algorithm}
			byAlg[run.Algorithm] = sum
			seq = append(seq, run.Algorithm)
		}
		sum.Runs++
		for _, o := range run.Outcomes {
			sum.Outcomes++
			sum.TotalComparisons += o.Comparisons
			times[run.Algorithm] += o.TimeMs
			if o.Found() {
				sum.Found++
			}
		}
	}

	out := make([]ports.AlgorithmSummary, 0, len(seq))
	for _, alg := range seq {
		sum := byAlg[alg]
		if sum.Outcomes > 0 {
			sum.MeanTimeMs = round3(times[alg] / float64(sum.Outcomes))
			sum.MeanComparisons = round3(float64(sum.TotalComparisons) / float64(sum.Outcomes))
		}
		out = append(out, *sum)
	}
	return out
}
