package bench

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/corey/mbench/internal/ports"
	"github.com/google/uuid"
)

// Session owns the per-algorithm outcome history of one benchmarking session.
// Every submission appends a batch; nothing is ever replaced until Reset.
// Safe for concurrent use: batches from overlapping submissions never interleave.
type Session struct {
	clock ports.Clock

	mu      sync.Mutex
	id      string
	started time.Time
	runs    []ports.AlgorithmRun
	history map[ports.Algorithm][]ports.MatchOutcome
	order   []ports.Algorithm // first-recorded order, for tie-breaking
}

// NewSession starts an empty session. A nil clock means the wall clock.
func NewSession(clock ports.Clock) *Session {
	if clock == nil {
		clock = wallClock{}
	}
	s := &Session{clock: clock}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.id = uuid.NewString()
	s.started = s.clock.Now()
	s.runs = nil
	s.history = make(map[ports.Algorithm][]ports.MatchOutcome)
	s.order = nil
}

// ID returns the session identifier. It changes on Reset.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Started returns when the session (or its last reset) began.
func (s *Session) Started() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Record appends one submission's outcomes to alg's history.
// The batch is copied; the caller may reuse its slice.
func (s *Session) Record(alg ports.Algorithm, outcomes []ports.MatchOutcome) {
	batch := make([]ports.MatchOutcome, len(outcomes))
	copy(batch, outcomes)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, ports.AlgorithmRun{
		Algorithm:  alg,
		Outcomes:   batch,
		RecordedAt: s.clock.Now(),
	})
	if len(batch) == 0 {
		return
	}
	if _, seen := s.history[alg]; !seen {
		s.order = append(s.order, alg)
	}
	s.history[alg] = append(s.history[alg], batch...)
}

// Recommend ranks every algorithm with at least one recorded outcome by its
// mean TimeMs over the whole session, rounded to three decimals, fastest
// first. Equal means keep first-recorded order.
func (s *Session) Recommend() ports.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recommendLocked()
}

func (s *Session) recommendLocked() ports.Recommendation {
	ranked := make([]ports.RankedAverage, 0, len(s.order))
	for _, alg := range s.order {
		ranked = append(ranked, ports.RankedAverage{
			Algorithm:  alg,
			MeanTimeMs: round3(meanTime(s.history[alg])),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanTimeMs < ranked[j].MeanTimeMs
	})

	rec := ports.Recommendation{RankedAverages: ranked}
	if len(ranked) > 0 {
		best := ranked[0]
		rec.Best = &best
	}
	return rec
}

// Runs returns a deep copy of every recorded submission in recording order.
func (s *Session) Runs() []ports.AlgorithmRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runsLocked()
}

func (s *Session) runsLocked() []ports.AlgorithmRun {
	out := make([]ports.AlgorithmRun, len(s.runs))
	for i, run := range s.runs {
		out[i] = run
		out[i].Outcomes = append([]ports.MatchOutcome(nil), run.Outcomes...)
	}
	return out
}

// Outcomes returns a copy of alg's accumulated history.
func (s *Session) Outcomes(alg ports.Algorithm) []ports.MatchOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.MatchOutcome(nil), s.history[alg]...)
}

// Reset discards all history and starts a new session with a fresh ID.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func meanTime(outcomes []ports.MatchOutcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	var sum float64
	for _, o := range outcomes {
		sum += o.TimeMs
	}
	return sum / float64(len(outcomes))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
