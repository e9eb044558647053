package ports

import "time"

// NotFound is the Index of an outcome whose pattern does not occur in the text.
const NotFound = -1

// Searcher locates the first occurrence of pattern in text.
//
// Index is a rune offset, or NotFound. Comparisons counts character equality
// tests between a text rune and a pattern rune; preprocessing (failure and
// bad-character tables) is never charged.
type Searcher interface {
	Search(text, pattern []rune) (index, comparisons int)
}

// Verifier independently computes the first-occurrence index of pattern in text.
// Used to cross-check Searcher results; it does not count comparisons.
type Verifier interface {
	FirstIndex(text, pattern string) int
}

// Clock supplies wall-clock readings to the benchmark runner.
type Clock interface {
	Now() time.Time
}

// MatchRequest is one client submission.
type MatchRequest struct {
	Text          string    `json:"text"`
	Patterns      []string  `json:"patterns"`
	Algorithm     Algorithm `json:"algorithm"`
	CaseSensitive bool      `json:"case_sensitive"`
}

// MatchOutcome is the result of searching one pattern.
type MatchOutcome struct {
	Pattern     string  `json:"pattern"` // as submitted, before case folding
	Index       int     `json:"index"`
	Comparisons int     `json:"comparisons"`
	TimeMs      float64 `json:"time_ms"`
}

// Found reports whether the pattern occurred in the text.
func (o MatchOutcome) Found() bool {
	return o.Index != NotFound
}

// AlgorithmRun is the batch of outcomes recorded for one submission.
type AlgorithmRun struct {
	Algorithm  Algorithm      `json:"algorithm"`
	Outcomes   []MatchOutcome `json:"outcomes"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// RankedAverage is one algorithm's mean search time over session history.
type RankedAverage struct {
	Algorithm  Algorithm `json:"algorithm"`
	MeanTimeMs float64   `json:"mean_time_ms"`
}

// Recommendation ranks algorithms by mean search time, fastest first.
// Best is nil when no outcome has been recorded.
type Recommendation struct {
	RankedAverages []RankedAverage `json:"ranked_averages"`
	Best           *RankedAverage  `json:"best"`
}

// MetricsSink observes recorded runs. Implementations must be safe for
// concurrent use.
type MetricsSink interface {
	ObserveRun(alg Algorithm, outcomes []MatchOutcome)
}
