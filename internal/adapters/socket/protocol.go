// Package socket implements a JSON-over-Unix-socket protocol for the mbench daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
// The daemon owns the benchmarking session; every client submission is appended
// to that session's history.
package socket

import (
	"context"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"time"

	"github.com/corey/mbench/internal/domain/bench"
	"github.com/corey/mbench/internal/ports"
)

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/mbench-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/mbench-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodMatch     = "match"
	MethodRecommend = "recommend"
	MethodReport    = "report"
	MethodReset     = "reset"
	MethodSnapshot  = "snapshot"
	MethodSnapshots = "snapshots"
	MethodHealth    = "health"
	MethodShutdown  = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// MatchParams is the params for a match request. Algorithm travels as its
// wire name so an unknown selector reaches the daemon and is rejected there.
type MatchParams struct {
	Text          string   `json:"text"`
	Patterns      []string `json:"patterns"`
	Algorithm     string   `json:"algorithm"`
	CaseSensitive bool     `json:"case_sensitive"`
}

// MatchResult is the result of a match request.
type MatchResult struct {
	Algorithm ports.Algorithm      `json:"algorithm"`
	Outcomes  []ports.MatchOutcome `json:"outcomes"`
	Elapsed   string               `json:"elapsed"`
}

// SnapshotsParams is the params for a snapshots request.
type SnapshotsParams struct {
	Limit int `json:"limit"`
}

// SnapshotsResult is the result of a snapshots request.
type SnapshotsResult struct {
	Snapshots []*ports.Snapshot `json:"snapshots"`
	Count     int               `json:"count"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Runs      int    `json:"runs"`
	Uptime    string `json:"uptime"`
	HTTPURL   string `json:"http_url,omitempty"`
}

// Service is what the daemon exposes over the socket.
// Thread safety is the implementor's responsibility.
type Service interface {
	MatchBenchmark(ctx context.Context, req ports.MatchRequest) ([]ports.MatchOutcome, error)
	GetRecommendation() ports.Recommendation
	Report() *bench.Report
	Reset()
	SaveSnapshot() (*ports.Snapshot, error)
	Snapshots(limit int) ([]*ports.Snapshot, error)
	Health() HealthResult
}

const (
	// maxMessage caps one newline-delimited message in either direction.
	maxMessage = 16 * 1024 * 1024

	// requestTimeout bounds how long a single match may take on the daemon side.
	requestTimeout = 30 * time.Second
)
