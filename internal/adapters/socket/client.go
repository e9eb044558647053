package socket

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/corey/mbench/internal/domain/bench"
	"github.com/corey/mbench/internal/ports"
)

// Client connects to the mbench daemon over a Unix socket.
type Client struct {
	sockPath string
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// Match submits a batch to the daemon session and returns its outcomes.
// Matching runs remotely, so the request gets the daemon's full time budget.
func (c *Client) Match(params MatchParams) (*MatchResult, error) {
	resp, err := c.callWithTimeout(Request{
		ID:     "match",
		Method: MethodMatch,
		Params: params,
	}, requestTimeout+5*time.Second)
	if err != nil {
		return nil, err
	}
	var result MatchResult
	if err := decode(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Recommend fetches the daemon session's current recommendation.
func (c *Client) Recommend() (*ports.Recommendation, error) {
	resp, err := c.call(Request{ID: "recommend", Method: MethodRecommend})
	if err != nil {
		return nil, err
	}
	var result ports.Recommendation
	if err := decode(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Report fetches the daemon session's full report.
func (c *Client) Report() (*bench.Report, error) {
	resp, err := c.call(Request{ID: "report", Method: MethodReport})
	if err != nil {
		return nil, err
	}
	var result bench.Report
	if err := decode(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Reset clears the daemon session's history.
func (c *Client) Reset() error {
	_, err := c.call(Request{ID: "reset", Method: MethodReset})
	return err
}

// Snapshot asks the daemon to archive its current recommendation.
func (c *Client) Snapshot() (*ports.Snapshot, error) {
	resp, err := c.call(Request{ID: "snapshot", Method: MethodSnapshot})
	if err != nil {
		return nil, err
	}
	var result ports.Snapshot
	if err := decode(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Snapshots lists archived snapshots, newest first. limit <= 0 returns all.
func (c *Client) Snapshots(limit int) (*SnapshotsResult, error) {
	resp, err := c.call(Request{
		ID:     "snapshots",
		Method: MethodSnapshots,
		Params: SnapshotsParams{Limit: limit},
	})
	if err != nil {
		return nil, err
	}
	var result SnapshotsResult
	if err := decode(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Health sends a health check request.
func (c *Client) Health() (*HealthResult, error) {
	resp, err := c.call(Request{ID: "health", Method: MethodHealth})
	if err != nil {
		return nil, err
	}
	var result HealthResult
	if err := decode(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	_, err := c.call(Request{ID: "shutdown", Method: MethodShutdown})
	return err
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (c *Client) call(req Request) (*Response, error) {
	return c.callWithTimeout(req, 5*time.Second)
}

func (c *Client) callWithTimeout(req Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, fmt.Errorf("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, serverError(resp.Error)
	}
	return &resp, nil
}

// serverError turns a remote error string back into an error, restoring the
// sentinel for rejected algorithm selectors so callers can still match it.
func serverError(msg string) error {
	if rest, ok := strings.CutPrefix(msg, ports.ErrInvalidAlgorithm.Error()); ok {
		return fmt.Errorf("%w%s", ports.ErrInvalidAlgorithm, rest)
	}
	return errors.New("server error: " + msg)
}
