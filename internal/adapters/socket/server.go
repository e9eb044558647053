package socket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/corey/mbench/internal/ports"
)

// Server is the daemon that listens on a Unix socket and serves benchmark requests.
type Server struct {
	svc      Service
	logger   *slog.Logger
	listener net.Listener
	sockPath string

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by svc. A nil logger discards logs.
func NewServer(svc Service, sockPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		svc:        svc,
		logger:     logger,
		sockPath:   sockPath,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. A leftover socket file is probed
// first; if nothing answers it is removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		// Stale socket, remove it
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and removing the socket file.
// Idempotent: a remote shutdown followed by a signal calls it twice.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener == nil {
			return
		}
		s.listener.Close()
		s.wg.Wait()
		os.Remove(s.sockPath)
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodMatch:
		return s.handleMatch(req)
	case MethodRecommend:
		return Response{ID: req.ID, Result: s.svc.GetRecommendation()}
	case MethodReport:
		return Response{ID: req.ID, Result: s.svc.Report()}
	case MethodReset:
		s.svc.Reset()
		return Response{ID: req.ID, Result: struct{}{}}
	case MethodSnapshot:
		return s.handleSnapshot(req)
	case MethodSnapshots:
		return s.handleSnapshots(req)
	case MethodHealth:
		return Response{ID: req.ID, Result: s.svc.Health()}
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleMatch(req Request) Response {
	var params MatchParams
	if err := decode(req.Params, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid match params"}
	}

	alg, err := ports.ParseAlgorithm(params.Algorithm)
	if err != nil {
		s.logger.Warn("rejected match request", "algorithm", params.Algorithm)
		return Response{ID: req.ID, Error: err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	start := time.Now()
	outcomes, err := s.svc.MatchBenchmark(ctx, ports.MatchRequest{
		Text:          params.Text,
		Patterns:      params.Patterns,
		Algorithm:     alg,
		CaseSensitive: params.CaseSensitive,
	})
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("match failed", "algorithm", alg, "error", err)
		return Response{ID: req.ID, Error: err.Error()}
	}
	s.logger.Debug("match served", "algorithm", alg, "patterns", len(outcomes), "elapsed", elapsed)

	return Response{
		ID: req.ID,
		Result: MatchResult{
			Algorithm: alg,
			Outcomes:  outcomes,
			Elapsed:   elapsed.String(),
		},
	}
}

func (s *Server) handleSnapshot(req Request) Response {
	snap, err := s.svc.SaveSnapshot()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: snap}
}

func (s *Server) handleSnapshots(req Request) Response {
	var params SnapshotsParams
	if req.Params != nil {
		if err := decode(req.Params, &params); err != nil {
			return Response{ID: req.ID, Error: "invalid snapshots params"}
		}
	}
	snaps, err := s.svc.Snapshots(params.Limit)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: SnapshotsResult{Snapshots: snaps, Count: len(snaps)}}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("marshal response", "id", resp.ID, "error", err)
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}

// decode re-marshals a loosely typed value (params or result as decoded by
// encoding/json) into a concrete type.
func decode(v interface{}, out interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
