package web

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corey/mbench/internal/adapters/socket"
	"github.com/corey/mbench/internal/ports"
	"github.com/gin-gonic/gin"
)

// Server serves the JSON API over HTTP.
type Server struct {
	svc      socket.Service
	metrics  http.Handler
	logger   *slog.Logger
	listener net.Listener
	httpSrv  *http.Server
	port     int
	stopOnce sync.Once

	portFilePath string // .mbench/run/http.port
}

// NewServer creates an HTTP server over svc. metrics, when non-nil, is
// mounted at /metrics. The portFilePath is where the bound port is written
// for discovery.
func NewServer(svc socket.Service, metrics http.Handler, portFilePath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		svc:          svc,
		metrics:      metrics,
		logger:       logger,
		portFilePath: portFilePath,
	}
}

// DefaultPort computes a project-specific port: 20000 + (hash(abs_path) % 1000).
func DefaultPort(projectRoot string) int {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	// Use first 4 bytes as uint32
	n := uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
	return 20000 + int(n%1000)
}

// Start begins listening on the preferred port (0 picks a free one) and
// writes the bound port to the port file.
func (s *Server) Start(preferredPort int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", preferredPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(fmt.Sprintf("%d", s.port)), 0644); err != nil {
			s.logger.Warn("write port file", "path", s.portFilePath, "error", err)
		}
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
	s.logger.Info("http api listening", "url", s.URL())
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(ctx)
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the API base URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Handler builds the gin engine with every route mounted.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors())

	r.POST("/match", s.handleMatch)
	r.GET("/recommendation", s.handleRecommendation)
	r.GET("/report", s.handleReport)
	r.POST("/reset", s.handleReset)
	r.GET("/api/health", s.handleHealth)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}
	return r
}

// matchBody is the POST /match payload. Pointer fields distinguish an
// omitted value from its zero value.
type matchBody struct {
	Text          *string  `json:"text"`
	Patterns      []string `json:"patterns"`
	Algorithm     *string  `json:"algorithm"`
	CaseSensitive *bool    `json:"case_sensitive"`
}

func (s *Server) handleMatch(c *gin.Context) {
	var body matchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if body.Text == nil || body.Patterns == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text and patterns are required"})
		return
	}

	alg := ports.Greedy
	if body.Algorithm != nil {
		parsed, err := ports.ParseAlgorithm(*body.Algorithm)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		alg = parsed
	}
	caseSensitive := true
	if body.CaseSensitive != nil {
		caseSensitive = *body.CaseSensitive
	}

	outcomes, err := s.svc.MatchBenchmark(c.Request.Context(), ports.MatchRequest{
		Text:          *body.Text,
		Patterns:      body.Patterns,
		Algorithm:     alg,
		CaseSensitive: caseSensitive,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ports.ErrInvalidAlgorithm) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if outcomes == nil {
		outcomes = []ports.MatchOutcome{}
	}
	c.JSON(http.StatusOK, outcomes)
}

func (s *Server) handleRecommendation(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.GetRecommendation())
}

func (s *Server) handleReport(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Report())
}

func (s *Server) handleReset(c *gin.Context) {
	s.svc.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (s *Server) handleHealth(c *gin.Context) {
	health := s.svc.Health()
	if health.HTTPURL == "" && s.port != 0 {
		health.HTTPURL = s.URL()
	}
	c.JSON(http.StatusOK, health)
}

// cors allows every origin, method and header.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
