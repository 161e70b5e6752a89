package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/bgmovegen/pkg/engine"
	"github.com/yourusername/bgmovegen/pkg/external"
)

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	engine   *engine.Engine
	handlers *Handlers
	server   *http.Server
	external *external.Server
	pool     *WorkerPool
	version  string
	log      zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(e *engine.Engine, config ServerConfig, version string, logger zerolog.Logger) *Server {
	pool := NewWorkerPool(PoolConfig{
		MaxMoveWorkers:     config.MaxMoveWorkers,
		MaxSelfPlayWorkers: config.MaxSelfPlayWorkers,
	})
	log := logger.With().Str("component", "api").Logger()
	handlers := NewHandlers(e, version,
		WithPool(pool),
		WithLogger(log),
		WithMaxTurns(config.MaxTurns),
	)

	s := &Server{
		config:   config,
		engine:   e,
		handlers: handlers,
		pool:     pool,
		version:  version,
		log:      log,
	}
	if config.ExternalPort > 0 {
		opts := external.DefaultServerOptions()
		opts.Port = config.ExternalPort
		s.external = external.NewServer(e, opts, logger)
	}
	return s
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging. It passes
// Flush and Hijack through so SSE and WebSocket keep working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	return h.Hijack()
}

// loggingMiddleware logs all requests.
func loggingMiddleware(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// Handler returns the routed API handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handlers.Health)
	mux.HandleFunc("GET /api/initial", s.handlers.Initial)
	mux.HandleFunc("POST /api/validate", s.handlers.Validate)
	mux.HandleFunc("POST /api/moves", s.handlers.Moves)
	mux.HandleFunc("POST /api/fibsboard", s.handlers.FIBSBoard)
	mux.HandleFunc("GET /api/selfplay/stream", s.handlers.SelfPlaySSE)
	mux.HandleFunc("/api/ws", s.handlers.WebSocket)

	return corsMiddleware(loggingMiddleware(s.log, mux))
}

// Start starts the HTTP server, and the external protocol server when an
// external port is configured.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	if s.external != nil {
		if err := s.external.Start(); err != nil {
			return err
		}
	}

	s.log.Info().Str("version", s.version).Str("addr", addr).Msg("starting move generator API server")
	s.log.Info().Strs("endpoints", []string{
		"GET  /api/health",
		"GET  /api/initial",
		"POST /api/validate",
		"POST /api/moves",
		"POST /api/fibsboard",
		"GET  /api/selfplay/stream",
		"WS   /api/ws",
	}).Msg("routes")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var extErr error
	if s.external != nil {
		extErr = s.external.Stop()
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return extErr
}

// ListenAndServeWithGracefulShutdown starts the server and handles shutdown signals.
func (s *Server) ListenAndServeWithGracefulShutdown() error {
	errChan := make(chan error, 1)

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.engine.LogStats()
	s.log.Info().Msg("server stopped gracefully")
	return nil
}
