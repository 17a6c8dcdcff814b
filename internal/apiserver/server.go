// Package apiserver exposes the workflow over HTTP: query submission,
// health and readiness probes, and Prometheus metrics.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plantops/plantquery/internal/agent/workflow"
	"github.com/plantops/plantquery/internal/graph"
	"github.com/plantops/plantquery/internal/logging"
)

// QueryRunner executes one workflow run per query. Implemented by
// workflow.Coordinator.
type QueryRunner interface {
	Run(ctx context.Context, query string) *workflow.RunResult
}

// Server handles HTTP API requests.
type Server struct {
	port        int
	server      *http.Server
	router      *http.ServeMux
	runner      QueryRunner
	graphClient graph.Client
	logger      *logging.Logger
}

// New creates the API server.
func New(port int, runner QueryRunner, graphClient graph.Client) *Server {
	s := &Server{
		port:        port,
		router:      http.NewServeMux(),
		runner:      runner,
		graphClient: graphClient,
		logger:      logging.GetLogger("api"),
	}

	s.registerHandlers()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.corsMiddleware(s.requestIDMiddleware(s.router)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // a workflow run can take several model calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerHandlers() {
	s.router.HandleFunc("/v1/query", s.withMethod(http.MethodPost, s.handleQuery))
	s.router.HandleFunc("/health", s.withMethod(http.MethodGet, s.handleHealth))
	s.router.HandleFunc("/ready", s.withMethod(http.MethodGet, s.handleReady))
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start begins listening for requests. The listener runs in a background
// goroutine; Start returns immediately.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.logger.Info("Starting API server on port %d", s.port)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error: %v", err)
		return err
	}
	s.logger.Info("API server stopped")
	return nil
}

// GetPort returns the port the server is listening on.
func (s *Server) GetPort() int {
	return s.port
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
