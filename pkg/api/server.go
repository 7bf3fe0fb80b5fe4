// Package api exposes the network analyzer over HTTP. The analysis
// core stays pure; this layer owns transport, logging, and metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-netwatch/pkg/config"
	"github.com/dd0wney/cluso-netwatch/pkg/logging"
	"github.com/dd0wney/cluso-netwatch/pkg/metrics"
	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

const version = "1.0.0"

// Server is the HTTP API server. It holds no per-request analysis
// state; every analyze call builds its own graph, so concurrent
// requests need no locking.
type Server struct {
	analysisCfg netgraph.Config
	logger      logging.Logger
	metrics     *metrics.Registry
	startTime   time.Time
	httpServer  *http.Server
}

// NewServer creates an API server from the given configuration.
func NewServer(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) *Server {
	s := &Server{
		analysisCfg: cfg.Analysis,
		logger:      logger.With(logging.Component("api")),
		metrics:     reg,
		startTime:   time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/network/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.metricsMiddleware(s.loggingMiddleware(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("netwatch API server starting",
		logging.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("netwatch API server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
