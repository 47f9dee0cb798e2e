// Package server exposes the screening pipeline over HTTP: one endpoint
// to build a form from a journey row, one to receive submission
// callbacks, plus health and metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hiring-screener/internal/common/config"
	"hiring-screener/internal/common/errors"
	"hiring-screener/internal/common/logger"
)

type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

func New(cfg config.ServerConfig, handlers *Handlers, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-form", handlers.GenerateForm)
	mux.HandleFunc("/process-submission", handlers.ProcessSubmission)
	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: log.With(map[string]interface{}{"component": "server"}),
	}
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.NewRemoteError("http", err.Error())
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}
