// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the catalog daemon.
package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/m3ucat/internal/config"
	"github.com/ManuGH/m3ucat/internal/jobs"
)

// Server serves the catalog API. It holds the most recent refresh result and
// swaps it wholesale whenever a refresh completes.
type Server struct {
	mu         sync.RWMutex
	refreshing atomic.Bool
	cfg        config.AppConfig
	result     *jobs.Result
	startTime  time.Time

	// refreshFn allows tests to stub the refresh operation.
	refreshFn func(context.Context, config.AppConfig) (*jobs.Result, error)
}

// New creates a Server for the given configuration.
func New(cfg config.AppConfig) *Server {
	return &Server{
		cfg:       cfg,
		startTime: time.Now(),
		refreshFn: jobs.Refresh,
	}
}

// SetResult replaces the served catalog. Called by the daemon after scheduled
// or watcher-triggered refreshes.
func (s *Server) SetResult(result *jobs.Result) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
}

// SetConfig swaps the active configuration after a hot reload.
func (s *Server) SetConfig(cfg config.AppConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Server) currentResult() *jobs.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Server) currentConfig() config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Handler builds the chi router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	perMinute := s.currentConfig().RateLimitPerMinute

	r := chi.NewRouter()
	r.Use(Recoverer)
	r.Use(RequestID)
	r.Use(AccessLog)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(perMinute, time.Minute))
		r.Get("/status", s.handleStatus)
		r.Get("/items", s.handleItems)
		r.Get("/series", s.handleSeries)
		r.Get("/series/{key}", s.handleSeriesByKey)
		r.With(RefreshRateLimit()).Post("/refresh", s.handleRefresh)
	})

	return r
}
