// Package server provides the HTTP server and routing for the dashboard API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/di"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/analytics"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/ingest"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/targets"
)

// Config holds server configuration
type Config struct {
	Port      int
	Log       zerolog.Logger
	Container *di.Container
	DevMode   bool
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	container *di.Container
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		container: cfg.Container,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// The chart frontend is served from a different origin in development
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes(cfg Config) {
	c := s.container

	ingestHandler := ingest.NewHandler(c.IngestService, c.RunRepo, cfg.Log)
	fraudIngestHandler := ingest.NewHandler(c.FraudIngestService, c.RunRepo, cfg.Log)
	analyticsHandler := analytics.NewHandler(c.AnalyticsService, c.Snapshots, c.IngestService, cfg.Log)
	fraudAnalyticsHandler := analytics.NewHandler(c.FraudAnalyticsService, c.FraudSnapshots, c.FraudIngestService, cfg.Log)
	targetsHandler := targets.NewHandler(c.TargetsRepo, cfg.Log)
	systemHandlers := NewSystemHandlers(c.PortfolioDB, c.LedgerDB, cfg.Log)

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		ingestHandler.RegisterRoutes(r)
		analyticsHandler.RegisterRoutes(r)
		targetsHandler.RegisterRoutes(r)

		// The fraud-screened feed gets the same query surface under its
		// own prefix, backed by its own snapshot and sync cycle
		r.Route("/fraud", func(r chi.Router) {
			fraudIngestHandler.RegisterRoutes(r)
			fraudAnalyticsHandler.RegisterRoutes(r)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandlers.HandleStatus)
		})
	})
}

// handleHealth is the liveness probe: process up and databases reachable
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, db := range []interface {
		QuickCheck(ctx context.Context) error
		Name() string
	}{s.container.PortfolioDB, s.container.LedgerDB} {
		if err := db.QuickCheck(ctx); err != nil {
			s.log.Error().Err(err).Str("database", db.Name()).Msg("Health check failed")
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the chi router, used by handler tests
func (s *Server) Router() *chi.Mux {
	return s.router
}
