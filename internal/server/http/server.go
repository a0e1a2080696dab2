// Package httpserver provides the HTTP REST API server for the researcher
// discovery service.
package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/scholarlens/discovery-service/internal/discovery"
	"github.com/scholarlens/discovery-service/internal/domain"
	"github.com/scholarlens/discovery-service/internal/interest"
	"github.com/scholarlens/discovery-service/internal/store"
)

// DiscoveryService defines the pipeline operations used by the HTTP server.
type DiscoveryService interface {
	BuildInterestProfile(text string, interests []string) domain.InterestProfile
	RefineInterests(ctx context.Context, pctx interest.ProviderContext, profile domain.InterestProfile) ([]string, error)
	AskQuestions(ctx context.Context, pctx interest.ProviderContext, text string) string
	DraftEmail(ctx context.Context, pctx interest.ProviderContext, researcherName string, topics []string) string
	DiscoverAndRank(ctx context.Context, params discovery.DiscoverParams) ([]*domain.ResearcherProfile, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	MetricsPath     string
}

// Server is the HTTP REST API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	svc        DiscoveryService
	store      store.Store
	validate   *validator.Validate
	cfg        Config
	logger     zerolog.Logger
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(cfg Config, svc DiscoveryService, st store.Store, logger zerolog.Logger) *Server {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	s := &Server{
		svc:      svc,
		store:    st,
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger.With().Str("component", "http-server").Logger(),
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogMiddleware)

	// Health endpoint
	r.Get("/healthz", s.healthHandler)

	if s.cfg.MetricsEnabled {
		r.Method(http.MethodGet, s.cfg.MetricsPath, promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		r.Post("/interests", s.createInterestProfile)
		r.Post("/discoveries", s.runDiscovery)
		r.Get("/discoveries/{sessionID}", s.getDiscoveryResults)
		r.Post("/email-drafts", s.draftEmail)
		r.Get("/sessions", s.listSessions)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
