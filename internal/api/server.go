// Package api implements the HTTP surface of the assessment console. Each
// operator session is one page's worth of state: a session, a feed, a gauge
// and the two orchestrators. Handlers are methods on *Server; each handler
// file covers one resource group.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyashahama/dengue-assessment-console/internal/db"
	"github.com/nyashahama/dengue-assessment-console/internal/orchestrator"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string

	// SessionIdleTTL is how long an untouched operator session survives.
	SessionIdleTTL time.Duration

	// RequestTimeout bounds each remote call; handlers get a little more.
	RequestTimeout time.Duration

	// FollowUpDelay is the pause before the detailed recommendations request.
	FollowUpDelay time.Duration
}

// CaseLister reads the case archive. *store.Store implements it.
type CaseLister interface {
	RecentCases(ctx context.Context, limit int) ([]db.Case, error)
}

// Server holds all shared dependencies.
type Server struct {
	sessions *registry

	// cases is nil when no archive is configured.
	cases CaseLister

	cfg    Config
	logger *slog.Logger
	router http.Handler
}

// NewServer constructs the Server and wires the chi router. cases may be nil.
func NewServer(deps Deps, cases CaseLister, cfg Config, logger *slog.Logger) *Server {
	if cfg.SessionIdleTTL <= 0 {
		cfg.SessionIdleTTL = 30 * time.Minute
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 90 * time.Second
	}

	s := &Server{
		sessions: newRegistry(deps, orchestrator.PredictionConfig{
			FollowUpDelay:   cfg.FollowUpDelay,
			FollowUpTimeout: cfg.RequestTimeout,
		}, cfg.SessionIdleTTL, logger),
		cases:  cases,
		cfg:    cfg,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RunJanitor evicts idle operator sessions until ctx is cancelled. Call it in
// a goroutine from main.
func (s *Server) RunJanitor(ctx context.Context) {
	interval := s.cfg.SessionIdleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	s.sessions.janitor(ctx, interval)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout + 10*time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {

		// Reference data for the form selectors.
		r.Get("/districts", s.handleListDistricts)
		r.Get("/areas", s.handleListAreas)

		r.Post("/session", s.handleCreateSession)

		r.Route("/session/{sessionID}", func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/assessment", s.handleSubmitAssessment)
			r.Post("/chat", s.handleChat)
			r.Get("/gauge.svg", s.handleGauge)
		})

		r.Get("/cases", s.handleListCases)
	})

	return r
}
