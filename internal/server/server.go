package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/taskpanel/internal/config"
	"github.com/me/taskpanel/internal/details"
	"github.com/me/taskpanel/internal/logging"
	"github.com/me/taskpanel/internal/store"
	"github.com/me/taskpanel/internal/ui"
)

// Server is the task panel REST API and HTML server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	builder   *details.Builder
	details   *details.Service
	ui        *ui.UI
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithBuilder replaces the default panel builder, e.g. to pin its clock in tests.
func WithBuilder(b *details.Builder) Option {
	return func(s *Server) {
		s.builder = b
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logging.Component(logger, "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		s.builder = details.NewBuilder(logger)
	}
	s.details = details.NewService(st, s.builder)
	s.ui = ui.New(s.details, logger)

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)

	// API routes (JSON)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Route("/{tid}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Get("/runs/{rid}/details", s.handleGetDetails)
			})
		})

		r.Post("/tally", s.handleTally)
	})
}
