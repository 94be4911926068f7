package httpapi

import (
	"net/http"
	"time"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP control surface: a chi router bound to an engine and
// a registry. Routes match spec.md §6 exactly.
type Server struct {
	engine   *engine.Engine
	registry *registry.Registry
	logger   *log.Logger
	router   chi.Router
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithLogger attaches a charmbracelet/log Logger for request logging.
// When nil the server operates silently (besides chi's own Recoverer).
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New builds a Server wired to eng and reg, with routes mounted.
func New(eng *engine.Engine, reg *registry.Registry, opts ...Option) *Server {
	s := &Server{engine: eng, registry: reg}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)
	r.Get("/workflows", s.listWorkflows)
	r.Get("/workflows/available", s.listAvailableWorkflows)
	r.Post("/workflows/start/{name}", s.startWorkflow)
	r.Post("/workflows/stop-all", s.stopAllWorkflows)
	r.Post("/workflows/cleanup", s.cleanupWorkflows)
	r.Get("/workflows/{id}", s.getWorkflow)
	r.Post("/workflows/{id}/stop", s.stopWorkflow)

	s.router = r
	return s
}

// Router returns the configured http.Handler, ready to be served.
func (s *Server) Router() http.Handler {
	return s.router
}

// requestLogger is chi middleware logging method, path, status, and
// duration through internal/logging's charmbracelet/log Logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
