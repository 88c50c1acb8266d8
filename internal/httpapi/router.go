// Package httpapi wires the HTTP surface of the site host: the static site,
// the health check and the metrics endpoint.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Operational endpoints. Both are excluded from request metrics.
const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

// ExcludedPaths lists the path prefixes that are never instrumented.
var ExcludedPaths = []string{HealthPath, MetricsPath}

// Server wires handlers and middleware using Chi.
type Server struct {
	assets  AssetStore
	metrics *Metrics
	log     *slog.Logger
	rt      *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The metrics collector wraps every route and must be created on the registry
// it exposes; the logger is used by request logging and panic recovery.
func New(assets AssetStore, metrics *Metrics, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	// Instrumentation is outermost so responses written by the recoverer are counted.
	r.Use(metrics.Middleware)
	r.Use(requestID)
	r.Use(requestLogger(logger, metrics.excluded))
	r.Use(recoverer(logger))
	r.Use(securityHeaders)
	r.Use(chimw.GetHead)

	s := &Server{
		assets:  assets,
		metrics: metrics,
		log:     logger,
		rt:      r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the endpoints. Operational routes are registered before the
// static catch-all; chi always prefers the exact matches, and the order here
// keeps that intent visible.
func (s *Server) routes() {
	s.rt.Get(HealthPath, s.health)
	s.rt.Method(http.MethodGet, MetricsPath, s.metrics.Handler())
	s.rt.Get("/*", s.static)
}
