// Package ops serves the operational endpoints on a listener separate from
// the dashboard: Prometheus metrics, a readiness check and pprof.
package ops

import (
	"net/http"
	"time"

	"penguinexplorer/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Readiness reports whether the dataset is in memory
type Readiness interface {
	Loaded() bool
}

// Server is the ops HTTP surface
type Server struct {
	router *chi.Mux
	ready  Readiness
	logger *internal.Logger
}

// NewServer builds the router. registry is exposed on /metrics.
func NewServer(registry *prometheus.Registry, ready Readiness, logger *internal.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		ready:  ready,
		logger: logger,
	}
	s.setupMiddleware()
	s.setupRoutes(registry)
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes(registry *prometheus.Registry) {
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		Registry: registry,
	}))
	s.router.Get("/healthz", s.handleHealth)
	s.router.Mount("/debug", middleware.Profiler())
}

type healthResponse struct {
	Status string `json:"status"`
	Loaded bool   `json:"dataset_loaded"`
}

// handleHealth is 200 once the dataset is loaded, 503 before or after a
// failed load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded := s.ready != nil && s.ready.Loaded()
	resp := healthResponse{Status: "ok", Loaded: loaded}
	if !loaded {
		resp.Status = "unavailable"
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the router in a server listening on addr
func (s *Server) HTTPServer(addr string) *http.Server {
	s.logger.Info("[Ops] Serving /metrics, /healthz and /debug on %s", addr)
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
