// Package httpapi is a driving adapter: it exposes the order use cases over
// HTTP with JSON bodies.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/hexa/pkg/core"
)

// Config configures the HTTP adapter.
type Config struct {
	Logger *slog.Logger
	// RequestLimit caps requests per Window and client IP. Zero disables limiting.
	RequestLimit int
	Window       time.Duration
	// Registry receives the HTTP metrics. A private registry is created when nil.
	Registry *prometheus.Registry
}

// Server routes HTTP requests to a core.Service.
type Server struct {
	svc      *core.Service
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	router   chi.Router
}

// New builds the router.
func New(svc *core.Service, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	s := &Server{
		svc:      svc,
		logger:   logger,
		registry: reg,
		metrics:  newMetrics(reg),
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimw.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if cfg.RequestLimit > 0 {
			r.Use(RateLimit(cfg.RequestLimit, cfg.Window))
		}
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handlePlace)
			r.Post("/quick", s.handleQuick)
			r.Get("/{id}", s.handleGet)
			r.Delete("/{id}", s.handleDelete)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
