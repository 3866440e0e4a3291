// Package httptransport assembles the chi router: shared middleware, the
// participant routes behind the subject header, the admin routes behind the
// admin token, health checks and the Prometheus scrape endpoint.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"impulsa/internal/platform/health"
	"impulsa/internal/platform/metrics"
	"impulsa/internal/platform/middleware"
)

// Module is a feature handler that mounts participant routes.
type Module interface {
	Register(r chi.Router)
}

// AdminModule is a feature handler that also mounts admin routes.
type AdminModule interface {
	RegisterAdmin(r chi.Router)
}

type Config struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Health         *health.Handler
	AdminToken     string
	RequestTimeout time.Duration
	// MetricsHandler serves /metrics; promhttp.Handler() when nil.
	MetricsHandler http.Handler
}

// NewRouter wires every module. Participant routes require X-User-ID, admin
// routes require X-Admin-Token.
func NewRouter(cfg Config, modules ...Module) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Health checks and scraping stay outside the request timeout.
	r.Handle("/metrics", metricsHandler)
	if cfg.Health != nil {
		cfg.Health.Register(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Use(middleware.ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSubject(logger))
			for _, m := range modules {
				m.Register(r)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminToken(cfg.AdminToken, logger))
			for _, m := range modules {
				if am, ok := m.(AdminModule); ok {
					am.RegisterAdmin(r)
				}
			}
		})
	})

	return r
}
