// Package httpapi serves the AI helper endpoints over HTTP with chi.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/noteflow/internal/aiapi"
	"github.com/dmitrijs2005/noteflow/internal/logging"
	"github.com/dmitrijs2005/noteflow/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	// SecretKey enables bearer auth on the AI routes when non-empty.
	SecretKey      []byte
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the API. /healthz and /metrics are never authenticated.
func NewRouter(svc AIService, cfg RouterConfig, m *metrics.Metrics, l logging.Logger) http.Handler {
	h := &handlers{svc: svc, log: l}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(l, m))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthz)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Group(func(r chi.Router) {
		if len(cfg.SecretKey) > 0 {
			r.Use(bearerAuth(cfg.SecretKey))
		}
		r.Use(rateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

		r.Post(aiapi.SummarizePath, h.summarize)
		r.Post(aiapi.TagsPath, h.tags)
		r.Post(aiapi.TranslatePath, h.translate)
	})

	return r
}
