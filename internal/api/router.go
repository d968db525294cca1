// Soundrift - Session-Aware Music Recommendation API
// Copyright 2026 Soundrift Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/soundriftlabs/soundrift

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soundriftlabs/soundrift/internal/middleware"
)

// RouterConfig holds transport-level settings for the router.
type RouterConfig struct {
	// CORSOrigins lists allowed origins. Empty allows any origin; the API
	// serves public, non-sensitive data and browser clients call it from
	// arbitrary pages.
	CORSOrigins []string

	// RateLimitReqs is the per-IP request budget per window. Zero disables
	// rate limiting.
	RateLimitReqs   int
	RateLimitWindow time.Duration
}

// health endpoints get a permissive limit so monitoring never trips it.
var healthRateLimit = struct {
	requests int
	window   time.Duration
}{1000, time.Minute}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Use(httprate.LimitByIP(healthRateLimit.requests, healthRateLimit.window))
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			if cfg.RateLimitReqs > 0 {
				r.Use(httprate.Limit(
					cfg.RateLimitReqs,
					cfg.RateLimitWindow,
					httprate.WithKeyFuncs(httprate.KeyByIP),
				))
			}
			r.Use(middleware.PrometheusMetrics)
			r.Use(middleware.Compression)

			r.Get("/mood/{mood}", h.Mood)
			r.Get("/search", h.Search)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
