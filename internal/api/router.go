// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neighborly-labs/feedengine/internal/middleware"
)

// RouterConfig holds the middleware knobs for the HTTP surface.
type RouterConfig struct {
	// CORSAllowedOrigins is empty by default, requiring explicit
	// configuration before browsers may call the API cross-origin.
	CORSAllowedOrigins []string

	// RateLimitRequests per RateLimitWindow per client IP.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultRouterConfig returns secure defaults.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		CORSAllowedOrigins: []string{},
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
	}
}

// Router wires handlers and middleware into one http.Handler.
type Router struct {
	handler *Handler
	config  *RouterConfig
}

// NewRouter creates a router over the given handler.
func NewRouter(handler *Handler, config *RouterConfig) *Router {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &Router{handler: handler, config: config}
}

// rateLimit returns an IP-keyed limiter, or a no-op when disabled.
func (rt *Router) rateLimit() func(http.Handler) http.Handler {
	if rt.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		rt.config.RateLimitRequests,
		rt.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}

// Setup configures all HTTP routes.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.rateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/feed", rt.handler.Feed)
		r.Get("/trending", rt.handler.Trending)
		r.Get("/recommendations", rt.handler.Recommendations)
		r.Get("/digest", rt.handler.Digest)
		r.Post("/engagement", rt.handler.Engagement)
		r.Get("/interests", rt.handler.GetInterests)
		r.Put("/interests", rt.handler.PutInterests)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}
