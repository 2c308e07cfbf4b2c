// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/animerec/internal/auth"
	"github.com/tomtom215/animerec/internal/middleware"
)

// Router wires the handlers into a Chi router.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiConfig selects the defaults.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, chiConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		chiMiddleware: NewChiMiddleware(chiConfig),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Get("/health/live", router.handler.HealthLive)
	r.Get("/health/ready", router.handler.HealthReady)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.Compression)

		r.Route("/recommendations", func(r chi.Router) {
			r.With(router.auth.OptionalAuth).Get("/", router.handler.Recommendations)
			r.Get("/popular", router.handler.Popular)
			r.Get("/similar/{itemID}", router.handler.Similar)
			r.With(router.auth.RequireAuth).Post("/{itemID}/click", router.handler.Click)
		})

		r.With(router.auth.RequireAuth).Post("/interactions", router.handler.RecordInteraction)
		r.Get("/items/{itemID}", router.handler.Item)
	})

	return r
}
