// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/animerec/internal/auth"
	"github.com/tomtom215/animerec/internal/middleware"
)

// ChiMiddlewareConfig tunes the CORS and rate limiting layers of the router.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	// RateLimitRequests is the per-IP budget for each RateLimitWindow on
	// /api/v1. Health and metrics routes are never limited.
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// DefaultChiMiddlewareConfig allows no cross-origin callers until origins
// are configured, and 120 API requests per minute per client IP.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader, auth.DevUserHeader},
		CORSExposedHeaders: []string{middleware.RequestIDHeader},
		CORSMaxAge:         86400,

		RateLimitRequests: 120,
		RateLimitWindow:   time.Minute,
	}
}

func (c *ChiMiddlewareConfig) corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   c.CORSAllowedOrigins,
		AllowedMethods:   c.CORSAllowedMethods,
		AllowedHeaders:   c.CORSAllowedHeaders,
		ExposedHeaders:   c.CORSExposedHeaders,
		AllowCredentials: c.CORSAllowCredentials,
		MaxAge:           c.CORSMaxAge,
	}
}

// ChiMiddleware holds the CORS and rate limit handlers built once from a
// ChiMiddlewareConfig, so every route group shares the same limiter state.
type ChiMiddleware struct {
	cors  func(http.Handler) http.Handler
	limit func(http.Handler) http.Handler
}

// NewChiMiddleware builds the middleware set. A nil config selects the defaults.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	m := &ChiMiddleware{
		cors:  cors.Handler(config.corsOptions()),
		limit: passthrough,
	}

	if !config.RateLimitDisabled && config.RateLimitRequests > 0 {
		window := config.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		m.limit = httprate.Limit(
			config.RateLimitRequests,
			window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(writeRateLimited),
		)
	}
	return m
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the per-IP limiter, or a pass-through when disabled.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded, retry later")
}
