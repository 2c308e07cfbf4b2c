// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
)

// Recommender runs the selection ladder and exposes individual strategies.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) *recommend.Response
	Strategy(name string) (recommend.Strategy, bool)
}

// InteractionRecorder records user interactions.
type InteractionRecorder interface {
	Record(ctx context.Context, input recommend.InteractionInput) (*models.Interaction, error)
}

// Store is the store surface the handlers call directly.
type Store interface {
	Ping(ctx context.Context) error
	FindItem(ctx context.Context, id string) (*models.Item, error)
	MarkRecommendationClicked(ctx context.Context, userID, itemID string) error
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	// MaxLimit caps every limit parameter; zero disables the cap.
	MaxLimit int

	// RequestTimeout bounds direct store and strategy calls. The selection
	// ladder applies its own timeout.
	RequestTimeout time.Duration
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	engine    Recommender
	recorder  InteractionRecorder
	store     Store
	maxLimit  int
	timeout   time.Duration
	startTime time.Time
}

// NewHandler creates the HTTP handlers.
func NewHandler(engine Recommender, recorder InteractionRecorder, st Store, cfg HandlerConfig) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Handler{
		engine:    engine,
		recorder:  recorder,
		store:     st,
		maxLimit:  cfg.MaxLimit,
		timeout:   cfg.RequestTimeout,
		startTime: time.Now(),
	}
}

// withTimeout derives the context for direct store and strategy calls.
func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}
