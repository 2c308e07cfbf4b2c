// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/animerec/internal/models"
)

// Strategy and response labels.
const (
	AlgorithmContent       = "content"
	AlgorithmCollaborative = "collaborative"
	AlgorithmPopular       = "popular"
	AlgorithmHybrid        = "hybrid"
	AlgorithmSeeded        = "seeded"

	LabelPopularGuest        = "popular-guest"
	LabelStaticFallback      = "static-fallback"
	LabelStaticErrorFallback = "static-error-fallback"
)

// ErrNoStrategy is returned when a resolved algorithm has no registered strategy.
var ErrNoStrategy = errors.New("no strategy registered")

// Scored is one ranked recommendation tagged with the strategy that produced it.
type Scored struct {
	Item   models.Item `json:"item"`
	Score  float64     `json:"score"`
	Source string      `json:"sourceAlgorithm"`
}

// Query is the input to a single strategy.
type Query struct {
	// UserID is empty for strategies without user context.
	UserID string

	// Limit is the maximum number of results. Zero selects the
	// strategy's default.
	Limit int

	// SeedID is the reference item for the seeded strategy.
	SeedID string
}

// Strategy produces a ranked list for a query.
// Implementations must be safe for concurrent use and keep no state
// between calls.
type Strategy interface {
	// Name returns the algorithm label, e.g. "content".
	Name() string

	// Recommend returns at most q.Limit results in descending score order.
	Recommend(ctx context.Context, q Query) ([]Scored, error)
}

// Request is a recommendation request entering the selection ladder.
type Request struct {
	// UserID is the authenticated caller; empty means guest.
	UserID string

	// Algorithm is the explicit algorithm parameter, if any.
	Algorithm string

	// Limit is the requested size; zero selects the call-site default.
	Limit int

	// SeedID is the optional seed item.
	SeedID string
}

// IsGuest reports whether the request has no authenticated user.
func (r *Request) IsGuest() bool {
	return r.UserID == ""
}

// Response is the result of the selection ladder. It never represents a
// hard failure; degraded paths set Degraded and Warning or Error.
type Response struct {
	Recommendations    []Scored  `json:"recommendations"`
	Algorithm          string    `json:"algorithm"`
	Guest              bool      `json:"guest"`
	SuggestedAlgorithm string    `json:"suggestedAlgorithm,omitempty"`
	Degraded           bool      `json:"degraded,omitempty"`
	Warning            string    `json:"warning,omitempty"`
	Error              string    `json:"error,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// HistorySink accepts recommendation history entries for asynchronous
// persistence. Enqueue must not block.
type HistorySink interface {
	Enqueue(userID string, entries []models.RecommendationEntry) bool
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc struct {
	Label string
	Fn    func(ctx context.Context, q Query) ([]Scored, error)
}

// Name implements Strategy.
func (s StrategyFunc) Name() string { return s.Label }

// Recommend implements Strategy.
//
//nolint:gocritic // hugeParam: Query passed by value for immutability
func (s StrategyFunc) Recommend(ctx context.Context, q Query) ([]Scored, error) {
	return s.Fn(ctx, q)
}

var _ Strategy = StrategyFunc{}
