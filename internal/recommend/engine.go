// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/store"
)

const (
	fallbackReasonUnavailable = "store_unavailable"
	fallbackReasonError       = "error"

	unavailableWarning = "recommendation store is unavailable, serving curated titles"
)

// UserFinder loads one user with interaction items populated.
type UserFinder interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
}

// Backend is the slice of the store the selection ladder reads directly.
type Backend interface {
	UserFinder
	Ping(ctx context.Context) error
}

// LoadUser returns the stored user, or an empty user when id has no
// record yet. Records are created by the first interaction, so an
// authenticated caller without one is a cold start, not a failure.
func LoadUser(ctx context.Context, users UserFinder, id string) (*models.User, error) {
	user, err := users.FindUser(ctx, id)
	if IsNotFound(err) {
		return coldStartUser(id), nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func coldStartUser(id string) *models.User {
	return &models.User{ID: id, Interactions: []models.Interaction{}}
}

// Engine runs the selection ladder over the registered strategies.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	backend Backend

	strategies map[string]Strategy
	algMu      sync.RWMutex

	history HistorySink

	now func() time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, backend Backend, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		backend:    backend,
		strategies: make(map[string]Strategy),
		now:        time.Now,
	}, nil
}

// Config returns the engine configuration. Callers must not modify it.
func (e *Engine) Config() *Config {
	return e.config
}

// RegisterStrategy adds or replaces the strategy for s.Name().
func (e *Engine) RegisterStrategy(s Strategy) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.strategies[s.Name()] = s
	e.logger.Info().
		Str("algorithm", s.Name()).
		Msg("registered strategy")
}

// Strategy returns the registered strategy with the given name.
func (e *Engine) Strategy(name string) (Strategy, bool) {
	e.algMu.RLock()
	defer e.algMu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// SetHistorySink sets where served recommendations are written back.
// A nil sink disables history.
func (e *Engine) SetHistorySink(h HistorySink) {
	e.history = h
}

// Recommend evaluates the selection ladder. It always returns a response;
// failures degrade to the curated static list.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) *Response {
	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)

	if err := e.backend.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("store unavailable, serving static fallback")
		metrics.RecordFallback(fallbackReasonUnavailable)
		resp := e.staticResponse(req, LabelStaticFallback)
		resp.Warning = unavailableWarning
		return resp
	}

	resp, err := e.evaluate(ctx, req, logger)
	if err != nil {
		logger.Error().Err(err).Msg("recommendation failed, serving static fallback")
		metrics.RecordFallback(fallbackReasonError)
		resp = e.staticResponse(req, LabelStaticErrorFallback)
		resp.Error = err.Error()
		return resp
	}

	metrics.RecordRecommendation(resp.Algorithm, resp.Guest)
	logger.Debug().
		Str("algorithm", resp.Algorithm).
		Int("returned", len(resp.Recommendations)).
		Msg("recommendation complete")
	return resp
}

// prepareRequest clamps the limit. Zero keeps the call-site default.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.Limit < 0 {
		req.Limit = 0
	}
	if req.Limit > e.config.Limits.Max {
		req.Limit = e.config.Limits.Max
	}
	return req
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	c := e.logger.With().Str("user_id", req.UserID)
	if req.SeedID != "" {
		c = c.Str("seed_id", req.SeedID)
	}
	if req.Algorithm != "" {
		c = c.Str("requested_algorithm", req.Algorithm)
	}
	return c.Logger()
}

// evaluate runs ladder steps 2-4. A panic anywhere below is returned as an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) evaluate(ctx context.Context, req Request, logger zerolog.Logger) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("recommendation panic: %v", r)
		}
	}()

	if req.SeedID != "" {
		if seeded, ok := e.trySeeded(ctx, req, logger); ok {
			return seeded, nil
		}
	}

	if req.IsGuest() {
		return e.guest(ctx, req)
	}

	return e.personalized(ctx, req)
}

// trySeeded runs the seeded strategy. Any failure is reported as !ok so
// the ladder falls through.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) trySeeded(ctx context.Context, req Request, logger zerolog.Logger) (*Response, bool) {
	results, err := e.run(ctx, AlgorithmSeeded, Query{
		UserID: req.UserID,
		SeedID: req.SeedID,
		Limit:  e.limitFor(AlgorithmSeeded, req.Limit),
	})
	if err != nil {
		metrics.SeedFallthroughs.Inc()
		logger.Debug().Err(err).Msg("seeded recommendation failed, falling through")
		return nil, false
	}
	return e.newResponse(results, AlgorithmSeeded, req.IsGuest()), true
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) guest(ctx context.Context, req Request) (*Response, error) {
	results, err := e.run(ctx, AlgorithmPopular, Query{
		Limit: e.limitFor(AlgorithmPopular, req.Limit),
	})
	if err != nil {
		return nil, err
	}
	return e.newResponse(results, LabelPopularGuest, true), nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) personalized(ctx context.Context, req Request) (*Response, error) {
	user, err := e.backend.FindUser(ctx, req.UserID)
	stored := err == nil
	if IsNotFound(err) {
		user, err = coldStartUser(req.UserID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", req.UserID, err)
	}

	suggested := e.SuggestAlgorithm(len(user.Interactions))
	algorithm := suggested
	if req.Algorithm != "" {
		algorithm = ResolveAlgorithm(req.Algorithm)
	}

	results, err := e.run(ctx, algorithm, Query{
		UserID: req.UserID,
		Limit:  e.limitFor(algorithm, req.Limit),
	})
	if err != nil {
		return nil, err
	}

	// History keeps the label the caller asked for, unresolved. A user
	// without a record has nowhere to keep it yet.
	if stored {
		requested := algorithm
		if req.Algorithm != "" {
			requested = req.Algorithm
		}
		e.recordHistory(req.UserID, requested, results)
	}

	resp := e.newResponse(results, algorithm, false)
	resp.SuggestedAlgorithm = suggested
	return resp, nil
}

// SuggestAlgorithm picks an algorithm from a user's interaction count.
func (e *Engine) SuggestAlgorithm(interactions int) string {
	switch {
	case interactions < e.config.Selection.ContentBelow:
		return AlgorithmContent
	case interactions < e.config.Selection.HybridBelow:
		return AlgorithmHybrid
	default:
		return AlgorithmCollaborative
	}
}

// ResolveAlgorithm maps a requested algorithm to a personalized strategy
// name. Unrecognized values resolve to hybrid.
func ResolveAlgorithm(requested string) string {
	switch requested {
	case AlgorithmContent, AlgorithmCollaborative, AlgorithmPopular, AlgorithmHybrid:
		return requested
	default:
		return AlgorithmHybrid
	}
}

// limitFor returns requested, or the default for the algorithm when zero.
func (e *Engine) limitFor(algorithm string, requested int) int {
	if requested > 0 {
		return requested
	}
	l := e.config.Limits
	switch algorithm {
	case AlgorithmContent:
		return l.ContentDefault
	case AlgorithmCollaborative:
		return l.CollaborativeDefault
	case AlgorithmPopular:
		return l.PopularityDefault
	case AlgorithmSeeded:
		return l.SeededDefault
	default:
		return l.HybridDefault
	}
}

// run executes one strategy, converting a panic into an error.
func (e *Engine) run(ctx context.Context, name string, q Query) (results []Scored, err error) {
	s, ok := e.Strategy(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStrategy, name)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("%s strategy panic: %v", name, r)
		}
		metrics.RecordStrategy(name, time.Since(start), err)
	}()

	results, err = s.Recommend(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s strategy: %w", name, err)
	}
	return results, nil
}

// recordHistory hands served entries to the history sink without blocking.
func (e *Engine) recordHistory(userID, algorithm string, results []Scored) {
	if e.history == nil || len(results) == 0 {
		return
	}
	ts := e.now()
	entries := make([]models.RecommendationEntry, len(results))
	for i := range results {
		entries[i] = models.RecommendationEntry{
			ItemID:    results[i].Item.ID,
			Algorithm: algorithm,
			Score:     results[i].Score,
			Timestamp: ts,
		}
	}
	if !e.history.Enqueue(userID, entries) {
		e.logger.Debug().Str("user_id", userID).Msg("history queue full, entry dropped")
	}
}

func (e *Engine) newResponse(results []Scored, label string, guest bool) *Response {
	if results == nil {
		results = []Scored{}
	}
	return &Response{
		Recommendations: results,
		Algorithm:       label,
		Guest:           guest,
		Timestamp:       e.now(),
	}
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) staticResponse(req Request, label string) *Response {
	limit := req.Limit
	if limit == 0 {
		limit = e.config.Limits.FallbackDefault
	}
	resp := e.newResponse(StaticRecommendations(limit, label), label, req.IsGuest())
	resp.Degraded = true
	metrics.RecordRecommendation(label, resp.Guest)
	return resp
}

// IsNotFound reports whether err is a not-found failure from the store.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, store.ErrNotFound)
}
