// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/animerec/internal/auth"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
)

// StrategyResponse is the payload of the direct strategy endpoints.
type StrategyResponse struct {
	Recommendations []recommend.Scored `json:"recommendations"`
	Algorithm       string             `json:"algorithm"`
	SeedID          string             `json:"seedId,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
}

// ClickResponse acknowledges a tracked click.
type ClickResponse struct {
	ItemID  string `json:"itemId"`
	Clicked bool   `json:"clicked"`
}

// Recommendations handles GET /api/v1/recommendations.
//
// Query parameters: algorithm (content|collaborative|popular|hybrid),
// limit, and seedId or seedAnimeId. The caller's identity comes from the
// optional bearer token. This endpoint always answers 200; degraded
// results are flagged in the body.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	limit, ok := h.parseLimit(r)
	if !ok {
		logging.Ctx(r.Context()).Debug().
			Str("limit", sanitizeLogValue(q.Get("limit"))).
			Msg("Ignoring invalid limit parameter")
	}

	seedID := q.Get("seedId")
	if seedID == "" {
		seedID = q.Get("seedAnimeId")
	}

	resp := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:    auth.UserIDFromContext(r.Context()),
		Algorithm: q.Get("algorithm"),
		Limit:     limit,
		SeedID:    seedID,
	})
	rw.Success(resp)
}

// Popular handles GET /api/v1/recommendations/popular.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := h.parseLimit(r)
	if !ok {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "limit must be a positive integer")
		return
	}

	h.runStrategy(rw, r, recommend.AlgorithmPopular, recommend.Query{Limit: limit})
}

// Similar handles GET /api/v1/recommendations/similar/{itemID}. Unlike
// the main endpoint it reports a missing seed as 404.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := h.parseLimit(r)
	if !ok {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, "limit must be a positive integer")
		return
	}

	h.runStrategy(rw, r, recommend.AlgorithmSeeded, recommend.Query{
		SeedID: chi.URLParam(r, "itemID"),
		Limit:  limit,
	})
}

//nolint:gocritic // hugeParam: Query passed by value for immutability
func (h *Handler) runStrategy(rw *ResponseWriter, r *http.Request, name string, query recommend.Query) {
	strategy, ok := h.engine.Strategy(name)
	if !ok {
		rw.ServiceUnavailable("Algorithm " + name + " is not available")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	results, err := strategy.Recommend(ctx, query)
	if err != nil {
		writeStoreError(rw, err, ErrCodeItemNotFound, "Seed item not found")
		return
	}
	if results == nil {
		results = []recommend.Scored{}
	}

	rw.Success(&StrategyResponse{
		Recommendations: results,
		Algorithm:       name,
		SeedID:          query.SeedID,
		Timestamp:       time.Now().UTC(),
	})
}

// Click handles POST /api/v1/recommendations/{itemID}/click. It marks the
// caller's newest unclicked history entry for the item as clicked.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	itemID := chi.URLParam(r, "itemID")
	userID := auth.UserIDFromContext(r.Context())

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.store.MarkRecommendationClicked(ctx, userID, itemID); err != nil {
		writeStoreError(rw, err, ErrCodeNoHistoryEntry, "No unclicked recommendation for this item")
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("item_id", sanitizeLogValue(itemID)).
		Msg("Recommendation click recorded")
	rw.Success(&ClickResponse{ItemID: itemID, Clicked: true})
}
