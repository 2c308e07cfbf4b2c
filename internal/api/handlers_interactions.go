// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/animerec/internal/auth"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
)

// InteractionRequest is the body of POST /api/v1/interactions.
type InteractionRequest struct {
	ItemID   string `json:"itemId" validate:"required,item_id"`
	Type     string `json:"type" validate:"required,interaction_type"`
	Rating   int    `json:"rating,omitempty" validate:"omitempty,min=1,max=10"`
	Duration int    `json:"duration,omitempty" validate:"min=0"`
}

// RecordInteraction handles POST /api/v1/interactions for the
// authenticated caller and answers 201 with the stored interaction.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req InteractionRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	in, err := h.recorder.Record(ctx, recommend.InteractionInput{
		UserID:   auth.UserIDFromContext(r.Context()),
		ItemID:   req.ItemID,
		Type:     models.InteractionType(req.Type),
		Rating:   req.Rating,
		Duration: req.Duration,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidInteraction) {
			rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
			return
		}
		writeStoreError(rw, err, ErrCodeItemNotFound, "Item not found")
		return
	}

	rw.Created(in)
}

// Item handles GET /api/v1/items/{itemID}.
func (h *Handler) Item(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	item, err := h.store.FindItem(ctx, chi.URLParam(r, "itemID"))
	if err != nil {
		writeStoreError(rw, err, ErrCodeItemNotFound, "Item not found")
		return
	}
	rw.Success(item)
}
