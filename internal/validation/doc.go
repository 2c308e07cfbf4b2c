// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by all handlers. Field names in
// error messages are taken from json tags so they match the request body.
//
// # Custom Tags
//
//	interaction_type  one of view, like, dislike, watch, bookmark, share, rate
//	item_id           non-empty, no whitespace, at most 128 bytes
//
// # Usage
//
//	type interactionRequest struct {
//	    ItemID string `json:"itemId" validate:"item_id"`
//	    Type   string `json:"type" validate:"interaction_type"`
//	    Rating int    `json:"rating" validate:"omitempty,min=1,max=10"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
