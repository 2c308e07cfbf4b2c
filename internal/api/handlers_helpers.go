// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/store"
	"github.com/tomtom215/animerec/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// parseLimit reads the limit query parameter. An absent parameter yields
// (0, true); a present value must be a positive integer. Values above
// maxLimit are clamped.
func (h *Handler) parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}
	return limit, true
}

// decodeJSON reads a bounded JSON body into v and validates it. On
// failure the error response has already been written.
func decodeJSON(rw *ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(rw.w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		rw.BadRequest("Invalid JSON body")
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// writeStoreError maps a store failure to a response: not found to 404,
// unavailable to 503, anything else to 500.
func writeStoreError(rw *ResponseWriter, err error, notFoundCode, notFoundMessage string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		rw.NotFound(notFoundCode, notFoundMessage)
	case errors.Is(err, store.ErrUnavailable):
		rw.ServiceUnavailable("Recommendation store is unavailable")
	default:
		rw.InternalError("Store request failed", err)
	}
}
