// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/animerec/internal/logging"
)

type contextKey string

// ClaimsContextKey holds the verified *Claims.
const ClaimsContextKey contextKey = "claims"

// DevUserHeader carries the user ID when authentication is disabled.
const DevUserHeader = "X-User-ID"

// ErrorWriter writes an authentication failure response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware resolves the caller's identity from a bearer token.
type Middleware struct {
	jwtManager *JWTManager
	enabled    bool
	writeError ErrorWriter
}

// NewMiddleware creates the auth middleware. With enabled false, identity
// is taken from the X-User-ID header instead of a token. A nil writeError
// falls back to http.Error.
func NewMiddleware(jwtManager *JWTManager, enabled bool, writeError ErrorWriter) *Middleware {
	if writeError == nil {
		writeError = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{
		jwtManager: jwtManager,
		enabled:    enabled,
		writeError: writeError,
	}
}

// OptionalAuth lets anonymous callers through as guests. A token that is
// present but invalid is still rejected with 401.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, userID, ok := m.identify(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, withUser(r, userID))
	})
}

// RequireAuth rejects anonymous callers with 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, userID, ok := m.identify(w, r)
		if !ok {
			return
		}
		if userID == "" {
			m.writeError(w, r, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
			return
		}
		next.ServeHTTP(w, withUser(r, userID))
	})
}

// identify returns the request with verified claims attached and the
// caller's user ID ("" for guests). ok is false when a response has
// already been written.
func (m *Middleware) identify(w http.ResponseWriter, r *http.Request) (*http.Request, string, bool) {
	if !m.enabled {
		return r, strings.TrimSpace(r.Header.Get(DevUserHeader)), true
	}

	token, present, valid := extractBearerToken(r.Header.Get("Authorization"))
	if !present {
		return r, "", true
	}
	if !valid {
		m.writeError(w, r, http.StatusUnauthorized, "INVALID_TOKEN", "Unauthorized: invalid authorization header")
		return r, "", false
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		logging.CtxWarn(r.Context()).Err(err).Msg("Token validation failed")
		m.writeError(w, r, http.StatusUnauthorized, "INVALID_TOKEN", "Unauthorized: invalid token")
		return r, "", false
	}

	ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
	return r.WithContext(ctx), claims.UserID(), true
}

// extractBearerToken parses an Authorization header. present is false
// for an empty header; valid is false for a non-Bearer or empty token.
func extractBearerToken(header string) (token string, present, valid bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true, false
	}
	token = strings.TrimSpace(parts[1])
	return token, true, token != ""
}

func withUser(r *http.Request, userID string) *http.Request {
	if userID == "" {
		return r
	}
	return r.WithContext(logging.ContextWithUserID(r.Context(), userID))
}

// UserIDFromContext returns the authenticated user ID, or "" for guests.
func UserIDFromContext(ctx context.Context) string {
	return logging.UserIDFromContext(ctx)
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}
