// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package auth verifies bearer tokens and resolves the caller's user ID.

Tokens are HS256 JWTs signed with JWT_SECRET; the user ID is the "sub"
claim. Tokens are issued elsewhere; GenerateToken exists for tests and
operator tooling.

Two middlewares are provided:

	OptionalAuth  guests pass through with an empty user ID
	RequireAuth   callers without a valid token get 401

On both, a token that is present but invalid is rejected with 401. Only an
absent Authorization header means guest.

When AUTH_ENABLED=false the user ID is read from the X-User-ID header
instead, for local development behind a trusted proxy.
*/
package auth
