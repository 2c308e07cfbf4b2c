// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package database implements store.Store on DuckDB.

The DuckDB backend is an embedded, single-file alternative to MongoDB for
deployments that want persistence without running a database server. It is
selected with STORE_BACKEND=duckdb.

# Schema

	items                   catalog with denormalized engagement counters
	users                   one row per user, created on first interaction
	interactions            append-only interaction log (ordered by seq)
	recommendation_history  served recommendations with a clicked flag

Genres are stored as a pipe-joined string and matched with
list_contains(string_split(genres, '|'), ?), so genre names may not contain
the pipe character. UpsertItems rejects such items.

# Queries

Filters are built with the query subpackage. ID inclusion and exclusion are
AND-ed; the genre, studio and year predicates are OR-ed together. Every item
listing ends its ORDER BY with id ASC so ties are deterministic.

Counter updates are a single UPDATE ... SET c = c + ? statement and are
atomic with respect to concurrent increments.

# Errors

Missing rows map to store.ErrNotFound. Connection failures map to
store.ErrUnavailable so the engine can fall back to static recommendations.
Every operation is recorded in the store query metrics under the "duckdb"
backend label.
*/
package database
