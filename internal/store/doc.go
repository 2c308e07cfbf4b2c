// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package store defines the persistence contract consumed by the
recommendation engine and provides the in-memory backend.

The engine reads two collections (items, and users with their interaction
logs) and writes interaction events, counter increments and recommendation
history. Concrete backends:

  - Memory (this package): default deployment and test fixture
  - database.DB: DuckDB
  - mongodb.Store: MongoDB

Query Semantics:

ItemQuery combines ID filters (AND) with three similarity predicates
(genre intersection, studio equality, year range) that are OR-ed together.
This is the shape needed by seeded recommendations: "shares a genre, OR
same studio, OR released within a year window".

Resilience:

WithBreaker wraps any Store in a sony/gobreaker circuit breaker. An open
circuit surfaces as ErrUnavailable, which the engine maps to its static
fallback list.
*/
package store
