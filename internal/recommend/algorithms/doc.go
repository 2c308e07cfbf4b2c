// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package algorithms implements the recommendation strategies.
//
// Every strategy implements recommend.Strategy and computes its ranking
// synchronously from store reads made during the call.
//
// # Strategies
//
//   - Popularity: viewCount, rating, bookmarkCount (all descending)
//   - ContentBased: genre and studio affinity from the user's own log,
//     plus rating and popularity terms. Cold start delegates to Popularity.
//   - Collaborative: Jaccard neighbours over interacted item sets.
//     An empty neighbourhood delegates to ContentBased.
//   - Seeded: similarity to one reference item by genre, studio and year
//   - Hybrid: concurrent content, collaborative and popularity runs
//     merged with positional decay
//
// # Wiring
//
// The delegation chain is explicit at construction:
//
//	pop := algorithms.NewPopularity(st, cfg)
//	content := algorithms.NewContentBased(st, cfg, pop)
//	collab := algorithms.NewCollaborative(st, cfg, content)
//	hybrid := algorithms.NewHybrid(content, collab, pop, cfg, logger)
//	seeded := algorithms.NewSeeded(st, cfg)
//
// # Determinism
//
// Sorting is stable throughout, so equal scores keep the store's order
// (or first-contribution order for collaborative and hybrid).
package algorithms
