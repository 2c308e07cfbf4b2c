// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package recommend implements the anime recommendation engine.
//
// # Architecture
//
// Scoring is computed per request from live store reads. Nothing learned
// or cached is kept between requests, so every score is a deterministic
// function of item metadata and interaction logs at query time.
//
//   - Scoring primitives (scoring.go): interaction weights, genre and
//     studio profiles, Jaccard similarity, popularity score
//   - Strategies (package algorithms): content, collaborative, popular,
//     seeded and hybrid, all implementing Strategy
//   - Selection ladder (engine.go): picks a strategy per request and
//     degrades to a curated static list (fallback.go)
//   - Interaction recorder (recorder.go): the write path feeding future scores
//   - History writer (history.go): asynchronous recommendation history
//
// # Selection Ladder
//
// Evaluated in order for each request:
//
//  1. Store unreachable: static list, "static-fallback", degraded
//  2. Seed given: seeded strategy; any failure falls through silently
//  3. Guest: popularity, "popular-guest"
//  4. Authenticated: suggested algorithm from interaction count (<5
//     content, <20 hybrid, else collaborative), overridden by an explicit
//     parameter
//  5. Any error or panic in 2-4: static list, "static-error-fallback"
//
// Recommend never returns an error.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, st, logger)
//
//	pop := algorithms.NewPopularity(st, cfg)
//	engine.RegisterStrategy(pop)
//	...
//
//	resp := engine.Recommend(ctx, recommend.Request{UserID: userID, Limit: 20})
//
// # Thread Safety
//
// Engine, Recorder and HistoryWriter are safe for concurrent use.
package recommend
