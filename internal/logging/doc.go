// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package logging provides zerolog-based structured logging for Animerec.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("backend", "duckdb").Msg("Store opened")
//	logging.Err(err).Msg("Seed failed")
//
//	// Request-scoped, with request_id and user_id attached
//	logging.Ctx(ctx).Warn().Msg("Hybrid branch dropped")
//
// # Components
//
// Long-lived components take a zerolog.Logger at construction and derive
// their own with WithComponent("recommend") or logger.With().Str(...).
//
// # slog Adapter
//
// Suture reports supervisor events through sutureslog, which needs a
// *slog.Logger. NewSlogLogger returns one backed by the global zerolog
// logger so those events share the same output and format.
//
// # Best Practices
//
// Always terminate event chains with .Msg() or .Send(); an unterminated
// chain is never written. Prefer typed fields over Msgf.
package logging
