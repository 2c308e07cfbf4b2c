// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package mongodb implements store.Store on MongoDB.
//
// Two collections are used: items, keyed by item ID, and users, keyed by
// user ID with interactions and recommendationHistory embedded as arrays.
// Counter updates use $inc, log appends use $push, and a user document is
// upserted on its first interaction.
//
// Connectivity failures (network errors, timeouts, server selection) map
// to store.ErrUnavailable; missing documents map to store.ErrNotFound.
//
// Integration tests run against MONGODB_TEST_URI when it is set.
package mongodb
