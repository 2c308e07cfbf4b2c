// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package models defines the data structures shared by the Animerec stores,
the recommendation engine and the HTTP API.

Key Components:

  - Item: a catalog entry (anime title) with genre, studio, year and rating
    metadata plus denormalized engagement counters
  - Interaction: a typed, timestamped user action against an item
  - User: a user record holding the append-only interaction log and the
    recommendation history written back by the engine
  - InteractionEvent: the message published after an interaction is recorded

Counter Semantics:

Item counters (view, watch, bookmark, share) are only ever changed through
atomic increments performed by the store. CounterFor maps an interaction
type to the counter it bumps; like, dislike and rate bump nothing.

Serialization:

All types carry json tags for the API and bson tags for the MongoDB
backend. Item.ID maps to the document _id.
*/
package models
