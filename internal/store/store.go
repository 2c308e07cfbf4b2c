// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package store

import (
	"context"
	"errors"

	"github.com/tomtom215/animerec/internal/models"
)

var (
	// ErrNotFound is returned when a requested item or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
)

// ItemReader provides read access to the catalog.
type ItemReader interface {
	// FindItem returns the item with the given ID or ErrNotFound.
	FindItem(ctx context.Context, id string) (*models.Item, error)

	// FindItems returns the items matching q in q.Sort order.
	FindItems(ctx context.Context, q ItemQuery) ([]models.Item, error)

	// CountItems returns the number of items matching q, ignoring Skip and Limit.
	CountItems(ctx context.Context, q ItemQuery) (int, error)
}

// ItemWriter mutates catalog counters.
type ItemWriter interface {
	// IncrementCounter adds delta to the named counter atomically.
	// Returns ErrNotFound if the item does not exist.
	IncrementCounter(ctx context.Context, itemID string, counter models.Counter, delta int64) error
}

// UserReader provides read access to users and their interaction logs.
type UserReader interface {
	// FindUser returns the user with every interaction's Item populated.
	// Interactions whose item no longer exists keep a nil Item.
	FindUser(ctx context.Context, id string) (*models.User, error)

	// FindUsers returns users matching q. Interaction items are not populated.
	FindUsers(ctx context.Context, q UserQuery) ([]models.User, error)
}

// UserWriter appends to user logs.
type UserWriter interface {
	// AppendInteraction appends to the user's interaction log, creating
	// the user record if it does not exist yet.
	AppendInteraction(ctx context.Context, userID string, in models.Interaction) error

	// AppendRecommendationHistory appends served recommendations.
	AppendRecommendationHistory(ctx context.Context, userID string, entries []models.RecommendationEntry) error

	// MarkRecommendationClicked flips the clicked flag on the newest
	// unclicked history entry for itemID. Returns ErrNotFound when no
	// such entry exists.
	MarkRecommendationClicked(ctx context.Context, userID, itemID string) error
}

// Store is the full persistence surface used by Animerec.
type Store interface {
	ItemReader
	ItemWriter
	UserReader
	UserWriter

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// ItemSeeder loads catalog items in bulk. Implemented by every backend
// so the server can load a seed file at startup.
type ItemSeeder interface {
	UpsertItems(ctx context.Context, items []models.Item) error
}
