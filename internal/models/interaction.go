// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package models

import "time"

// InteractionType is the kind of action a user took on an item.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionDislike  InteractionType = "dislike"
	InteractionWatch    InteractionType = "watch"
	InteractionBookmark InteractionType = "bookmark"
	InteractionShare    InteractionType = "share"
	InteractionRate     InteractionType = "rate"
)

// InteractionTypes lists every valid interaction type.
var InteractionTypes = []InteractionType{
	InteractionView,
	InteractionLike,
	InteractionDislike,
	InteractionWatch,
	InteractionBookmark,
	InteractionShare,
	InteractionRate,
}

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AllowsRating reports whether an interaction of this type may carry a rating.
func (t InteractionType) AllowsRating() bool {
	return t == InteractionRate
}

// CounterFor returns the item counter bumped by an interaction type.
func CounterFor(t InteractionType) (Counter, bool) {
	switch t {
	case InteractionView:
		return CounterViews, true
	case InteractionWatch:
		return CounterWatches, true
	case InteractionBookmark:
		return CounterBookmarks, true
	case InteractionShare:
		return CounterShares, true
	default:
		return "", false
	}
}

// Interaction is a single entry of a user's interaction log.
// Interactions are immutable once appended.
type Interaction struct {
	ItemID string `json:"itemId" bson:"item"`

	// Item is populated by the store on FindUser. It is nil when the
	// referenced item no longer exists.
	Item *Item `json:"item,omitempty" bson:"-"`

	Type InteractionType `json:"type" bson:"type"`

	// Rating is 1-10 for rate interactions, 0 otherwise.
	Rating int `json:"rating,omitempty" bson:"rating,omitempty"`

	// Duration is the watched time in seconds, 0 when not reported.
	Duration int `json:"duration,omitempty" bson:"duration,omitempty"`

	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// InteractionEvent is published on the message bus after an interaction is stored.
type InteractionEvent struct {
	EventID   string          `json:"event_id"`
	UserID    string          `json:"user_id"`
	ItemID    string          `json:"item_id"`
	Type      InteractionType `json:"type"`
	Rating    int             `json:"rating,omitempty"`
	Duration  int             `json:"duration,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
