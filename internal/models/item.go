// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package models

// Item represents a catalog entry.
type Item struct {
	ID     string   `json:"id" bson:"_id"`
	Title  string   `json:"title" bson:"title"`
	Genres []string `json:"genres" bson:"genres"`

	// Studio is empty when unknown.
	Studio string `json:"studio,omitempty" bson:"studio,omitempty"`

	// Year is 0 when unknown.
	Year int `json:"year,omitempty" bson:"year,omitempty"`

	// Rating is on a 0-10 scale.
	Rating float64 `json:"rating" bson:"rating"`

	ViewCount     int64 `json:"viewCount" bson:"viewCount"`
	WatchCount    int64 `json:"watchCount" bson:"watchCount"`
	BookmarkCount int64 `json:"bookmarkCount" bson:"bookmarkCount"`
	ShareCount    int64 `json:"shareCount" bson:"shareCount"`
}

// HasStudio reports whether the item has a known studio.
func (i *Item) HasStudio() bool {
	return i.Studio != ""
}

// HasYear reports whether the item has a known release year.
func (i *Item) HasYear() bool {
	return i.Year > 0
}

// SharedGenres counts the genres present in both items.
func (i *Item) SharedGenres(other *Item) int {
	if len(i.Genres) == 0 || len(other.Genres) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(i.Genres))
	for _, g := range i.Genres {
		set[g] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{}, len(other.Genres))
	for _, g := range other.Genres {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := set[g]; ok {
			n++
		}
	}
	return n
}

// Counter names a denormalized engagement counter on Item.
type Counter string

const (
	CounterViews     Counter = "viewCount"
	CounterWatches   Counter = "watchCount"
	CounterBookmarks Counter = "bookmarkCount"
	CounterShares    Counter = "shareCount"
)

// Valid reports whether c is a known counter.
func (c Counter) Valid() bool {
	switch c {
	case CounterViews, CounterWatches, CounterBookmarks, CounterShares:
		return true
	}
	return false
}

// Add increments the counter field on the item in place.
// Unknown counters are ignored.
func (c Counter) Add(item *Item, delta int64) {
	switch c {
	case CounterViews:
		item.ViewCount += delta
	case CounterWatches:
		item.WatchCount += delta
	case CounterBookmarks:
		item.BookmarkCount += delta
	case CounterShares:
		item.ShareCount += delta
	}
}
