// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package store

import (
	"github.com/tomtom215/animerec/internal/models"
)

// SortField names a sortable item attribute.
type SortField string

const (
	SortViews     SortField = "viewCount"
	SortRating    SortField = "rating"
	SortBookmarks SortField = "bookmarkCount"
	SortYear      SortField = "year"
)

// SortKey is one key of a multi-key sort.
type SortKey struct {
	Field SortField
	Desc  bool
}

// PopularitySort orders by views, then rating, then bookmarks, all descending.
var PopularitySort = []SortKey{
	{Field: SortViews, Desc: true},
	{Field: SortRating, Desc: true},
	{Field: SortBookmarks, Desc: true},
}

// ItemQuery filters, sorts and pages catalog items.
//
// IDs and ExcludeIDs are AND-ed with everything else. The similarity
// predicates (AnyGenres, Studio, YearFrom/YearTo) are OR-ed with each
// other: an item matches when it satisfies at least one of the predicates
// that are set. When none is set, every item passes.
type ItemQuery struct {
	// IDs restricts results to these item IDs when non-empty.
	IDs []string

	// ExcludeIDs removes these item IDs from the results.
	ExcludeIDs []string

	// AnyGenres matches items sharing at least one genre.
	AnyGenres []string

	// Studio matches items from this studio when non-empty.
	Studio string

	// YearFrom and YearTo match items released in [YearFrom, YearTo].
	// The range is ignored unless both are positive.
	YearFrom int
	YearTo   int

	Sort  []SortKey
	Skip  int
	Limit int
}

// HasYearRange reports whether the year predicate is active.
func (q *ItemQuery) HasYearRange() bool {
	return q.YearFrom > 0 && q.YearTo > 0
}

// HasSimilarity reports whether any OR-ed similarity predicate is set.
func (q *ItemQuery) HasSimilarity() bool {
	return len(q.AnyGenres) > 0 || q.Studio != "" || q.HasYearRange()
}

// Matches reports whether item satisfies the filter part of q.
func (q *ItemQuery) Matches(item *models.Item) bool {
	if len(q.IDs) > 0 && !contains(q.IDs, item.ID) {
		return false
	}
	if contains(q.ExcludeIDs, item.ID) {
		return false
	}
	if !q.HasSimilarity() {
		return true
	}
	for _, g := range item.Genres {
		if contains(q.AnyGenres, g) {
			return true
		}
	}
	if q.Studio != "" && item.Studio == q.Studio {
		return true
	}
	if q.HasYearRange() && item.Year >= q.YearFrom && item.Year <= q.YearTo {
		return true
	}
	return false
}

// Less reports whether a sorts before b under keys. Equal items return false.
func Less(keys []SortKey, a, b *models.Item) bool {
	for _, k := range keys {
		av, bv := sortValue(k.Field, a), sortValue(k.Field, b)
		if av == bv {
			continue
		}
		if k.Desc {
			return av > bv
		}
		return av < bv
	}
	return false
}

func sortValue(f SortField, item *models.Item) float64 {
	switch f {
	case SortViews:
		return float64(item.ViewCount)
	case SortRating:
		return item.Rating
	case SortBookmarks:
		return float64(item.BookmarkCount)
	case SortYear:
		return float64(item.Year)
	default:
		return 0
	}
}

// UserQuery selects users for neighbourhood computations.
type UserQuery struct {
	// ExcludeIDs removes these user IDs from the results.
	ExcludeIDs []string

	// WithInteractions keeps only users with at least one interaction.
	WithInteractions bool

	// Limit caps the number of users returned. Zero means no cap.
	Limit int
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
