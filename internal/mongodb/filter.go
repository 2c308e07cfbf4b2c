// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tomtom215/animerec/internal/store"
)

// sortFields maps sortable fields to document keys. Unknown fields are ignored.
var sortFields = map[store.SortField]string{
	store.SortViews:     "viewCount",
	store.SortRating:    "rating",
	store.SortBookmarks: "bookmarkCount",
	store.SortYear:      "year",
}

// buildItemFilter translates the filter part of q. ID inclusion and
// exclusion are AND-ed; similarity predicates go into a single $or.
func buildItemFilter(q *store.ItemQuery) bson.D {
	filter := bson.D{}

	var id bson.D
	if len(q.IDs) > 0 {
		id = append(id, bson.E{Key: "$in", Value: q.IDs})
	}
	if len(q.ExcludeIDs) > 0 {
		id = append(id, bson.E{Key: "$nin", Value: q.ExcludeIDs})
	}
	if len(id) > 0 {
		filter = append(filter, bson.E{Key: "_id", Value: id})
	}

	var or bson.A
	if len(q.AnyGenres) > 0 {
		or = append(or, bson.D{{Key: "genres", Value: bson.D{{Key: "$in", Value: q.AnyGenres}}}})
	}
	if q.Studio != "" {
		or = append(or, bson.D{{Key: "studio", Value: q.Studio}})
	}
	if q.HasYearRange() {
		or = append(or, bson.D{{Key: "year", Value: bson.D{
			{Key: "$gte", Value: q.YearFrom},
			{Key: "$lte", Value: q.YearTo},
		}}})
	}
	if len(or) > 0 {
		filter = append(filter, bson.E{Key: "$or", Value: or})
	}
	return filter
}

// buildItemSort translates sort keys, always ending with _id ascending.
func buildItemSort(keys []store.SortKey) bson.D {
	sort := bson.D{}
	for _, k := range keys {
		field, ok := sortFields[k.Field]
		if !ok {
			continue
		}
		dir := 1
		if k.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	return append(sort, bson.E{Key: "_id", Value: 1})
}

// buildUserFilter translates q into a users filter.
func buildUserFilter(q store.UserQuery) bson.D {
	filter := bson.D{}
	if len(q.ExcludeIDs) > 0 {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$nin", Value: q.ExcludeIDs}}})
	}
	if q.WithInteractions {
		filter = append(filter, bson.E{Key: "interactions.0", Value: bson.D{{Key: "$exists", Value: true}}})
	}
	return filter
}
