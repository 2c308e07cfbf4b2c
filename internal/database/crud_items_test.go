// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/store"
)

func itemIDs(items []models.Item) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func TestFindItem(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	item, err := db.FindItem(ctx, "aot")
	if err != nil {
		t.Fatalf("FindItem() error = %v", err)
	}
	want := models.Item{ID: "aot", Title: "Attack on Titan", Genres: []string{"Action", "Drama"}, Studio: "Wit", Year: 2013, Rating: 9.0, ViewCount: 500, BookmarkCount: 40}
	if !reflect.DeepEqual(*item, want) {
		t.Errorf("FindItem() = %+v, want %+v", *item, want)
	}

	bare, err := db.FindItem(ctx, "bare")
	if err != nil {
		t.Fatalf("FindItem(bare) error = %v", err)
	}
	if bare.Genres == nil || len(bare.Genres) != 0 {
		t.Errorf("Genres = %#v, want empty non-nil slice", bare.Genres)
	}

	if _, err := db.FindItem(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindItem(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFindItems(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	tests := []struct {
		name string
		q    store.ItemQuery
		want []string
	}{
		{
			name: "popularity with view tie broken by rating",
			q:    store.ItemQuery{Sort: store.PopularitySort},
			want: []string{"aot", "mha", "violet", "k-on", "bare"},
		},
		{
			name: "limit and skip",
			q:    store.ItemQuery{Sort: store.PopularitySort, Skip: 1, Limit: 2},
			want: []string{"mha", "violet"},
		},
		{
			name: "no sort falls back to id order",
			q:    store.ItemQuery{},
			want: []string{"aot", "bare", "k-on", "mha", "violet"},
		},
		{
			name: "ids restrict",
			q:    store.ItemQuery{IDs: []string{"violet", "k-on"}},
			want: []string{"k-on", "violet"},
		},
		{
			name: "exclude",
			q:    store.ItemQuery{ExcludeIDs: []string{"aot", "bare"}, Sort: store.PopularitySort},
			want: []string{"mha", "violet", "k-on"},
		},
		{
			name: "any genre",
			q:    store.ItemQuery{AnyGenres: []string{"Music", "Drama"}},
			want: []string{"aot", "k-on", "violet"},
		},
		{
			name: "genre or studio",
			q:    store.ItemQuery{AnyGenres: []string{"Comedy"}, Studio: "Wit"},
			want: []string{"aot", "k-on", "mha"},
		},
		{
			name: "year range",
			q:    store.ItemQuery{YearFrom: 2015, YearTo: 2018},
			want: []string{"mha", "violet"},
		},
		{
			name: "similarity and exclusion combine",
			q:    store.ItemQuery{AnyGenres: []string{"Action"}, ExcludeIDs: []string{"aot"}},
			want: []string{"mha"},
		},
		{
			name: "genre match is exact",
			q:    store.ItemQuery{AnyGenres: []string{"Act"}},
			want: []string{},
		},
		{
			name: "sort by year ascending",
			q:    store.ItemQuery{IDs: []string{"aot", "mha", "k-on"}, Sort: []store.SortKey{{Field: store.SortYear}}},
			want: []string{"k-on", "aot", "mha"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.FindItems(ctx, tt.q)
			if err != nil {
				t.Fatalf("FindItems() error = %v", err)
			}
			if ids := itemIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("FindItems() = %v, want %v", ids, tt.want)
			}

			n, err := db.CountItems(ctx, tt.q)
			if err != nil {
				t.Fatalf("CountItems() error = %v", err)
			}
			if tt.q.Limit == 0 && tt.q.Skip == 0 && n != len(tt.want) {
				t.Errorf("CountItems() = %d, want %d", n, len(tt.want))
			}
		})
	}
}

func TestCountItems_IgnoresPaging(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	n, err := db.CountItems(context.Background(), store.ItemQuery{Skip: 2, Limit: 1})
	if err != nil {
		t.Fatalf("CountItems() error = %v", err)
	}
	if n != 5 {
		t.Errorf("CountItems() = %d, want 5", n)
	}
}

func TestIncrementCounter(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	for _, c := range []models.Counter{models.CounterViews, models.CounterWatches, models.CounterBookmarks, models.CounterShares} {
		if err := db.IncrementCounter(ctx, "k-on", c, 2); err != nil {
			t.Fatalf("IncrementCounter(%s) error = %v", c, err)
		}
	}
	item, err := db.FindItem(ctx, "k-on")
	if err != nil {
		t.Fatalf("FindItem() error = %v", err)
	}
	if item.ViewCount != 122 || item.WatchCount != 2 || item.BookmarkCount != 2 || item.ShareCount != 2 {
		t.Errorf("counters = %d/%d/%d/%d, want 122/2/2/2", item.ViewCount, item.WatchCount, item.BookmarkCount, item.ShareCount)
	}

	if err := db.IncrementCounter(ctx, "missing", models.CounterViews, 1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing item error = %v, want ErrNotFound", err)
	}
	if err := db.IncrementCounter(ctx, "k-on", models.Counter("title"), 1); err == nil {
		t.Error("unknown counter accepted")
	}
}

func TestUpsertItems(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	updated := models.Item{ID: "aot", Title: "Shingeki no Kyojin", Genres: []string{"Action"}, Year: 2013, Rating: 9.1, ViewCount: 7}
	if err := db.UpsertItems(ctx, []models.Item{updated}); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}
	got, err := db.FindItem(ctx, "aot")
	if err != nil {
		t.Fatalf("FindItem() error = %v", err)
	}
	if !reflect.DeepEqual(*got, updated) {
		t.Errorf("after upsert = %+v, want %+v", *got, updated)
	}

	tests := []struct {
		name  string
		items []models.Item
	}{
		{name: "missing id", items: []models.Item{{Title: "x"}}},
		{name: "separator in genre", items: []models.Item{{ID: "x", Genres: []string{"Slice|Life"}}}},
	}
	for _, tt := range tests {
		if err := db.UpsertItems(ctx, tt.items); err == nil {
			t.Errorf("%s: UpsertItems() error = nil", tt.name)
		}
	}
}

func TestBuildItemOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keys []store.SortKey
		want string
	}{
		{name: "empty", want: "ORDER BY id ASC"},
		{name: "popularity", keys: store.PopularitySort, want: "ORDER BY view_count DESC, rating DESC, bookmark_count DESC, id ASC"},
		{name: "unknown field skipped", keys: []store.SortKey{{Field: "title; DROP TABLE items"}, {Field: store.SortYear}}, want: "ORDER BY year ASC, id ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := buildItemOrder(tt.keys); got != tt.want {
				t.Errorf("buildItemOrder() = %q, want %q", got, tt.want)
			}
		})
	}
}
