// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/store"
)

// FindItem implements store.ItemReader.
func (s *Store) FindItem(ctx context.Context, id string) (item *models.Item, err error) {
	defer observe("find_item", time.Now(), &err)

	var it models.Item
	if err := s.items.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("item %s: %w", id, store.ErrNotFound)
		}
		return nil, wrapErr("find item", err)
	}
	normalizeItem(&it)
	return &it, nil
}

// FindItems implements store.ItemReader. Ties in q.Sort are broken by ID.
//
//nolint:gocritic // hugeParam: query passed by value to match store.ItemReader
func (s *Store) FindItems(ctx context.Context, q store.ItemQuery) (items []models.Item, err error) {
	defer observe("find_items", time.Now(), &err)

	opts := options.Find().SetSort(buildItemSort(q.Sort))
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.items.Find(ctx, buildItemFilter(&q), opts)
	if err != nil {
		return nil, wrapErr("find items", err)
	}
	items = make([]models.Item, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, wrapErr("decode items", err)
	}
	for i := range items {
		normalizeItem(&items[i])
	}
	return items, nil
}

// CountItems implements store.ItemReader.
//
//nolint:gocritic // hugeParam: query passed by value to match store.ItemReader
func (s *Store) CountItems(ctx context.Context, q store.ItemQuery) (n int, err error) {
	defer observe("count_items", time.Now(), &err)

	count, err := s.items.CountDocuments(ctx, buildItemFilter(&q))
	if err != nil {
		return 0, wrapErr("count items", err)
	}
	return int(count), nil
}

// IncrementCounter implements store.ItemWriter with a single $inc.
func (s *Store) IncrementCounter(ctx context.Context, itemID string, counter models.Counter, delta int64) (err error) {
	defer observe("increment_counter", time.Now(), &err)

	if !counter.Valid() {
		return fmt.Errorf("unknown counter %q", counter)
	}
	res, err := s.items.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: itemID}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: string(counter), Value: delta}}}},
	)
	if err != nil {
		return wrapErr("increment counter", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("item %s: %w", itemID, store.ErrNotFound)
	}
	return nil
}

// UpsertItems implements store.ItemSeeder with one unordered bulk write.
func (s *Store) UpsertItems(ctx context.Context, items []models.Item) (err error) {
	defer observe("upsert_items", time.Now(), &err)

	if len(items) == 0 {
		return nil
	}
	writes := make([]mongo.WriteModel, 0, len(items))
	for i := range items {
		if items[i].ID == "" {
			return fmt.Errorf("item at index %d has no id", i)
		}
		it := items[i]
		normalizeItem(&it)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: it.ID}}).
			SetReplacement(it).
			SetUpsert(true))
	}
	if _, err := s.items.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return wrapErr("upsert items", err)
	}
	return nil
}

// normalizeItem replaces a null genres array with an empty one.
func normalizeItem(it *models.Item) {
	if it.Genres == nil {
		it.Genres = []string{}
	}
}
