// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/store"
)

// clickRetries bounds the read-then-update loop in MarkRecommendationClicked.
const clickRetries = 3

// FindUser implements store.UserReader. Interaction items are populated
// with one $in lookup; interactions on deleted items keep a nil Item.
func (s *Store) FindUser(ctx context.Context, id string) (user *models.User, err error) {
	defer observe("find_user", time.Now(), &err)

	var u models.User
	if err := s.users.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
		}
		return nil, wrapErr("find user", err)
	}
	normalizeUser(&u)

	if len(u.Interactions) == 0 {
		return &u, nil
	}

	seen := make(map[string]struct{}, len(u.Interactions))
	ids := make([]string, 0, len(u.Interactions))
	for _, in := range u.Interactions {
		if _, ok := seen[in.ItemID]; !ok {
			seen[in.ItemID] = struct{}{}
			ids = append(ids, in.ItemID)
		}
	}

	cur, err := s.items.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, wrapErr("find interaction items", err)
	}
	var items []models.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, wrapErr("decode interaction items", err)
	}
	byID := make(map[string]models.Item, len(items))
	for i := range items {
		normalizeItem(&items[i])
		byID[items[i].ID] = items[i]
	}
	for i := range u.Interactions {
		if it, ok := byID[u.Interactions[i].ItemID]; ok {
			u.Interactions[i].Item = &it
		}
	}
	return &u, nil
}

// FindUsers implements store.UserReader. Users are returned in ID order
// without their recommendation history.
func (s *Store) FindUsers(ctx context.Context, q store.UserQuery) (users []models.User, err error) {
	defer observe("find_users", time.Now(), &err)

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "recommendationHistory", Value: 0}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.users.Find(ctx, buildUserFilter(q), opts)
	if err != nil {
		return nil, wrapErr("find users", err)
	}
	users = make([]models.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, wrapErr("decode users", err)
	}
	for i := range users {
		normalizeUser(&users[i])
	}
	return users, nil
}

// AppendInteraction implements store.UserWriter. The user document is
// upserted on first interaction.
func (s *Store) AppendInteraction(ctx context.Context, userID string, in models.Interaction) (err error) {
	defer observe("append_interaction", time.Now(), &err)

	in.Item = nil
	in.Timestamp = in.Timestamp.UTC()
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "interactions", Value: in}}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "createdAt", Value: time.Now().UTC()},
			{Key: "recommendationHistory", Value: bson.A{}},
		}},
	}
	_, err = s.users.UpdateOne(ctx, bson.D{{Key: "_id", Value: userID}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return wrapErr("append interaction", err)
	}
	return nil
}

// AppendRecommendationHistory implements store.UserWriter. The user must
// already exist.
func (s *Store) AppendRecommendationHistory(ctx context.Context, userID string, entries []models.RecommendationEntry) (err error) {
	defer observe("append_history", time.Now(), &err)

	docs := make(bson.A, len(entries))
	for i := range entries {
		e := entries[i]
		e.Timestamp = e.Timestamp.UTC()
		docs[i] = e
	}
	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "recommendationHistory", Value: bson.D{{Key: "$each", Value: docs}}}}}},
	)
	if err != nil {
		return wrapErr("append history", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
	}
	return nil
}

// MarkRecommendationClicked implements store.UserWriter. The positional
// operator would flip the oldest match, so the newest unclicked index is
// read first and updated with a guarded filter.
func (s *Store) MarkRecommendationClicked(ctx context.Context, userID, itemID string) (err error) {
	defer observe("mark_clicked", time.Now(), &err)

	for attempt := 0; attempt < clickRetries; attempt++ {
		var doc struct {
			History []models.RecommendationEntry `bson:"recommendationHistory"`
		}
		err := s.users.FindOne(ctx,
			bson.D{{Key: "_id", Value: userID}},
			options.FindOne().SetProjection(bson.D{{Key: "recommendationHistory", Value: 1}}),
		).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("user %s: %w", userID, store.ErrNotFound)
		}
		if err != nil {
			return wrapErr("find history", err)
		}

		idx := newestUnclicked(doc.History, itemID)
		if idx < 0 {
			return fmt.Errorf("recommendation %s for user %s: %w", itemID, userID, store.ErrNotFound)
		}

		prefix := "recommendationHistory." + strconv.Itoa(idx)
		res, err := s.users.UpdateOne(ctx,
			bson.D{
				{Key: "_id", Value: userID},
				{Key: prefix + ".item", Value: itemID},
				{Key: prefix + ".clicked", Value: false},
			},
			bson.D{{Key: "$set", Value: bson.D{{Key: prefix + ".clicked", Value: true}}}},
		)
		if err != nil {
			return wrapErr("mark clicked", err)
		}
		if res.ModifiedCount > 0 {
			return nil
		}
	}
	return fmt.Errorf("mark clicked: entry for %s changed concurrently", itemID)
}

// newestUnclicked returns the index of the last unclicked entry for itemID,
// or -1.
func newestUnclicked(history []models.RecommendationEntry, itemID string) int {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].ItemID == itemID && !history[i].Clicked {
			return i
		}
	}
	return -1
}

// normalizeUser replaces null arrays with empty ones.
func normalizeUser(u *models.User) {
	if u.Interactions == nil {
		u.Interactions = []models.Interaction{}
	}
	if u.RecommendationHistory == nil {
		u.RecommendationHistory = []models.RecommendationEntry{}
	}
}
