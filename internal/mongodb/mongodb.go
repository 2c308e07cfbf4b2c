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
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/store"
)

const (
	backendName = "mongodb"

	itemsCollection = "items"
	usersCollection = "users"
)

// Store is the MongoDB implementation of store.Store.
type Store struct {
	client *mongo.Client
	items  *mongo.Collection
	users  *mongo.Collection
}

// New connects to MongoDB, verifies the connection and creates indexes.
func New(ctx context.Context, cfg *config.MongoDBConfig) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetServerSelectionTimeout(cfg.Timeout).
		SetConnectTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client: client,
		items:  db.Collection(itemsCollection),
		users:  db.Collection(usersCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // best-effort cleanup
		return nil, err
	}

	logging.Info().
		Str("database", cfg.Database).
		Uint64("max_pool_size", cfg.MaxPoolSize).
		Msg("MongoDB store ready")

	return s, nil
}

// ensureIndexes creates the catalog indexes used by similarity filters and
// the popularity sort. Index creation is idempotent.
func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "genres", Value: 1}}},
		{Keys: bson.D{{Key: "studio", Value: 1}}},
		{Keys: bson.D{{Key: "year", Value: 1}}},
		{Keys: bson.D{
			{Key: "viewCount", Value: -1},
			{Key: "rating", Value: -1},
			{Key: "bookmarkCount", Value: -1},
		}},
	}
	if _, err := s.items.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create item indexes: %w", err)
	}
	return nil
}

// Ping implements store.Store. Any failure is reported as store.ErrUnavailable.
func (s *Store) Ping(ctx context.Context) (err error) {
	defer observe("ping", time.Now(), &err)

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// observe records the duration and outcome of one store operation.
func observe(operation string, start time.Time, errp *error) {
	metrics.RecordStoreQuery(backendName, operation, time.Since(start), *errp)
}

// wrapErr annotates err with the operation and maps connectivity failures
// to store.ErrUnavailable. Context errors pass through unchanged.
func wrapErr(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %v", operation, store.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	var sse topology.ServerSelectionError
	if errors.As(err, &sse) {
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

var (
	_ store.Store      = (*Store)(nil)
	_ store.ItemSeeder = (*Store)(nil)
)
