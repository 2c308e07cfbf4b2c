// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/mongodb"
	"github.com/tomtom215/animerec/internal/store"
)

// initStore opens the configured backend, loads the seed catalog if one
// is configured and wraps the result in the store circuit breaker.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initStore(ctx context.Context, cfg *config.StoreConfig, logger zerolog.Logger) (store.Store, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("backend", cfg.Backend).Msg("store opened")

	if cfg.SeedPath != "" {
		n, err := store.Seed(ctx, backend, cfg.SeedPath)
		if err != nil {
			if closeErr := backend.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("error closing store")
			}
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info().Str("path", cfg.SeedPath).Int("items", n).Msg("catalog seeded")
	}

	if !cfg.Breaker.Enabled {
		logger.Warn().Msg("store circuit breaker disabled (STORE_BREAKER_ENABLED=false)")
		return backend, nil
	}
	return store.WithBreaker(backend, breakerConfig(cfg)), nil
}

// seedableStore is a backend that also accepts bulk catalog loads.
type seedableStore interface {
	store.Store
	store.ItemSeeder
}

func openBackend(ctx context.Context, cfg *config.StoreConfig) (seedableStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendDuckDB:
		db, err := database.New(&cfg.DuckDB)
		if err != nil {
			return nil, fmt.Errorf("open duckdb: %w", err)
		}
		return db, nil
	case config.BackendMongoDB:
		s, err := mongodb.New(ctx, &cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func breakerConfig(cfg *config.StoreConfig) store.BreakerConfig {
	out := store.DefaultBreakerConfig()
	out.Name = cfg.Backend
	b := cfg.Breaker
	if b.MaxRequests > 0 {
		out.MaxRequests = b.MaxRequests
	}
	if b.Interval > 0 {
		out.Interval = b.Interval
	}
	if b.Timeout > 0 {
		out.Timeout = b.Timeout
	}
	if b.MinRequests > 0 {
		out.MinRequests = b.MinRequests
	}
	if b.FailureRatio > 0 {
		out.FailureRatio = b.FailureRatio
	}
	return out
}
