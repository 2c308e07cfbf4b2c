// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/models"
)

// SeedFile is the on-disk catalog format: {"items": [...]}.
type SeedFile struct {
	Items []models.Item `json:"items"`
}

// LoadSeedFile reads and validates a catalog seed file.
func LoadSeedFile(path string) ([]models.Item, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a catalog seed document.
func ParseSeed(data []byte) ([]models.Item, error) {
	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	seen := make(map[string]struct{}, len(seed.Items))
	for i := range seed.Items {
		item := &seed.Items[i]
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return nil, fmt.Errorf("seed item %d: missing id", i)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("seed item %d: duplicate id %q", i, item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Rating < 0 || item.Rating > 10 {
			return nil, fmt.Errorf("seed item %q: rating %.2f out of range 0-10", item.ID, item.Rating)
		}
		if item.ViewCount < 0 || item.WatchCount < 0 || item.BookmarkCount < 0 || item.ShareCount < 0 {
			return nil, fmt.Errorf("seed item %q: negative counter", item.ID)
		}
	}
	return seed.Items, nil
}

// Seed loads the file at path into s. An empty path is a no-op.
func Seed(ctx context.Context, s ItemSeeder, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	items, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	if err := s.UpsertItems(ctx, items); err != nil {
		return 0, fmt.Errorf("upsert seed items: %w", err)
	}
	return len(items), nil
}
