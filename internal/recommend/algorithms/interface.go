// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/store"
)

// Catalog is the read surface the strategies need from the store.
type Catalog interface {
	store.ItemReader
	store.UserReader
}

// BaseStrategy provides the name and default limit shared by all strategies.
type BaseStrategy struct {
	name         string
	defaultLimit int
}

// NewBaseStrategy creates a base with the given name and default limit.
func NewBaseStrategy(name string, defaultLimit int) BaseStrategy {
	return BaseStrategy{name: name, defaultLimit: defaultLimit}
}

// Name returns the algorithm label.
func (b *BaseStrategy) Name() string {
	return b.name
}

// limit returns requested, or the default when requested is not positive.
func (b *BaseStrategy) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	return b.defaultLimit
}

// rankAndTruncate sorts by descending score, keeping input order for ties,
// and truncates to limit.
func rankAndTruncate(results []recommend.Scored, limit int) []recommend.Scored {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// ceilShare returns ceil(limit * share), ignoring float noise below 1e-9.
func ceilShare(limit int, share float64) int {
	if share <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(limit)*share - 1e-9))
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
