// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/store"
)

// ContentBased scores unseen items against the user's genre and studio profile.
//
// For each candidate not already in the user's interaction log:
//
//	score = Σ genreWeight[g] for g in genres   (normalized by total weight)
//	      + Studio     * studioWeight[studio]
//	      + Rating     * rating/10
//	      + Popularity * ln(viewCount+1)
//
// A user with no interactions gets the popularity ranking unchanged. When
// the interaction weights cancel out to zero the profile is treated as
// empty and only the rating and popularity terms apply.
type ContentBased struct {
	BaseStrategy
	catalog  Catalog
	weights  recommend.Weights
	fallback recommend.Strategy
}

// NewContentBased creates a content-based strategy that delegates cold
// starts to fallback.
func NewContentBased(catalog Catalog, cfg *recommend.Config, fallback recommend.Strategy) *ContentBased {
	return &ContentBased{
		BaseStrategy: NewBaseStrategy(recommend.AlgorithmContent, cfg.Limits.ContentDefault),
		catalog:      catalog,
		weights:      cfg.Weights,
		fallback:     fallback,
	}
}

// Recommend implements recommend.Strategy.
//
//nolint:gocritic // hugeParam: Query passed by value for immutability
func (c *ContentBased) Recommend(ctx context.Context, q recommend.Query) ([]recommend.Scored, error) {
	limit := c.limit(q.Limit)

	user, err := recommend.LoadUser(ctx, c.catalog, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", q.UserID, err)
	}

	if len(user.Interactions) == 0 {
		return c.fallback.Recommend(ctx, recommend.Query{Limit: limit})
	}

	profile := recommend.BuildProfile(user.Interactions, &c.weights)
	profile.NormalizeGenres()
	if profile.IsEmpty() {
		clear(profile.Genres)
		clear(profile.Studios)
	}

	candidates, err := c.catalog.FindItems(ctx, store.ItemQuery{
		ExcludeIDs: user.InteractedItemList(),
	})
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	w := c.weights.Content
	out := make([]recommend.Scored, 0, len(candidates))
	for i := range candidates {
		item := &candidates[i]

		var score float64
		for _, g := range item.Genres {
			score += profile.Genres[g]
		}
		if item.HasStudio() {
			score += w.Studio * profile.Studios[item.Studio]
		}
		score += w.Rating * (item.Rating / 10)
		score += w.Popularity * recommend.PopularityScore(item)

		out = append(out, recommend.Scored{
			Item:   *item,
			Score:  score,
			Source: c.Name(),
		})
	}

	return rankAndTruncate(out, limit), nil
}

var _ recommend.Strategy = (*ContentBased)(nil)
