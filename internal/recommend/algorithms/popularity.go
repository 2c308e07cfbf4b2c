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

// Popularity ranks the whole catalog without user context.
//
// Items are ordered by the composite key
//
//	viewCount desc, rating desc, bookmarkCount desc
//
// and each result carries ln(viewCount+1) as its score. The ranking is a
// pure function of the item store, so repeated calls over the same state
// return the same order.
type Popularity struct {
	BaseStrategy
	items store.ItemReader
}

// NewPopularity creates a popularity strategy.
func NewPopularity(items store.ItemReader, cfg *recommend.Config) *Popularity {
	return &Popularity{
		BaseStrategy: NewBaseStrategy(recommend.AlgorithmPopular, cfg.Limits.PopularityDefault),
		items:        items,
	}
}

// Recommend implements recommend.Strategy. q.UserID is ignored.
//
//nolint:gocritic // hugeParam: Query passed by value for immutability
func (p *Popularity) Recommend(ctx context.Context, q recommend.Query) ([]recommend.Scored, error) {
	items, err := p.items.FindItems(ctx, store.ItemQuery{
		Sort:  store.PopularitySort,
		Limit: p.limit(q.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("find popular items: %w", err)
	}

	out := make([]recommend.Scored, len(items))
	for i := range items {
		out[i] = recommend.Scored{
			Item:   items[i],
			Score:  recommend.PopularityScore(&items[i]),
			Source: p.Name(),
		}
	}
	return out, nil
}

var _ recommend.Strategy = (*Popularity)(nil)
