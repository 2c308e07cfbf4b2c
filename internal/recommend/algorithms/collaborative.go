// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/store"
)

// Collaborative is user-based collaborative filtering over Jaccard
// similarity of interacted item sets.
//
// Neighbours are other users with similarity above MinSimilarity, best
// first, capped at MaxNeighbors. At most MaxCandidateUsers other users
// are loaded per request. Each neighbour interaction on an item the user
// has not touched adds
//
//	interactionWeight(type) * similarity
//
// to that item. An empty neighbourhood delegates to the fallback strategy.
type Collaborative struct {
	BaseStrategy
	catalog  Catalog
	weights  recommend.Weights
	cfg      recommend.CollaborativeConfig
	fallback recommend.Strategy
}

// NewCollaborative creates a collaborative strategy that delegates to
// fallback when no neighbours qualify.
func NewCollaborative(catalog Catalog, cfg *recommend.Config, fallback recommend.Strategy) *Collaborative {
	return &Collaborative{
		BaseStrategy: NewBaseStrategy(recommend.AlgorithmCollaborative, cfg.Limits.CollaborativeDefault),
		catalog:      catalog,
		weights:      cfg.Weights,
		cfg:          cfg.Collaborative,
		fallback:     fallback,
	}
}

type neighbor struct {
	user       *models.User
	similarity float64
}

// Recommend implements recommend.Strategy.
//
//nolint:gocritic // hugeParam: Query passed by value for immutability
func (c *Collaborative) Recommend(ctx context.Context, q recommend.Query) ([]recommend.Scored, error) {
	limit := c.limit(q.Limit)

	user, err := recommend.LoadUser(ctx, c.catalog, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", q.UserID, err)
	}
	seen := user.InteractedItemIDs()

	others, err := c.catalog.FindUsers(ctx, store.UserQuery{
		ExcludeIDs:       []string{user.ID},
		WithInteractions: true,
		Limit:            c.cfg.MaxCandidateUsers,
	})
	if err != nil {
		return nil, fmt.Errorf("find candidate users: %w", err)
	}

	neighbors, err := c.neighbors(ctx, seen, others)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return c.fallback.Recommend(ctx, recommend.Query{UserID: q.UserID, Limit: limit})
	}

	ids, scores, err := c.accumulate(ctx, seen, neighbors)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return scores[ids[i]] > scores[ids[j]]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return []recommend.Scored{}, nil
	}

	items, err := c.catalog.FindItems(ctx, store.ItemQuery{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("load recommended items: %w", err)
	}
	byID := make(map[string]*models.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	out := make([]recommend.Scored, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, recommend.Scored{
			Item:   *item,
			Score:  scores[id],
			Source: c.Name(),
		})
	}
	return out, nil
}

// neighbors returns the users above the similarity threshold, most
// similar first, capped at MaxNeighbors.
func (c *Collaborative) neighbors(ctx context.Context, seen map[string]struct{}, others []models.User) ([]neighbor, error) {
	out := make([]neighbor, 0)
	for i := range others {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		sim := recommend.Jaccard(seen, others[i].InteractedItemIDs())
		if sim <= c.cfg.MinSimilarity {
			continue
		}
		out = append(out, neighbor{user: &others[i], similarity: sim})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].similarity > out[j].similarity
	})
	if len(out) > c.cfg.MaxNeighbors {
		out = out[:c.cfg.MaxNeighbors]
	}
	return out, nil
}

// accumulate sums weighted neighbour interactions per unseen item. ids is
// in first-contribution order so ties rank deterministically.
func (c *Collaborative) accumulate(ctx context.Context, seen map[string]struct{}, neighbors []neighbor) ([]string, map[string]float64, error) {
	scores := make(map[string]float64)
	ids := make([]string, 0)
	for _, n := range neighbors {
		if ContextCancelled(ctx) {
			return nil, nil, ctx.Err()
		}
		for i := range n.user.Interactions {
			in := &n.user.Interactions[i]
			if _, ok := seen[in.ItemID]; ok {
				continue
			}
			if _, ok := scores[in.ItemID]; !ok {
				ids = append(ids, in.ItemID)
			}
			scores[in.ItemID] += c.weights.InteractionWeight(in.Type) * n.similarity
		}
	}
	return ids, scores, nil
}

var _ recommend.Strategy = (*Collaborative)(nil)
