// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"context"
	"fmt"
	"math"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/store"
)

// Seeded ranks items around a single reference item.
//
// Candidates match the seed on any of: a shared genre, the same studio,
// or a release year within YearWindow. Each is scored as
//
//	Genre * sharedGenres
//	+ Studio                               if studios match
//	+ max(0, YearBase - YearDecay*|Δyear|) if both years are known
//	+ Rating * rating/10
//	+ Popularity * ln(viewCount+1)
type Seeded struct {
	BaseStrategy
	items      store.ItemReader
	weights    recommend.SeededWeights
	yearWindow int
}

// NewSeeded creates a seeded strategy.
func NewSeeded(items store.ItemReader, cfg *recommend.Config) *Seeded {
	return &Seeded{
		BaseStrategy: NewBaseStrategy(recommend.AlgorithmSeeded, cfg.Limits.SeededDefault),
		items:        items,
		weights:      cfg.Weights.Seeded,
		yearWindow:   cfg.Seeded.YearWindow,
	}
}

// Recommend implements recommend.Strategy. A missing seed returns an
// error wrapping store.ErrNotFound.
//
//nolint:gocritic // hugeParam: Query passed by value for immutability
func (s *Seeded) Recommend(ctx context.Context, q recommend.Query) ([]recommend.Scored, error) {
	if q.SeedID == "" {
		return nil, fmt.Errorf("seed item: %w", store.ErrNotFound)
	}
	seed, err := s.items.FindItem(ctx, q.SeedID)
	if err != nil {
		return nil, fmt.Errorf("find seed %s: %w", q.SeedID, err)
	}

	query := s.candidateQuery(seed)
	if !query.HasSimilarity() {
		return []recommend.Scored{}, nil
	}

	candidates, err := s.items.FindItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	out := make([]recommend.Scored, 0, len(candidates))
	for i := range candidates {
		out = append(out, recommend.Scored{
			Item:   candidates[i],
			Score:  s.Score(seed, &candidates[i]),
			Source: s.Name(),
		})
	}
	return rankAndTruncate(out, s.limit(q.Limit)), nil
}

// candidateQuery builds the OR-ed genre, studio and year filter for seed.
func (s *Seeded) candidateQuery(seed *models.Item) store.ItemQuery {
	q := store.ItemQuery{
		ExcludeIDs: []string{seed.ID},
		AnyGenres:  seed.Genres,
	}
	if seed.HasStudio() {
		q.Studio = seed.Studio
	}
	if seed.HasYear() {
		q.YearFrom = max(1, seed.Year-s.yearWindow)
		q.YearTo = seed.Year + s.yearWindow
	}
	return q
}

// Score returns the similarity score of candidate relative to seed.
func (s *Seeded) Score(seed, candidate *models.Item) float64 {
	w := s.weights

	score := w.Genre * float64(seed.SharedGenres(candidate))
	if seed.HasStudio() && candidate.Studio == seed.Studio {
		score += w.Studio
	}
	if seed.HasYear() && candidate.HasYear() {
		diff := math.Abs(float64(candidate.Year - seed.Year))
		score += math.Max(0, w.YearBase-w.YearDecay*diff)
	}
	score += w.Rating * (candidate.Rating / 10)
	score += w.Popularity * recommend.PopularityScore(candidate)
	return score
}

var _ recommend.Strategy = (*Seeded)(nil)
