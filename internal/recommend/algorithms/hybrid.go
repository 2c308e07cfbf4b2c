// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
)

// Hybrid blends content, collaborative and popularity rankings.
//
// The three sources run concurrently, each asked for ceil(limit*weight)
// results under its own timeout. An item at index i of a list of length n
// scores (n-i)*weight for that source; scores from several sources are
// summed. A failed source contributes nothing. The call fails only when
// every source fails.
type Hybrid struct {
	BaseStrategy
	branches      []hybridBranch
	branchTimeout time.Duration
	logger        zerolog.Logger
}

type hybridBranch struct {
	strategy recommend.Strategy
	weight   float64
}

type branchResult struct {
	name    string
	weight  float64
	ran     bool
	results []recommend.Scored
	err     error
}

// NewHybrid creates a hybrid strategy over the given sources.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHybrid(content, collaborative, popularity recommend.Strategy, cfg *recommend.Config, logger zerolog.Logger) *Hybrid {
	w := cfg.Weights.Hybrid
	return &Hybrid{
		BaseStrategy: NewBaseStrategy(recommend.AlgorithmHybrid, cfg.Limits.HybridDefault),
		branches: []hybridBranch{
			{strategy: content, weight: w.Content},
			{strategy: collaborative, weight: w.Collaborative},
			{strategy: popularity, weight: w.Popularity},
		},
		branchTimeout: cfg.Limits.BranchTimeout,
		logger:        logger.With().Str("component", "hybrid").Logger(),
	}
}

// Recommend implements recommend.Strategy.
//
//nolint:gocritic // hugeParam: Query passed by value for immutability
func (h *Hybrid) Recommend(ctx context.Context, q recommend.Query) ([]recommend.Scored, error) {
	limit := h.limit(q.Limit)
	results := h.runBranches(ctx, q.UserID, limit)
	return h.merge(results, limit)
}

// runBranches runs every weighted branch in parallel and waits for all of them.
func (h *Hybrid) runBranches(ctx context.Context, userID string, limit int) []branchResult {
	results := make([]branchResult, len(h.branches))
	var wg sync.WaitGroup

	for i, b := range h.branches {
		results[i] = branchResult{name: b.strategy.Name(), weight: b.weight}
		size := ceilShare(limit, b.weight)
		if size == 0 {
			continue
		}

		results[i].ran = true
		wg.Add(1)
		go func(idx int, s recommend.Strategy, size int) {
			defer wg.Done()
			results[idx].results, results[idx].err = h.runBranch(ctx, s, userID, size)
		}(i, b.strategy, size)
	}

	wg.Wait()
	return results
}

// runBranch runs one source under the branch timeout, converting a panic into an error.
func (h *Hybrid) runBranch(ctx context.Context, s recommend.Strategy, userID string, size int) (results []recommend.Scored, err error) {
	branchCtx, cancel := context.WithTimeout(ctx, h.branchTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return s.Recommend(branchCtx, recommend.Query{UserID: userID, Limit: size})
}

// merge applies positional decay per source and sums across sources.
func (h *Hybrid) merge(results []branchResult, limit int) ([]recommend.Scored, error) {
	scores := make(map[string]float64)
	items := make(map[string]models.Item)
	order := make([]string, 0)

	var errs []error
	ran := 0
	for _, r := range results {
		if !r.ran {
			continue
		}
		ran++
		if !h.shouldUseResult(r) {
			errs = append(errs, fmt.Errorf("%s: %w", r.name, r.err))
			continue
		}

		n := len(r.results)
		for idx := range r.results {
			item := r.results[idx].Item
			if _, ok := scores[item.ID]; !ok {
				order = append(order, item.ID)
				items[item.ID] = item
			}
			scores[item.ID] += float64(n-idx) * r.weight
		}
	}

	if ran > 0 && len(errs) == ran {
		return nil, fmt.Errorf("all hybrid sources failed: %w", errors.Join(errs...))
	}

	out := make([]recommend.Scored, len(order))
	for i, id := range order {
		out[i] = recommend.Scored{
			Item:   items[id],
			Score:  scores[id],
			Source: h.Name(),
		}
	}
	return rankAndTruncate(out, limit), nil
}

// shouldUseResult logs and counts a failed branch.
func (h *Hybrid) shouldUseResult(r branchResult) bool {
	if r.err == nil {
		return true
	}
	metrics.HybridBranchFailures.WithLabelValues(r.name).Inc()
	h.logger.Warn().
		Str("branch", r.name).
		Err(r.err).
		Msg("hybrid branch failed, dropping its contribution")
	return false
}

var _ recommend.Strategy = (*Hybrid)(nil)
