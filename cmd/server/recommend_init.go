// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/recommend/algorithms"
	"github.com/tomtom215/animerec/internal/store"
	"github.com/tomtom215/animerec/internal/supervisor"
	"github.com/tomtom215/animerec/internal/supervisor/services"
)

// RecommendComponents holds all recommendation-related components.
type RecommendComponents struct {
	Engine  *recommend.Engine
	History *recommend.HistoryWriter // nil when history is disabled
}

// initRecommend builds the engine, registers every strategy and, when
// enabled, wires the history writer into the data layer of the tree.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, st store.Store, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	engineCfg := buildEngineConfig(cfg)

	logger.Info().
		Int("max_limit", engineCfg.Limits.Max).
		Dur("request_timeout", engineCfg.Limits.RequestTimeout).
		Dur("branch_timeout", engineCfg.Limits.BranchTimeout).
		Int("content_below", engineCfg.Selection.ContentBelow).
		Int("hybrid_below", engineCfg.Selection.HybridBelow).
		Msg("initializing recommendation engine")

	engine, err := recommend.NewEngine(engineCfg, st, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	registerStrategies(engine, st, engineCfg, logger)

	components := &RecommendComponents{Engine: engine}

	if engineCfg.History.Enabled {
		history := recommend.NewHistoryWriter(st, engineCfg.History, logger)
		engine.SetHistorySink(history)
		if tree != nil {
			tree.AddDataService(services.NewHistoryWriterService(history, logger))
		}
		components.History = history
		logger.Info().Int("queue_size", engineCfg.History.QueueSize).Msg("recommendation history enabled")
	} else {
		logger.Info().Msg("recommendation history disabled (RECOMMEND_HISTORY_ENABLED=false)")
	}

	return components, nil
}

// registerStrategies registers the five strategies. Content falls back to
// popularity for users without interactions, collaborative delegates to
// content when no neighbours qualify, and hybrid blends the three.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func registerStrategies(engine *recommend.Engine, st store.Store, cfg *recommend.Config, logger zerolog.Logger) {
	popular := algorithms.NewPopularity(st, cfg)
	content := algorithms.NewContentBased(st, cfg, popular)
	collaborative := algorithms.NewCollaborative(st, cfg, content)

	engine.RegisterStrategy(popular)
	engine.RegisterStrategy(content)
	engine.RegisterStrategy(collaborative)
	engine.RegisterStrategy(algorithms.NewSeeded(st, cfg))
	engine.RegisterStrategy(algorithms.NewHybrid(content, collaborative, popular, cfg, logger))

	logger.Debug().Msg("registered popular, content, collaborative, seeded and hybrid strategies")
}

// buildEngineConfig creates the engine configuration from app config.
// Scoring coefficients not exposed in app config keep engine defaults.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	out := recommend.DefaultConfig()

	if len(rc.InteractionWeights) > 0 {
		out.Weights.Interaction = make(map[models.InteractionType]float64, len(rc.InteractionWeights))
		for name, weight := range rc.InteractionWeights {
			out.Weights.Interaction[models.InteractionType(name)] = weight
		}
	}
	out.Weights.Hybrid = recommend.HybridWeights{
		Content:       rc.HybridContentWeight,
		Collaborative: rc.HybridCollaborativeWeight,
		Popularity:    rc.HybridPopularityWeight,
	}

	if rc.MaxLimit > 0 {
		out.Limits.Max = rc.MaxLimit
	}
	if rc.RequestTimeout > 0 {
		out.Limits.RequestTimeout = rc.RequestTimeout
	}
	if rc.BranchTimeout > 0 {
		out.Limits.BranchTimeout = rc.BranchTimeout
	}

	out.Collaborative = recommend.CollaborativeConfig{
		MinSimilarity:     rc.MinSimilarity,
		MaxNeighbors:      rc.MaxNeighbors,
		MaxCandidateUsers: rc.MaxCandidateUsers,
	}
	out.Seeded.YearWindow = rc.YearWindow
	out.Selection = recommend.SelectionConfig{
		ContentBelow: rc.ContentThreshold,
		HybridBelow:  rc.HybridThreshold,
	}
	out.History = recommend.HistoryConfig{
		Enabled:      rc.HistoryEnabled,
		QueueSize:    rc.HistoryQueueSize,
		WriteTimeout: rc.HistoryWriteTimeout,
	}

	return out
}
