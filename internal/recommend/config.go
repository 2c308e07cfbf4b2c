// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/models"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights holds every scoring coefficient used by the strategies.
	Weights Weights `json:"weights"`

	// Limits contains per-call-site default sizes and timeouts.
	Limits LimitsConfig `json:"limits"`

	// Collaborative contains neighbourhood parameters.
	Collaborative CollaborativeConfig `json:"collaborative"`

	// Seeded contains seed similarity parameters.
	Seeded SeededConfig `json:"seeded"`

	// Selection contains the interaction-count thresholds used to
	// suggest an algorithm to authenticated users.
	Selection SelectionConfig `json:"selection"`

	// History controls the recommendation history write-back.
	History HistoryConfig `json:"history"`
}

// Weights groups the scoring coefficients.
type Weights struct {
	// Interaction maps interaction type to its signal weight.
	Interaction map[models.InteractionType]float64 `json:"interaction"`

	// DefaultInteraction is used for types missing from Interaction.
	// Default: 1.
	DefaultInteraction float64 `json:"default_interaction"`

	Content ContentWeights `json:"content"`
	Seeded  SeededWeights  `json:"seeded"`
	Hybrid  HybridWeights  `json:"hybrid"`
}

// ContentWeights are the content-based coefficients applied on top of
// the normalized genre affinity.
type ContentWeights struct {
	Studio     float64 `json:"studio"`
	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
}

// SeededWeights are the seeded strategy coefficients.
type SeededWeights struct {
	// Genre is added per overlapping genre.
	Genre float64 `json:"genre"`

	// Studio is added when the studio matches.
	Studio float64 `json:"studio"`

	// YearBase and YearDecay give max(0, YearBase - YearDecay*|diff|).
	YearBase  float64 `json:"year_base"`
	YearDecay float64 `json:"year_decay"`

	Rating     float64 `json:"rating"`
	Popularity float64 `json:"popularity"`
}

// HybridWeights are the per-source category weights. Each weight is also
// the share of the requested limit given to that source.
type HybridWeights struct {
	Content       float64 `json:"content"`
	Collaborative float64 `json:"collaborative"`
	Popularity    float64 `json:"popularity"`
}

// LimitsConfig contains default list sizes and timeouts.
type LimitsConfig struct {
	ContentDefault       int `json:"content_default"`
	CollaborativeDefault int `json:"collaborative_default"`
	PopularityDefault    int `json:"popularity_default"`
	SeededDefault        int `json:"seeded_default"`
	HybridDefault        int `json:"hybrid_default"`

	// FallbackDefault is the static list size when no limit is given.
	FallbackDefault int `json:"fallback_default"`

	// Max caps any requested limit.
	// Default: 100.
	Max int `json:"max"`

	// RequestTimeout bounds a whole selection ladder evaluation.
	RequestTimeout time.Duration `json:"request_timeout"`

	// BranchTimeout bounds each hybrid branch.
	BranchTimeout time.Duration `json:"branch_timeout"`
}

// CollaborativeConfig contains neighbourhood parameters.
type CollaborativeConfig struct {
	// MinSimilarity is exclusive: neighbours need similarity > MinSimilarity.
	MinSimilarity float64 `json:"min_similarity"`

	// MaxNeighbors caps the retained neighbourhood.
	MaxNeighbors int `json:"max_neighbors"`

	// MaxCandidateUsers caps how many other users are loaded and compared.
	MaxCandidateUsers int `json:"max_candidate_users"`
}

// SeededConfig contains seed similarity parameters.
type SeededConfig struct {
	// YearWindow is the +/- release year range that qualifies a candidate.
	YearWindow int `json:"year_window"`
}

// SelectionConfig contains algorithm suggestion thresholds.
type SelectionConfig struct {
	// ContentBelow suggests content when interactions < ContentBelow.
	ContentBelow int `json:"content_below"`

	// HybridBelow suggests hybrid when interactions < HybridBelow,
	// collaborative otherwise.
	HybridBelow int `json:"hybrid_below"`
}

// HistoryConfig controls the recommendation history writer.
type HistoryConfig struct {
	Enabled      bool          `json:"enabled"`
	QueueSize    int           `json:"queue_size"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DefaultInteractionWeights returns the standard interaction weight table.
func DefaultInteractionWeights() map[models.InteractionType]float64 {
	return map[models.InteractionType]float64{
		models.InteractionView:     1,
		models.InteractionLike:     3,
		models.InteractionDislike:  -2,
		models.InteractionWatch:    5,
		models.InteractionBookmark: 4,
		models.InteractionShare:    2,
		models.InteractionRate:     3,
	}
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Interaction:        DefaultInteractionWeights(),
			DefaultInteraction: 1,
			Content: ContentWeights{
				Studio:     0.3,
				Rating:     0.2,
				Popularity: 0.1,
			},
			Seeded: SeededWeights{
				Genre:      1,
				Studio:     1.5,
				YearBase:   1.5,
				YearDecay:  0.3,
				Rating:     0.5,
				Popularity: 0.25,
			},
			Hybrid: HybridWeights{
				Content:       0.5,
				Collaborative: 0.3,
				Popularity:    0.2,
			},
		},
		Limits: LimitsConfig{
			ContentDefault:       10,
			CollaborativeDefault: 10,
			PopularityDefault:    10,
			SeededDefault:        20,
			HybridDefault:        20,
			FallbackDefault:      10,
			Max:                  100,
			RequestTimeout:       10 * time.Second,
			BranchTimeout:        5 * time.Second,
		},
		Collaborative: CollaborativeConfig{
			MinSimilarity:     0.1,
			MaxNeighbors:      50,
			MaxCandidateUsers: 5000,
		},
		Seeded: SeededConfig{
			YearWindow: 2,
		},
		Selection: SelectionConfig{
			ContentBelow: 5,
			HybridBelow:  20,
		},
		History: HistoryConfig{
			Enabled:      true,
			QueueSize:    1024,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	for _, d := range []struct {
		name string
		v    int
	}{
		{"limits.content_default", c.Limits.ContentDefault},
		{"limits.collaborative_default", c.Limits.CollaborativeDefault},
		{"limits.popularity_default", c.Limits.PopularityDefault},
		{"limits.seeded_default", c.Limits.SeededDefault},
		{"limits.hybrid_default", c.Limits.HybridDefault},
		{"limits.fallback_default", c.Limits.FallbackDefault},
	} {
		if d.v < 1 {
			return fmt.Errorf("%s must be positive, got %d", d.name, d.v)
		}
		if d.v > c.Limits.Max {
			return fmt.Errorf("%s must be <= limits.max, got %d > %d", d.name, d.v, c.Limits.Max)
		}
	}
	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}
	if c.Limits.BranchTimeout <= 0 {
		return fmt.Errorf("limits.branch_timeout must be positive, got %v", c.Limits.BranchTimeout)
	}

	h := c.Weights.Hybrid
	if h.Content < 0 || h.Collaborative < 0 || h.Popularity < 0 {
		return fmt.Errorf("weights.hybrid must be non-negative, got %+v", h)
	}
	if h.Content+h.Collaborative+h.Popularity == 0 {
		return fmt.Errorf("weights.hybrid must not all be zero")
	}

	if c.Collaborative.MinSimilarity < 0 || c.Collaborative.MinSimilarity >= 1 {
		return fmt.Errorf("collaborative.min_similarity must be in [0, 1), got %f", c.Collaborative.MinSimilarity)
	}
	if c.Collaborative.MaxNeighbors < 1 {
		return fmt.Errorf("collaborative.max_neighbors must be positive, got %d", c.Collaborative.MaxNeighbors)
	}
	if c.Collaborative.MaxCandidateUsers < c.Collaborative.MaxNeighbors {
		return fmt.Errorf("collaborative.max_candidate_users must be >= max_neighbors, got %d < %d",
			c.Collaborative.MaxCandidateUsers, c.Collaborative.MaxNeighbors)
	}

	if c.Seeded.YearWindow < 0 {
		return fmt.Errorf("seeded.year_window must be non-negative, got %d", c.Seeded.YearWindow)
	}

	if c.Selection.ContentBelow < 0 || c.Selection.HybridBelow < c.Selection.ContentBelow {
		return fmt.Errorf("selection thresholds must satisfy 0 <= content_below <= hybrid_below, got %d, %d",
			c.Selection.ContentBelow, c.Selection.HybridBelow)
	}

	if c.History.Enabled {
		if c.History.QueueSize < 1 {
			return fmt.Errorf("history.queue_size must be positive, got %d", c.History.QueueSize)
		}
		if c.History.WriteTimeout <= 0 {
			return fmt.Errorf("history.write_timeout must be positive, got %v", c.History.WriteTimeout)
		}
	}

	for t := range c.Weights.Interaction {
		if !t.Valid() {
			return fmt.Errorf("weights.interaction has unknown type %q", t)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Weights.Interaction = make(map[models.InteractionType]float64, len(c.Weights.Interaction))
	for k, v := range c.Weights.Interaction {
		out.Weights.Interaction[k] = v
	}
	return &out
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Limits struct {
			ContentDefault       int    `json:"content_default"`
			CollaborativeDefault int    `json:"collaborative_default"`
			PopularityDefault    int    `json:"popularity_default"`
			SeededDefault        int    `json:"seeded_default"`
			HybridDefault        int    `json:"hybrid_default"`
			FallbackDefault      int    `json:"fallback_default"`
			Max                  int    `json:"max"`
			RequestTimeout       string `json:"request_timeout"`
			BranchTimeout        string `json:"branch_timeout"`
		} `json:"limits"`
		History struct {
			Enabled      bool   `json:"enabled"`
			QueueSize    int    `json:"queue_size"`
			WriteTimeout string `json:"write_timeout"`
		} `json:"history"`
	}{
		Alias: (*Alias)(c),
		Limits: struct {
			ContentDefault       int    `json:"content_default"`
			CollaborativeDefault int    `json:"collaborative_default"`
			PopularityDefault    int    `json:"popularity_default"`
			SeededDefault        int    `json:"seeded_default"`
			HybridDefault        int    `json:"hybrid_default"`
			FallbackDefault      int    `json:"fallback_default"`
			Max                  int    `json:"max"`
			RequestTimeout       string `json:"request_timeout"`
			BranchTimeout        string `json:"branch_timeout"`
		}{
			ContentDefault:       c.Limits.ContentDefault,
			CollaborativeDefault: c.Limits.CollaborativeDefault,
			PopularityDefault:    c.Limits.PopularityDefault,
			SeededDefault:        c.Limits.SeededDefault,
			HybridDefault:        c.Limits.HybridDefault,
			FallbackDefault:      c.Limits.FallbackDefault,
			Max:                  c.Limits.Max,
			RequestTimeout:       c.Limits.RequestTimeout.String(),
			BranchTimeout:        c.Limits.BranchTimeout.String(),
		},
		History: struct {
			Enabled      bool   `json:"enabled"`
			QueueSize    int    `json:"queue_size"`
			WriteTimeout string `json:"write_timeout"`
		}{
			Enabled:      c.History.Enabled,
			QueueSize:    c.History.QueueSize,
			WriteTimeout: c.History.WriteTimeout.String(),
		},
	})
}
