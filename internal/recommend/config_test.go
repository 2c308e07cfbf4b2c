// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("validates", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("call-site default limits", func(t *testing.T) {
		if cfg.Limits.ContentDefault != 10 || cfg.Limits.PopularityDefault != 10 || cfg.Limits.CollaborativeDefault != 10 {
			t.Errorf("per-strategy defaults = %+v, want 10", cfg.Limits)
		}
		if cfg.Limits.SeededDefault != 20 || cfg.Limits.HybridDefault != 20 {
			t.Errorf("seeded/hybrid defaults = %d/%d, want 20", cfg.Limits.SeededDefault, cfg.Limits.HybridDefault)
		}
	})

	t.Run("hybrid weights", func(t *testing.T) {
		h := cfg.Weights.Hybrid
		if h.Content != 0.5 || h.Collaborative != 0.3 || h.Popularity != 0.2 {
			t.Errorf("hybrid weights = %+v", h)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"zero default limit", func(c *Config) { c.Limits.ContentDefault = 0 }, "limits.content_default"},
		{"default above max", func(c *Config) { c.Limits.HybridDefault = 500 }, "limits.hybrid_default"},
		{"zero request timeout", func(c *Config) { c.Limits.RequestTimeout = 0 }, "request_timeout"},
		{"negative hybrid weight", func(c *Config) { c.Weights.Hybrid.Content = -1 }, "weights.hybrid"},
		{"all-zero hybrid weights", func(c *Config) { c.Weights.Hybrid = HybridWeights{} }, "weights.hybrid"},
		{"similarity out of range", func(c *Config) { c.Collaborative.MinSimilarity = 1 }, "min_similarity"},
		{"candidate pool below neighbours", func(c *Config) { c.Collaborative.MaxCandidateUsers = 10 }, "max_candidate_users"},
		{"inverted thresholds", func(c *Config) { c.Selection.ContentBelow = 30 }, "selection thresholds"},
		{"history queue", func(c *Config) { c.History.QueueSize = 0 }, "history.queue_size"},
		{"unknown interaction type", func(c *Config) { c.Weights.Interaction["poke"] = 1 }, "unknown type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	t.Run("history disabled skips history checks", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.History = HistoryConfig{Enabled: false}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Weights.Interaction["view"] = 99
	clone.Limits.Max = 1

	if cfg.Weights.Interaction["view"] != 1 {
		t.Error("Clone shares the interaction weight map")
	}
	if cfg.Limits.Max != 100 {
		t.Error("Clone shares limits")
	}
}

func TestConfig_MarshalJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.RequestTimeout = 3 * time.Second

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"request_timeout":"3s"`) {
		t.Errorf("request_timeout not rendered as string: %s", s)
	}
	if !strings.Contains(s, `"write_timeout":"5s"`) {
		t.Errorf("write_timeout not rendered as string: %s", s)
	}
}
