// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"math"
	"testing"

	"github.com/tomtom215/animerec/internal/models"
)

func TestInteractionWeight(t *testing.T) {
	t.Parallel()
	w := DefaultConfig().Weights

	tests := []struct {
		typ  models.InteractionType
		want float64
	}{
		{models.InteractionView, 1},
		{models.InteractionLike, 3},
		{models.InteractionDislike, -2},
		{models.InteractionWatch, 5},
		{models.InteractionBookmark, 4},
		{models.InteractionShare, 2},
		{models.InteractionRate, 3},
		{"unknown", 1},
		{"", 1},
	}
	for _, tt := range tests {
		if got := w.InteractionWeight(tt.typ); got != tt.want {
			t.Errorf("InteractionWeight(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestBuildProfile(t *testing.T) {
	t.Parallel()
	w := DefaultConfig().Weights

	action := &models.Item{ID: "a", Genres: []string{"Action", "Drama"}, Studio: "Bones"}
	comedy := &models.Item{ID: "c", Genres: []string{"Comedy"}}
	p := BuildProfile([]models.Interaction{
		{ItemID: "a", Item: action, Type: models.InteractionWatch},
		{ItemID: "c", Item: comedy, Type: models.InteractionDislike},
		{ItemID: "gone", Type: models.InteractionLike},
	}, &w)

	if p.Total != 3 {
		t.Errorf("Total = %v, want 3 (missing items contribute nothing)", p.Total)
	}
	if p.Genres["Action"] != 5 || p.Genres["Drama"] != 5 || p.Genres["Comedy"] != -2 {
		t.Errorf("Genres = %v", p.Genres)
	}
	if p.Studios["Bones"] != 5 || len(p.Studios) != 1 {
		t.Errorf("Studios = %v", p.Studios)
	}

	p.NormalizeGenres()
	if !almostEqual(p.Genres["Action"], 5.0/3) || !almostEqual(p.Genres["Comedy"], -2.0/3) {
		t.Errorf("normalized Genres = %v", p.Genres)
	}
	if p.Studios["Bones"] != 5 {
		t.Errorf("studio weights must stay raw, got %v", p.Studios["Bones"])
	}
}

func TestNormalizeGenres_ZeroTotal(t *testing.T) {
	t.Parallel()
	p := Profile{Genres: map[string]float64{"Action": 2}, Studios: map[string]float64{}, Total: 0}
	p.NormalizeGenres()
	if p.Genres["Action"] != 2 {
		t.Errorf("zero total must skip normalization, got %v", p.Genres["Action"])
	}
	if !p.IsEmpty() {
		t.Error("IsEmpty() = false for zero total")
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()
	set := func(ids ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			m[id] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"identical", set("a", "b"), set("a", "b"), 1},
		{"against empty", set("a"), set(), 0},
		{"both empty", set(), set(), 0},
		{"nil sets", nil, nil, 0},
		{"disjoint", set("a"), set("b"), 0},
		{"partial", set("a", "b", "c"), set("b", "c", "d"), 0.5},
		{"subset", set("a"), set("a", "b", "c", "d"), 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}
			if got := Jaccard(tt.b, tt.a); got != tt.want {
				t.Errorf("Jaccard() not symmetric: %v", got)
			}
		})
	}
}

func TestPopularityScore(t *testing.T) {
	t.Parallel()
	if got := PopularityScore(&models.Item{ViewCount: 100}); got != math.Log(101) {
		t.Errorf("PopularityScore(100) = %v, want ln(101)", got)
	}
	if got := PopularityScore(&models.Item{}); got != 0 {
		t.Errorf("PopularityScore(0) = %v, want 0", got)
	}
	if got := PopularityScore(&models.Item{ViewCount: -5}); got != 0 {
		t.Errorf("PopularityScore(-5) = %v, want 0", got)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
