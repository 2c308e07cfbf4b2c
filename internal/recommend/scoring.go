// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"math"

	"github.com/tomtom215/animerec/internal/models"
)

// InteractionWeight returns the signal weight of an interaction type.
// Types missing from the table get DefaultInteraction.
func (w *Weights) InteractionWeight(t models.InteractionType) float64 {
	if v, ok := w.Interaction[t]; ok {
		return v
	}
	return w.DefaultInteraction
}

// Profile is a user's accumulated genre and studio affinity.
type Profile struct {
	Genres  map[string]float64
	Studios map[string]float64

	// Total is the running sum of interaction weights. It can be zero or
	// negative when dislikes dominate.
	Total float64
}

// BuildProfile aggregates interaction weights per genre and studio.
// Interactions without a populated item contribute nothing.
func BuildProfile(interactions []models.Interaction, w *Weights) Profile {
	p := Profile{
		Genres:  make(map[string]float64),
		Studios: make(map[string]float64),
	}
	for i := range interactions {
		in := &interactions[i]
		if in.Item == nil {
			continue
		}
		weight := w.InteractionWeight(in.Type)
		for _, g := range in.Item.Genres {
			p.Genres[g] += weight
		}
		if in.Item.HasStudio() {
			p.Studios[in.Item.Studio] += weight
		}
		p.Total += weight
	}
	return p
}

// NormalizeGenres divides every genre weight by Total. It is a no-op when
// Total is zero.
func (p *Profile) NormalizeGenres() {
	if p.Total == 0 {
		return
	}
	for g, v := range p.Genres {
		p.Genres[g] = v / p.Total
	}
}

// IsEmpty reports whether the profile carries no usable signal.
func (p *Profile) IsEmpty() bool {
	return p.Total == 0
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// PopularityScore is ln(viewCount+1). Negative counters are treated as zero.
func PopularityScore(item *models.Item) float64 {
	if item.ViewCount <= 0 {
		return 0
	}
	return math.Log(float64(item.ViewCount) + 1)
}
