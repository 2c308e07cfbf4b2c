// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"github.com/tomtom215/animerec/internal/models"
)

// staticCatalog is served when the store cannot be used. Order is the ranking.
var staticCatalog = []models.Item{
	{ID: "static-fullmetal-alchemist-brotherhood", Title: "Fullmetal Alchemist: Brotherhood", Genres: []string{"Action", "Adventure", "Drama", "Fantasy"}, Studio: "Bones", Year: 2009, Rating: 9.1},
	{ID: "static-steins-gate", Title: "Steins;Gate", Genres: []string{"Drama", "Sci-Fi", "Suspense"}, Studio: "White Fox", Year: 2011, Rating: 9.1},
	{ID: "static-attack-on-titan", Title: "Attack on Titan", Genres: []string{"Action", "Drama", "Fantasy"}, Studio: "Wit Studio", Year: 2013, Rating: 8.5},
	{ID: "static-death-note", Title: "Death Note", Genres: []string{"Mystery", "Psychological", "Supernatural"}, Studio: "Madhouse", Year: 2006, Rating: 8.6},
	{ID: "static-cowboy-bebop", Title: "Cowboy Bebop", Genres: []string{"Action", "Sci-Fi", "Space"}, Studio: "Sunrise", Year: 1998, Rating: 8.8},
	{ID: "static-hunter-x-hunter", Title: "Hunter x Hunter", Genres: []string{"Action", "Adventure", "Fantasy"}, Studio: "Madhouse", Year: 2011, Rating: 9.0},
	{ID: "static-spirited-away", Title: "Spirited Away", Genres: []string{"Adventure", "Fantasy", "Supernatural"}, Studio: "Studio Ghibli", Year: 2001, Rating: 8.8},
	{ID: "static-your-name", Title: "Your Name", Genres: []string{"Drama", "Romance", "Supernatural"}, Studio: "CoMix Wave Films", Year: 2016, Rating: 8.8},
	{ID: "static-code-geass", Title: "Code Geass: Lelouch of the Rebellion", Genres: []string{"Action", "Drama", "Mecha", "Sci-Fi"}, Studio: "Sunrise", Year: 2006, Rating: 8.7},
	{ID: "static-one-punch-man", Title: "One Punch Man", Genres: []string{"Action", "Comedy"}, Studio: "Madhouse", Year: 2015, Rating: 8.5},
}

// StaticRecommendations returns the curated list truncated to limit and
// tagged with label. Scores descend by position.
func StaticRecommendations(limit int, label string) []Scored {
	if limit <= 0 || limit > len(staticCatalog) {
		limit = len(staticCatalog)
	}
	out := make([]Scored, limit)
	for i := 0; i < limit; i++ {
		item := staticCatalog[i]
		item.Genres = append([]string(nil), item.Genres...)
		out[i] = Scored{
			Item:   item,
			Score:  float64(len(staticCatalog) - i),
			Source: label,
		}
	}
	return out
}

// staticCatalogSize is the number of curated fallback titles.
func staticCatalogSize() int {
	return len(staticCatalog)
}
