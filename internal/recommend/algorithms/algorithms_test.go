// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package algorithms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/store"
)

func testCatalog() []models.Item {
	return []models.Item{
		{ID: "fma", Title: "Fullmetal", Genres: []string{"Action", "Drama"}, Studio: "Bones", Year: 2009, Rating: 9.1, ViewCount: 500, BookmarkCount: 40},
		{ID: "mha", Title: "Hero Academia", Genres: []string{"Action", "Comedy"}, Studio: "Bones", Year: 2016, Rating: 8.0, ViewCount: 800, BookmarkCount: 20},
		{ID: "clannad", Title: "Clannad", Genres: []string{"Drama", "Romance"}, Studio: "KyoAni", Year: 2007, Rating: 8.9, ViewCount: 300, BookmarkCount: 10},
		{ID: "kon", Title: "K-On!", Genres: []string{"Comedy", "Music"}, Studio: "KyoAni", Year: 2009, Rating: 7.8, ViewCount: 300, BookmarkCount: 30},
		{ID: "aot", Title: "Attack on Titan", Genres: []string{"Action", "Drama"}, Studio: "Wit", Year: 2013, Rating: 8.5, ViewCount: 800, BookmarkCount: 20},
		{ID: "nana", Title: "Nana", Genres: []string{"Romance", "Music"}, Year: 2006, Rating: 8.4, ViewCount: 100},
	}
}

func newTestStore(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	if err := m.UpsertItems(context.Background(), testCatalog()); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}
	return m
}

func interactions(pairs ...string) []models.Interaction {
	out := make([]models.Interaction, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Interaction{
			ItemID:    pairs[i],
			Type:      models.InteractionType(pairs[i+1]),
			Timestamp: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
		})
	}
	return out
}

func scoredIDs(results []recommend.Scored) []string {
	out := make([]string, len(results))
	for i := range results {
		out[i] = results[i].Item.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}

type testStrategies struct {
	cfg     *recommend.Config
	pop     *Popularity
	content *ContentBased
	collab  *Collaborative
	seeded  *Seeded
}

func newStrategies(t *testing.T, st *store.Memory) testStrategies {
	t.Helper()
	cfg := recommend.DefaultConfig()
	pop := NewPopularity(st, cfg)
	content := NewContentBased(st, cfg, pop)
	return testStrategies{
		cfg:     cfg,
		pop:     pop,
		content: content,
		collab:  NewCollaborative(st, cfg, content),
		seeded:  NewSeeded(st, cfg),
	}
}

func TestPopularity_Order(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	s := newStrategies(t, st)
	ctx := context.Background()

	got, err := s.pop.Recommend(ctx, recommend.Query{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	// views desc, then rating desc breaks both view ties
	want := []string{"aot", "mha", "fma", "clannad", "kon", "nana"}
	if !equalIDs(scoredIDs(got), want) {
		t.Errorf("order = %v, want %v", scoredIDs(got), want)
	}
	for _, r := range got {
		if r.Source != recommend.AlgorithmPopular {
			t.Errorf("Source = %q, want %q", r.Source, recommend.AlgorithmPopular)
		}
		if r.Score != recommend.PopularityScore(&r.Item) {
			t.Errorf("%s score = %v, want ln(views+1)", r.Item.ID, r.Score)
		}
	}

	again, err := s.pop.Recommend(ctx, recommend.Query{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !equalIDs(scoredIDs(got), scoredIDs(again)) {
		t.Errorf("popularity not idempotent: %v then %v", scoredIDs(got), scoredIDs(again))
	}

	limited, err := s.pop.Recommend(ctx, recommend.Query{Limit: 2})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len = %d, want 2", len(limited))
	}
}

func TestPopularity_BookmarkTieBreak(t *testing.T) {
	t.Parallel()
	st := store.NewMemory()
	_ = st.UpsertItems(context.Background(), []models.Item{
		{ID: "low", Genres: []string{"A"}, Rating: 8, ViewCount: 10, BookmarkCount: 1},
		{ID: "high", Genres: []string{"A"}, Rating: 8, ViewCount: 10, BookmarkCount: 9},
	})
	s := newStrategies(t, st)

	got, err := s.pop.Recommend(context.Background(), recommend.Query{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !equalIDs(scoredIDs(got), []string{"high", "low"}) {
		t.Errorf("order = %v, want [high low]", scoredIDs(got))
	}
}

func TestContentBased_ColdStartMatchesPopularity(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	st.PutUser(models.User{ID: "new"})
	s := newStrategies(t, st)
	ctx := context.Background()

	got, err := s.content.Recommend(ctx, recommend.Query{UserID: "new", Limit: 4})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	want, err := s.pop.Recommend(ctx, recommend.Query{Limit: 4})
	if err != nil {
		t.Fatalf("popularity error = %v", err)
	}
	if !equalIDs(scoredIDs(got), scoredIDs(want)) {
		t.Errorf("cold start = %v, want popularity %v", scoredIDs(got), scoredIDs(want))
	}
}

func TestContentBased_Scoring(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	// like fma (Action, Drama, Bones) weight 3, view kon (Comedy, Music, KyoAni) weight 1
	st.PutUser(models.User{ID: "u1", Interactions: interactions("fma", "like", "kon", "view")})
	s := newStrategies(t, st)

	got, err := s.content.Recommend(context.Background(), recommend.Query{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	for _, r := range got {
		if r.Item.ID == "fma" || r.Item.ID == "kon" {
			t.Errorf("interacted item %s recommended", r.Item.ID)
		}
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4 unseen items", len(got))
	}

	if want := []string{"mha", "aot", "clannad", "nana"}; !equalIDs(scoredIDs(got), want) {
		t.Fatalf("order = %v, want %v", scoredIDs(got), want)
	}

	// mha: Action 3/4 + Comedy 1/4 + raw Bones studio weight 3 * 0.3
	mha := testCatalog()[1]
	wantMHA := 0.75 + 0.25 + 0.3*3
	wantMHA += 0.2 * (mha.Rating / 10)
	wantMHA += 0.1 * recommend.PopularityScore(&mha)
	if !almostEqual(got[0].Score, wantMHA) {
		t.Errorf("mha score = %v, want %v", got[0].Score, wantMHA)
	}

	// aot: Action 3/4 + Drama 3/4, no weight for its studio
	aot := testCatalog()[4]
	wantAOT := 0.75 + 0.75
	wantAOT += 0.2 * (aot.Rating / 10)
	wantAOT += 0.1 * recommend.PopularityScore(&aot)
	if !almostEqual(got[1].Score, wantAOT) {
		t.Errorf("aot score = %v, want %v", got[1].Score, wantAOT)
	}

	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("results not sorted at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestContentBased_ZeroTotalWeight(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	// bookmark +4 and two dislikes -4 cancel out
	st.PutUser(models.User{ID: "u", Interactions: interactions("fma", "bookmark", "kon", "dislike", "nana", "dislike")})
	s := newStrategies(t, st)

	got, err := s.content.Recommend(context.Background(), recommend.Query{UserID: "u"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range got {
		item := r.Item
		want := 0.2*(item.Rating/10) + 0.1*recommend.PopularityScore(&item)
		if !almostEqual(r.Score, want) {
			t.Errorf("%s score = %v, want rating+popularity only %v", item.ID, r.Score, want)
		}
	}
}

func TestPersonalized_NoRecordIsColdStart(t *testing.T) {
	t.Parallel()
	s := newStrategies(t, newTestStore(t))
	ctx := context.Background()

	want, err := s.pop.Recommend(ctx, recommend.Query{Limit: 4})
	if err != nil {
		t.Fatalf("popularity error = %v", err)
	}

	tests := []struct {
		name     string
		strategy recommend.Strategy
	}{
		{name: "content", strategy: s.content},
		{name: "collaborative", strategy: s.collab},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.strategy.Recommend(ctx, recommend.Query{UserID: "ghost", Limit: 4})
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !equalIDs(scoredIDs(got), scoredIDs(want)) {
				t.Errorf("no-record user = %v, want popularity %v", scoredIDs(got), scoredIDs(want))
			}
		})
	}
}

func TestCollaborative_CanceledContext(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	st.PutUser(models.User{ID: "me", Interactions: interactions("fma", "watch")})
	st.PutUser(models.User{ID: "other", Interactions: interactions("fma", "watch", "aot", "like")})
	s := newStrategies(t, st)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.collab.Recommend(ctx, recommend.Query{UserID: "me"}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	seen := map[string]struct{}{"fma": {}}
	others := []models.User{{ID: "other", Interactions: interactions("fma", "watch", "aot", "like")}}
	if _, err := s.collab.neighbors(ctx, seen, others); !errors.Is(err, context.Canceled) {
		t.Errorf("neighbors error = %v, want context.Canceled", err)
	}
	near := []neighbor{{user: &others[0], similarity: 0.5}}
	if _, _, err := s.collab.accumulate(ctx, seen, near); !errors.Is(err, context.Canceled) {
		t.Errorf("accumulate error = %v, want context.Canceled", err)
	}
}

func TestCollaborative_Neighbours(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	st.PutUser(models.User{ID: "me", Interactions: interactions("fma", "watch", "aot", "like")})
	// similarity 2/3, contributes mha via watch (5)
	st.PutUser(models.User{ID: "close", Interactions: interactions("fma", "view", "aot", "view", "mha", "watch")})
	// similarity 1/5, contributes clannad via like (3), kon via view (1), nana via dislike (-2)
	st.PutUser(models.User{ID: "far", Interactions: interactions("fma", "view", "clannad", "like", "kon", "view", "nana", "dislike")})
	// similarity 0, ignored
	st.PutUser(models.User{ID: "stranger", Interactions: interactions("kon", "watch")})
	s := newStrategies(t, st)

	got, err := s.collab.Recommend(context.Background(), recommend.Query{UserID: "me"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []string{"mha", "clannad", "kon", "nana"}
	if !equalIDs(scoredIDs(got), want) {
		t.Fatalf("order = %v, want %v", scoredIDs(got), want)
	}

	wantScores := map[string]float64{
		"mha":     5 * (2.0 / 3.0),
		"clannad": 3 * 0.2,
		"kon":     1 * 0.2,
		"nana":    -2 * 0.2,
	}
	for _, r := range got {
		if !almostEqual(r.Score, wantScores[r.Item.ID]) {
			t.Errorf("%s score = %v, want %v", r.Item.ID, r.Score, wantScores[r.Item.ID])
		}
		if r.Source != recommend.AlgorithmCollaborative {
			t.Errorf("Source = %q", r.Source)
		}
		if r.Item.Title == "" {
			t.Errorf("%s item metadata not attached", r.Item.ID)
		}
	}
}

func TestCollaborative_SumsAcrossNeighbours(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	st.PutUser(models.User{ID: "me", Interactions: interactions("fma", "watch")})
	st.PutUser(models.User{ID: "n1", Interactions: interactions("fma", "view", "mha", "like")})
	st.PutUser(models.User{ID: "n2", Interactions: interactions("fma", "view", "mha", "view", "mha", "share")})
	s := newStrategies(t, st)

	got, err := s.collab.Recommend(context.Background(), recommend.Query{UserID: "me"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 || got[0].Item.ID != "mha" {
		t.Fatalf("got %v, want [mha]", scoredIDs(got))
	}
	// n1: 3 * 1/2, n2: (1+2) * 1/2
	if want := 1.5 + 1.5; !almostEqual(got[0].Score, want) {
		t.Errorf("score = %v, want %v", got[0].Score, want)
	}
}

func TestCollaborative_ThresholdIsExclusive(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	st.PutUser(models.User{ID: "me", Interactions: interactions("fma", "watch")})
	st.PutUser(models.User{ID: "n", Interactions: interactions("fma", "view", "mha", "like")})
	s := newStrategies(t, st)
	s.collab.cfg.MinSimilarity = 0.5

	got, err := s.collab.Recommend(context.Background(), recommend.Query{UserID: "me", Limit: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, r := range got {
		if r.Source == recommend.AlgorithmCollaborative {
			t.Fatalf("similarity equal to threshold kept a neighbour: %v", scoredIDs(got))
		}
	}
}

func TestCollaborative_NoNeighboursDelegatesToContent(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	st.PutUser(models.User{ID: "me", Interactions: interactions("fma", "watch")})
	st.PutUser(models.User{ID: "other", Interactions: interactions("kon", "watch")})
	s := newStrategies(t, st)
	ctx := context.Background()

	got, err := s.collab.Recommend(ctx, recommend.Query{UserID: "me", Limit: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	want, err := s.content.Recommend(ctx, recommend.Query{UserID: "me", Limit: 3})
	if err != nil {
		t.Fatalf("content error = %v", err)
	}
	if !equalIDs(scoredIDs(got), scoredIDs(want)) {
		t.Errorf("delegated = %v, want content %v", scoredIDs(got), scoredIDs(want))
	}
	if len(got) > 0 && got[0].Source != recommend.AlgorithmContent {
		t.Errorf("Source = %q, want content", got[0].Source)
	}
}

func TestCollaborative_NeighbourCap(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	st.PutUser(models.User{ID: "me", Interactions: interactions("fma", "watch")})
	st.PutUser(models.User{ID: "best", Interactions: interactions("fma", "view", "mha", "like")})
	st.PutUser(models.User{ID: "worse", Interactions: interactions("fma", "view", "kon", "view", "clannad", "view")})
	s := newStrategies(t, st)
	s.collab.cfg.MaxNeighbors = 1

	got, err := s.collab.Recommend(context.Background(), recommend.Query{UserID: "me"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !equalIDs(scoredIDs(got), []string{"mha"}) {
		t.Errorf("got %v, want only the best neighbour's item", scoredIDs(got))
	}
}

func TestSeeded_ExactScore(t *testing.T) {
	t.Parallel()
	st := store.NewMemory()
	_ = st.UpsertItems(context.Background(), []models.Item{
		{ID: "seed", Genres: []string{"Action", "Drama"}, Studio: "X", Year: 2015, Rating: 7, ViewCount: 10},
		{ID: "cand", Genres: []string{"Drama", "Slice of Life"}, Studio: "X", Year: 2016, Rating: 8, ViewCount: 100},
	})
	s := newStrategies(t, st)

	got, err := s.seeded.Recommend(context.Background(), recommend.Query{SeedID: "seed"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 1 || got[0].Item.ID != "cand" {
		t.Fatalf("got %v, want [cand]", scoredIDs(got))
	}

	w := s.cfg.Weights.Seeded
	yearDiff := 1.0
	rating := 8.0
	want := w.Genre*1 + w.Studio + (w.YearBase - w.YearDecay*yearDiff) + w.Rating*(rating/10) + w.Popularity*recommend.PopularityScore(&models.Item{ViewCount: 100})
	if !almostEqual(got[0].Score, want) {
		t.Errorf("score = %v, want %v", got[0].Score, want)
	}
	if !almostEqual(want, 1+1.5+1.2+0.4+0.25*4.61512051684126) {
		t.Errorf("fixture arithmetic drifted: %v", want)
	}
}

func TestSeeded_Candidates(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	_ = st.UpsertItems(context.Background(), []models.Item{
		{ID: "old", Genres: []string{"Sports"}, Year: 1990, Rating: 9, ViewCount: 1000},
		{ID: "sameyear", Genres: []string{"Sports"}, Year: 2011, Rating: 5},
	})
	s := newStrategies(t, st)

	got, err := s.seeded.Recommend(context.Background(), recommend.Query{SeedID: "fma"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	seen := make(map[string]bool)
	for _, r := range got {
		seen[r.Item.ID] = true
		if r.Source != recommend.AlgorithmSeeded {
			t.Errorf("Source = %q", r.Source)
		}
	}
	if seen["fma"] {
		t.Error("seed returned as its own candidate")
	}
	if seen["old"] {
		t.Error("item matching no filter returned")
	}
	// mha (studio+genre), aot (genre), clannad (genre+year), kon (year), sameyear (year)
	for _, id := range []string{"mha", "aot", "clannad", "kon", "sameyear"} {
		if !seen[id] {
			t.Errorf("candidate %s missing", id)
		}
	}
	if seen["nana"] {
		t.Error("nana matches no filter but was returned")
	}
}

func TestSeeded_Errors(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	_ = st.UpsertItems(context.Background(), []models.Item{{ID: "bare", Title: "Bare"}})
	s := newStrategies(t, st)
	ctx := context.Background()

	if _, err := s.seeded.Recommend(ctx, recommend.Query{SeedID: "missing"}); !recommend.IsNotFound(err) {
		t.Errorf("missing seed error = %v, want not found", err)
	}
	if _, err := s.seeded.Recommend(ctx, recommend.Query{}); !recommend.IsNotFound(err) {
		t.Errorf("empty seed error = %v, want not found", err)
	}

	got, err := s.seeded.Recommend(ctx, recommend.Query{SeedID: "bare"})
	if err != nil {
		t.Fatalf("bare seed error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("bare seed candidates = %v, want none", scoredIDs(got))
	}
}
