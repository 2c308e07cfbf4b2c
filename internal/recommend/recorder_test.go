// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/store"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*models.InteractionEvent
	err    error
}

func (p *capturePublisher) PublishInteraction(_ context.Context, e *models.InteractionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

// failingCounterStore wraps Memory and fails every counter increment.
type failingCounterStore struct {
	*store.Memory
}

func (failingCounterStore) IncrementCounter(context.Context, string, models.Counter, int64) error {
	return errors.New("counter shard offline")
}

func newRecorderStore(t *testing.T) *store.Memory {
	t.Helper()
	st := store.NewMemory()
	if err := st.UpsertItems(context.Background(), []models.Item{{ID: "fma", Title: "Fullmetal Alchemist"}}); err != nil {
		t.Fatalf("UpsertItems() error = %v", err)
	}
	return st
}

func TestInteractionInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   InteractionInput
		wantErr bool
	}{
		{"valid view", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionView}, false},
		{"valid rate", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionRate, Rating: 10}, false},
		{"rate without rating", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionRate}, false},
		{"watch with duration", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionWatch, Duration: 1440}, false},
		{"missing user", InteractionInput{ItemID: "fma", Type: models.InteractionView}, true},
		{"missing item", InteractionInput{UserID: "u", Type: models.InteractionView}, true},
		{"unknown type", InteractionInput{UserID: "u", ItemID: "fma", Type: "binge"}, true},
		{"rating on like", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionLike, Rating: 5}, true},
		{"rating too high", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionRate, Rating: 11}, true},
		{"rating negative", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionRate, Rating: -1}, true},
		{"negative duration", InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionWatch, Duration: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInteraction) {
				t.Errorf("error %v does not wrap ErrInvalidInteraction", err)
			}
		})
	}
}

func TestRecorder_Record(t *testing.T) {
	t.Parallel()

	st := newRecorderStore(t)
	pub := &capturePublisher{}
	r := NewRecorder(st, pub, zerolog.Nop())
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.FixedZone("JST", 9*3600))
	r.now = func() time.Time { return now }

	in, err := r.Record(context.Background(), InteractionInput{UserID: "new-user", ItemID: "fma", Type: models.InteractionView})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !in.Timestamp.Equal(now) || in.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want %v in UTC", in.Timestamp, now)
	}

	u, err := st.FindUser(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if len(u.Interactions) != 1 || u.Interactions[0].Type != models.InteractionView {
		t.Errorf("interactions = %+v", u.Interactions)
	}

	item, _ := st.FindItem(context.Background(), "fma")
	if item.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1", item.ViewCount)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	e := pub.events[0]
	if e.EventID == "" || e.UserID != "new-user" || e.ItemID != "fma" || e.Type != models.InteractionView {
		t.Errorf("event = %+v", e)
	}
}

func TestRecorder_CounterPerType(t *testing.T) {
	t.Parallel()

	st := newRecorderStore(t)
	r := NewRecorder(st, nil, zerolog.Nop())
	for _, typ := range models.InteractionTypes {
		input := InteractionInput{UserID: "u", ItemID: "fma", Type: typ}
		if typ == models.InteractionRate {
			input.Rating = 8
		}
		if _, err := r.Record(context.Background(), input); err != nil {
			t.Fatalf("Record(%s) error = %v", typ, err)
		}
	}

	item, _ := st.FindItem(context.Background(), "fma")
	if item.ViewCount != 1 || item.WatchCount != 1 || item.BookmarkCount != 1 || item.ShareCount != 1 {
		t.Errorf("counters = view %d watch %d bookmark %d share %d, want 1 each",
			item.ViewCount, item.WatchCount, item.BookmarkCount, item.ShareCount)
	}
	u, _ := st.FindUser(context.Background(), "u")
	if len(u.Interactions) != len(models.InteractionTypes) {
		t.Errorf("interactions = %d, want %d", len(u.Interactions), len(models.InteractionTypes))
	}
}

func TestRecorder_Failures(t *testing.T) {
	t.Parallel()

	t.Run("invalid input touches nothing", func(t *testing.T) {
		t.Parallel()
		st := newRecorderStore(t)
		r := NewRecorder(st, nil, zerolog.Nop())
		_, err := r.Record(context.Background(), InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionLike, Rating: 3})
		if !errors.Is(err, ErrInvalidInteraction) {
			t.Fatalf("error = %v, want ErrInvalidInteraction", err)
		}
		if _, err := st.FindUser(context.Background(), "u"); !errors.Is(err, store.ErrNotFound) {
			t.Error("invalid interaction created a user")
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		t.Parallel()
		r := NewRecorder(newRecorderStore(t), nil, zerolog.Nop())
		_, err := r.Record(context.Background(), InteractionInput{UserID: "u", ItemID: "nope", Type: models.InteractionView})
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("counter failure is swallowed", func(t *testing.T) {
		t.Parallel()
		st := newRecorderStore(t)
		r := NewRecorder(failingCounterStore{st}, nil, zerolog.Nop())
		if _, err := r.Record(context.Background(), InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionWatch}); err != nil {
			t.Fatalf("Record() error = %v, want nil", err)
		}
		u, _ := st.FindUser(context.Background(), "u")
		if len(u.Interactions) != 1 {
			t.Error("interaction not appended")
		}
	})

	t.Run("publish failure is swallowed", func(t *testing.T) {
		t.Parallel()
		pub := &capturePublisher{err: errors.New("broker down")}
		r := NewRecorder(newRecorderStore(t), pub, zerolog.Nop())
		if _, err := r.Record(context.Background(), InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionShare}); err != nil {
			t.Fatalf("Record() error = %v, want nil", err)
		}
		if len(pub.events) != 1 {
			t.Error("publisher not called")
		}
	})

	t.Run("store unavailable", func(t *testing.T) {
		t.Parallel()
		st := newRecorderStore(t)
		st.SetAvailable(false)
		r := NewRecorder(st, nil, zerolog.Nop())
		_, err := r.Record(context.Background(), InteractionInput{UserID: "u", ItemID: "fma", Type: models.InteractionView})
		if !errors.Is(err, store.ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})
}
