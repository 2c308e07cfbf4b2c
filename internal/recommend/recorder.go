// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
)

// ErrInvalidInteraction is returned for interactions that fail validation.
var ErrInvalidInteraction = errors.New("invalid interaction")

// RecorderStore is the store surface the recorder writes through.
type RecorderStore interface {
	FindItem(ctx context.Context, id string) (*models.Item, error)
	AppendInteraction(ctx context.Context, userID string, in models.Interaction) error
	IncrementCounter(ctx context.Context, itemID string, counter models.Counter, delta int64) error
}

// InteractionPublisher publishes recorded interactions to downstream consumers.
type InteractionPublisher interface {
	PublishInteraction(ctx context.Context, event *models.InteractionEvent) error
}

// InteractionInput is a request to record one interaction.
type InteractionInput struct {
	UserID   string
	ItemID   string
	Type     models.InteractionType
	Rating   int
	Duration int
}

// Recorder appends interactions and updates item counters.
type Recorder struct {
	store     RecorderStore
	publisher InteractionPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRecorder creates an interaction recorder. publisher may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(store RecorderStore, publisher InteractionPublisher, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		logger:    logger.With().Str("component", "interaction-recorder").Logger(),
		now:       time.Now,
	}
}

// Validate checks an interaction input without touching the store.
func (in *InteractionInput) Validate() error {
	if in.UserID == "" {
		return fmt.Errorf("%w: user is required", ErrInvalidInteraction)
	}
	if in.ItemID == "" {
		return fmt.Errorf("%w: item is required", ErrInvalidInteraction)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInteraction, in.Type)
	}
	if in.Rating != 0 {
		if !in.Type.AllowsRating() {
			return fmt.Errorf("%w: rating is only allowed for %s", ErrInvalidInteraction, models.InteractionRate)
		}
		if in.Rating < 1 || in.Rating > 10 {
			return fmt.Errorf("%w: rating must be between 1 and 10, got %d", ErrInvalidInteraction, in.Rating)
		}
	}
	if in.Duration < 0 {
		return fmt.Errorf("%w: duration must be non-negative, got %d", ErrInvalidInteraction, in.Duration)
	}
	return nil
}

// Record validates and stores an interaction. Counter and publish failures
// are logged and do not fail the call.
//
//nolint:gocritic // hugeParam: input passed by value for immutability
func (r *Recorder) Record(ctx context.Context, input InteractionInput) (*models.Interaction, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := r.store.FindItem(ctx, input.ItemID); err != nil {
		return nil, fmt.Errorf("find item %s: %w", input.ItemID, err)
	}

	in := models.Interaction{
		ItemID:    input.ItemID,
		Type:      input.Type,
		Rating:    input.Rating,
		Duration:  input.Duration,
		Timestamp: r.now().UTC(),
	}
	if err := r.store.AppendInteraction(ctx, input.UserID, in); err != nil {
		return nil, fmt.Errorf("append interaction: %w", err)
	}
	metrics.RecordInteraction(string(input.Type))

	if counter, ok := models.CounterFor(input.Type); ok {
		if err := r.store.IncrementCounter(ctx, input.ItemID, counter, 1); err != nil {
			metrics.CounterIncrementErrors.Inc()
			r.logger.Warn().
				Err(err).
				Str("item_id", input.ItemID).
				Str("counter", string(counter)).
				Msg("item counter increment failed")
		}
	}

	if r.publisher != nil {
		event := &models.InteractionEvent{
			EventID:   uuid.New().String(),
			UserID:    input.UserID,
			ItemID:    input.ItemID,
			Type:      input.Type,
			Rating:    input.Rating,
			Duration:  input.Duration,
			Timestamp: in.Timestamp,
		}
		if err := r.publisher.PublishInteraction(ctx, event); err != nil {
			r.logger.Warn().
				Err(err).
				Str("event_id", event.EventID).
				Msg("interaction event publish failed")
		}
	}

	return &in, nil
}
