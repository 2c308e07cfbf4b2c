// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package eventprocessor

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/models"
)

// ErrInvalidEvent is returned when an event is missing required fields.
var ErrInvalidEvent = errors.New("invalid interaction event")

// ValidateEvent checks the fields every consumer relies on.
func ValidateEvent(event *models.InteractionEvent) error {
	switch {
	case event == nil:
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	case event.EventID == "":
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	case event.UserID == "":
		return fmt.Errorf("%w: user_id is required", ErrInvalidEvent)
	case event.ItemID == "":
		return fmt.Errorf("%w: item_id is required", ErrInvalidEvent)
	case !event.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	case event.Timestamp.IsZero():
		return fmt.Errorf("%w: timestamp is required", ErrInvalidEvent)
	}
	return nil
}

// SerializeEvent validates and encodes an event as JSON.
func SerializeEvent(event *models.InteractionEvent) ([]byte, error) {
	if err := ValidateEvent(event); err != nil {
		return nil, err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// DeserializeEvent decodes a JSON event.
func DeserializeEvent(data []byte) (*models.InteractionEvent, error) {
	var event models.InteractionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &event, nil
}
