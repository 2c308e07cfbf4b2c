// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"

	"github.com/rs/zerolog"
)

// EventPublisher is the lifecycle surface of the interaction event
// publisher. Satisfied by *eventprocessor.Publisher.
type EventPublisher interface {
	Close() error
}

// EventPublisherService owns the publisher's lifetime inside the
// messaging layer: it blocks until shutdown and then closes the
// publisher, flushing the underlying NATS connection.
//
//	pub, _ := eventprocessor.NewPublisher(&cfg.Events, adapter)
//	tree.AddMessagingService(services.NewEventPublisherService(pub, logger))
type EventPublisherService struct {
	publisher EventPublisher
	logger    zerolog.Logger
	name      string
}

// NewEventPublisherService creates a publisher service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventPublisherService(publisher EventPublisher, logger zerolog.Logger) *EventPublisherService {
	return &EventPublisherService{
		publisher: publisher,
		logger:    logger.With().Str("service", "event-publisher").Logger(),
		name:      "event-publisher",
	}
}

// Serve implements suture.Service.
func (s *EventPublisherService) Serve(ctx context.Context) error {
	<-ctx.Done()

	if err := s.publisher.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("event publisher close failed")
	} else {
		s.logger.Info().Msg("event publisher closed")
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture's log messages.
func (s *EventPublisherService) String() string {
	return s.name
}
