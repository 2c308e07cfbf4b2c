// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/eventprocessor"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/supervisor"
	"github.com/tomtom215/animerec/internal/supervisor/services"
)

// initEvents creates the interaction event publisher and hands its
// lifetime to the messaging layer. Returns a nil publisher when events
// are disabled so the recorder skips publishing entirely.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(cfg *config.EventsConfig, logger zerolog.Logger, tree *supervisor.SupervisorTree) (recommend.InteractionPublisher, error) {
	if !cfg.Enabled {
		logger.Info().Msg("interaction events disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	pub, err := eventprocessor.NewPublisher(cfg, eventprocessor.NewLoggerAdapter(logger))
	if err != nil {
		return nil, fmt.Errorf("create event publisher: %w", err)
	}
	if tree != nil {
		tree.AddMessagingService(services.NewEventPublisherService(pub, logger))
	}

	logger.Info().
		Str("backend", cfg.Backend).
		Str("topic", cfg.Topic).
		Msg("interaction event publisher started")
	return pub, nil
}
