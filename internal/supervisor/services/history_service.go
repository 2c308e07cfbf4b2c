// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// HistoryRunner drains the recommendation history queue until ctx is
// canceled. Satisfied by *recommend.HistoryWriter.
type HistoryRunner interface {
	Run(ctx context.Context) error
	Pending() int
}

// HistoryWriterService supervises the recommendation history writer.
// Batches still queued at shutdown are flushed by the writer itself.
type HistoryWriterService struct {
	writer HistoryRunner
	logger zerolog.Logger
	name   string
}

// NewHistoryWriterService creates a history writer service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHistoryWriterService(writer HistoryRunner, logger zerolog.Logger) *HistoryWriterService {
	return &HistoryWriterService{
		writer: writer,
		logger: logger.With().Str("service", "recommend-history").Logger(),
		name:   "recommend-history",
	}
}

// Serve implements suture.Service.
func (s *HistoryWriterService) Serve(ctx context.Context) error {
	s.logger.Info().Int("pending", s.writer.Pending()).Msg("history writer starting")

	err := s.writer.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("history writer: %w", err)
	}

	s.logger.Info().Int("pending", s.writer.Pending()).Msg("history writer stopped")
	return err
}

// String implements fmt.Stringer for suture's log messages.
func (s *HistoryWriterService) String() string {
	return s.name
}
