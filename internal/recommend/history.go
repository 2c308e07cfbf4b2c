// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
)

// History write outcomes, used as metric labels.
const (
	HistoryResultSuccess = "success"
	HistoryResultError   = "error"
	HistoryResultDropped = "dropped"
)

// HistoryStore persists recommendation history.
type HistoryStore interface {
	AppendRecommendationHistory(ctx context.Context, userID string, entries []models.RecommendationEntry) error
}

type historyJob struct {
	userID  string
	entries []models.RecommendationEntry
}

// HistoryWriter persists served recommendations off the request path.
// Enqueue never blocks; when the queue is full the batch is dropped.
type HistoryWriter struct {
	store   HistoryStore
	queue   chan historyJob
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHistoryWriter creates a history writer with a bounded queue.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHistoryWriter(store HistoryStore, cfg HistoryConfig, logger zerolog.Logger) *HistoryWriter {
	size := cfg.QueueSize
	if size <= 0 {
		size = 1024
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HistoryWriter{
		store:   store,
		queue:   make(chan historyJob, size),
		timeout: timeout,
		logger:  logger.With().Str("component", "recommend-history").Logger(),
	}
}

// Enqueue implements HistorySink.
func (w *HistoryWriter) Enqueue(userID string, entries []models.RecommendationEntry) bool {
	select {
	case w.queue <- historyJob{userID: userID, entries: entries}:
		metrics.HistoryQueueDepth.Set(float64(len(w.queue)))
		return true
	default:
		metrics.RecordHistoryWrite(HistoryResultDropped)
		return false
	}
}

// Pending returns the number of queued batches.
func (w *HistoryWriter) Pending() int {
	return len(w.queue)
}

// Run drains the queue until ctx is canceled, then flushes whatever is
// still queued, each write bounded by the write timeout.
func (w *HistoryWriter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return ctx.Err()
		case job := <-w.queue:
			w.write(ctx, job)
		}
	}
}

func (w *HistoryWriter) flush() {
	for {
		select {
		case job := <-w.queue:
			w.write(context.Background(), job)
		default:
			return
		}
	}
}

func (w *HistoryWriter) write(parent context.Context, job historyJob) {
	metrics.HistoryQueueDepth.Set(float64(len(w.queue)))

	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	if err := w.store.AppendRecommendationHistory(ctx, job.userID, job.entries); err != nil {
		metrics.RecordHistoryWrite(HistoryResultError)
		w.logger.Warn().
			Err(err).
			Str("user_id", job.userID).
			Int("entries", len(job.entries)).
			Msg("recommendation history write failed")
		return
	}
	metrics.RecordHistoryWrite(HistoryResultSuccess)
}

var _ HistorySink = (*HistoryWriter)(nil)
