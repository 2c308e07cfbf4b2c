// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
)

// BreakerConfig tunes the circuit breaker placed in front of a Store.
type BreakerConfig struct {
	// Name labels metrics and log lines.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// MinRequests is the minimum sample before the failure ratio is evaluated.
	MinRequests uint32

	// FailureRatio trips the breaker when reached.
	FailureRatio float64
}

// DefaultBreakerConfig returns conservative production values.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "store",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// Breaker wraps a Store with circuit breaker protection. While the circuit
// is open every call fails fast with an error wrapping ErrUnavailable.
// ErrNotFound and caller cancellation do not count as failures.
type Breaker struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// WithBreaker wraps next with a circuit breaker.
func WithBreaker(next Store, cfg BreakerConfig) *Breaker {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureRatio <= 0 || cfg.FailureRatio > 1 {
		cfg.FailureRatio = def.FailureRatio
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logging.Warn().
					Str("breaker", cfg.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &Breaker{next: next, cb: cb, name: cfg.Name}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// guard runs fn through the breaker and records the outcome.
func guard[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return zero, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return zero, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	typed, ok := result.(T)
	if !ok && result != nil {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// guardErr is guard for calls that only return an error.
func guardErr(b *Breaker, fn func() error) error {
	_, err := guard(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Ping implements Store.
func (b *Breaker) Ping(ctx context.Context) error {
	return guardErr(b, func() error { return b.next.Ping(ctx) })
}

// Close implements Store. It bypasses the breaker.
func (b *Breaker) Close() error {
	return b.next.Close()
}

// FindItem implements ItemReader.
func (b *Breaker) FindItem(ctx context.Context, id string) (*models.Item, error) {
	return guard(b, func() (*models.Item, error) { return b.next.FindItem(ctx, id) })
}

// FindItems implements ItemReader.
func (b *Breaker) FindItems(ctx context.Context, q ItemQuery) ([]models.Item, error) {
	return guard(b, func() ([]models.Item, error) { return b.next.FindItems(ctx, q) })
}

// CountItems implements ItemReader.
func (b *Breaker) CountItems(ctx context.Context, q ItemQuery) (int, error) {
	return guard(b, func() (int, error) { return b.next.CountItems(ctx, q) })
}

// IncrementCounter implements ItemWriter.
func (b *Breaker) IncrementCounter(ctx context.Context, itemID string, counter models.Counter, delta int64) error {
	return guardErr(b, func() error { return b.next.IncrementCounter(ctx, itemID, counter, delta) })
}

// FindUser implements UserReader.
func (b *Breaker) FindUser(ctx context.Context, id string) (*models.User, error) {
	return guard(b, func() (*models.User, error) { return b.next.FindUser(ctx, id) })
}

// FindUsers implements UserReader.
func (b *Breaker) FindUsers(ctx context.Context, q UserQuery) ([]models.User, error) {
	return guard(b, func() ([]models.User, error) { return b.next.FindUsers(ctx, q) })
}

// AppendInteraction implements UserWriter.
func (b *Breaker) AppendInteraction(ctx context.Context, userID string, in models.Interaction) error {
	return guardErr(b, func() error { return b.next.AppendInteraction(ctx, userID, in) })
}

// AppendRecommendationHistory implements UserWriter.
func (b *Breaker) AppendRecommendationHistory(ctx context.Context, userID string, entries []models.RecommendationEntry) error {
	return guardErr(b, func() error { return b.next.AppendRecommendationHistory(ctx, userID, entries) })
}

// MarkRecommendationClicked implements UserWriter.
func (b *Breaker) MarkRecommendationClicked(ctx context.Context, userID, itemID string) error {
	return guardErr(b, func() error { return b.next.MarkRecommendationClicked(ctx, userID, itemID) })
}

// UpsertItems implements ItemSeeder when the wrapped store does.
func (b *Breaker) UpsertItems(ctx context.Context, items []models.Item) error {
	seeder, ok := b.next.(ItemSeeder)
	if !ok {
		return fmt.Errorf("store %T does not support seeding", b.next)
	}
	return guardErr(b, func() error { return seeder.UpsertItems(ctx, items) })
}

// stateToFloat converts breaker state to the gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

var (
	_ Store      = (*Breaker)(nil)
	_ ItemSeeder = (*Breaker)(nil)
)
