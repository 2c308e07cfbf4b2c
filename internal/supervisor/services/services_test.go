// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HistoryWriterService)(nil)
	_ suture.Service = (*EventPublisherService)(nil)
)

// fakeHistory runs until canceled or returns err immediately.
type fakeHistory struct {
	err     error
	started chan struct{}
	runs    atomic.Int32
}

func (f *fakeHistory) Run(ctx context.Context) error {
	f.runs.Add(1)
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeHistory) Pending() int { return 0 }

type fakePublisher struct {
	closed atomic.Int32
	err    error
}

func (f *fakePublisher) Close() error {
	f.closed.Add(1)
	return f.err
}

func TestHistoryWriterService_Serve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		runErr  error
		cancel  bool
		wantErr error
	}{
		{name: "stops on cancel", cancel: true, wantErr: context.Canceled},
		{name: "wraps run failure", runErr: errors.New("queue closed"), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			writer := &fakeHistory{err: tt.runErr, started: make(chan struct{}, 1)}
			svc := NewHistoryWriterService(writer, zerolog.Nop())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			<-writer.started
			if tt.cancel {
				cancel()
			}

			select {
			case err := <-errCh:
				if tt.runErr != nil {
					if !errors.Is(err, tt.runErr) {
						t.Errorf("Serve() error = %v, want wrapped %v", err, tt.runErr)
					}
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Serve() error = %v, want %v", err, tt.wantErr)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Serve did not return")
			}
		})
	}
}

func TestHistoryWriterService_RestartedBySupervisor(t *testing.T) {
	t.Parallel()

	writer := &fakeHistory{err: errors.New("boom")}
	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 100,
		FailureBackoff:   time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewHistoryWriterService(writer, zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for writer.runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("runs = %d, want restart", writer.runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-errCh
}

func TestEventPublisherService_ClosesOnShutdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		closeErr error
	}{
		{name: "clean close"},
		{name: "close error is logged only", closeErr: errors.New("drain timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pub := &fakePublisher{err: tt.closeErr}
			svc := NewEventPublisherService(pub, zerolog.Nop())
			if svc.String() != "event-publisher" {
				t.Errorf("String() = %q", svc.String())
			}

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			time.Sleep(10 * time.Millisecond)
			if pub.closed.Load() != 0 {
				t.Fatal("publisher closed before shutdown")
			}
			cancel()

			select {
			case err := <-errCh:
				if !errors.Is(err, context.Canceled) {
					t.Errorf("Serve() error = %v, want context.Canceled", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Serve did not return")
			}
			if pub.closed.Load() != 1 {
				t.Errorf("Close calls = %d, want 1", pub.closed.Load())
			}
		})
	}
}
