// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/models"
)

const testTopic = "animerec.interactions"

func testEvent(id string) *models.InteractionEvent {
	return &models.InteractionEvent{
		EventID:   id,
		UserID:    "u1",
		ItemID:    "aot",
		Type:      models.InteractionWatch,
		Duration:  1400,
		Timestamp: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

// blockingPublisher never returns until released.
type blockingPublisher struct {
	release chan struct{}
}

func (b *blockingPublisher) Publish(string, ...*message.Message) error {
	<-b.release
	return nil
}

func (b *blockingPublisher) Close() error { return nil }

// failingPublisher always fails.
type failingPublisher struct {
	calls int
}

func (f *failingPublisher) Publish(string, ...*message.Message) error {
	f.calls++
	return errors.New("nats: no responders available")
}

func (f *failingPublisher) Close() error { return nil }

func TestPublisher_PublishInteraction(t *testing.T) {
	t.Parallel()

	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := ch.Subscribe(ctx, testTopic)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	pub := NewPublisherWith(ch, testTopic, time.Second)
	defer pub.Close()

	if err := pub.PublishInteraction(ctx, testEvent("evt-1")); err != nil {
		t.Fatalf("PublishInteraction() error = %v", err)
	}

	select {
	case msg := <-msgs:
		msg.Ack()
		if msg.UUID != "evt-1" {
			t.Errorf("UUID = %q, want evt-1", msg.UUID)
		}
		if got := msg.Metadata.Get(natsgo.MsgIdHdr); got != "evt-1" {
			t.Errorf("Nats-Msg-Id = %q, want evt-1", got)
		}
		if got := msg.Metadata.Get("type"); got != "watch" {
			t.Errorf("type metadata = %q, want watch", got)
		}
		event, err := DeserializeEvent(msg.Payload)
		if err != nil {
			t.Fatalf("DeserializeEvent() error = %v", err)
		}
		if event.UserID != "u1" || event.ItemID != "aot" || event.Duration != 1400 {
			t.Errorf("event = %+v", event)
		}
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

func TestPublisher_InvalidEvent(t *testing.T) {
	t.Parallel()

	failing := &failingPublisher{}
	pub := NewPublisherWith(failing, testTopic, time.Second)

	err := pub.PublishInteraction(context.Background(), &models.InteractionEvent{EventID: "x"})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("error = %v, want ErrInvalidEvent", err)
	}
	if failing.calls != 0 {
		t.Errorf("broker called %d times for an invalid event", failing.calls)
	}
}

func TestPublisher_Timeout(t *testing.T) {
	t.Parallel()

	blocking := &blockingPublisher{release: make(chan struct{})}
	defer close(blocking.release)
	pub := NewPublisherWith(blocking, testTopic, 20*time.Millisecond)

	start := time.Now()
	err := pub.PublishInteraction(context.Background(), testEvent("evt-slow"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("publish was not bounded by the timeout")
	}
}

func TestPublisher_BreakerOpens(t *testing.T) {
	t.Parallel()

	failing := &failingPublisher{}
	pub := NewPublisherWith(failing, testTopic, time.Second)

	threshold := int(DefaultCircuitBreakerConfig().FailureThreshold)
	for i := 0; i < threshold; i++ {
		if err := pub.PublishInteraction(context.Background(), testEvent("evt")); err == nil {
			t.Fatal("expected publish failure")
		}
	}
	if pub.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", pub.State())
	}

	err := pub.PublishInteraction(context.Background(), testEvent("evt"))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if failing.calls != threshold {
		t.Errorf("broker calls = %d, want %d", failing.calls, threshold)
	}
}

func TestPublisher_Closed(t *testing.T) {
	t.Parallel()

	pub, err := NewPublisher(&config.EventsConfig{Backend: config.EventsMemory, Topic: testTopic}, nil)
	if err != nil {
		t.Fatalf("NewPublisher() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := pub.PublishInteraction(context.Background(), testEvent("evt")); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("error = %v, want ErrPublisherClosed", err)
	}
}

func TestNewPublisher_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewPublisher(&config.EventsConfig{Backend: "kafka"}, nil); err == nil {
		t.Error("NewPublisher(kafka) error = nil")
	}
}
