// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/models"
)

// ErrPublisherClosed is returned by PublishInteraction after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher publishes interaction events through Watermill with circuit
// breaker protection and a per-publish timeout.
type Publisher struct {
	publisher      message.Publisher
	topic          string
	timeout        time.Duration
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a publisher for the configured backend: NATS
// JetStream for "nats", an in-process Go channel for "memory".
func NewPublisher(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	var (
		pub message.Publisher
		err error
	)
	switch cfg.Backend {
	case config.EventsNATS:
		pub, err = newNATSPublisher(cfg, logger)
		if err != nil {
			return nil, err
		}
	case config.EventsMemory:
		pub = gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}

	return NewPublisherWith(pub, cfg.Topic, cfg.PublishTimeout), nil
}

// NewPublisherWith wraps an existing Watermill publisher.
func NewPublisherWith(pub message.Publisher, topic string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{
		publisher:      pub,
		topic:          topic,
		timeout:        timeout,
		circuitBreaker: NewCircuitBreaker(DefaultCircuitBreakerConfig()),
	}
}

func newNATSPublisher(cfg *config.EventsConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("animerec"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// PublishInteraction serializes and publishes one interaction event. The
// event ID becomes the message UUID and the Nats-Msg-Id used for
// deduplication.
func (p *Publisher) PublishInteraction(ctx context.Context, event *models.InteractionEvent) (err error) {
	defer func() { metrics.RecordEventPublish(err) }()

	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrPublisherClosed
	}

	data, err := SerializeEvent(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set(natsgo.MsgIdHdr, event.EventID)
	msg.Metadata.Set("user_id", event.UserID)
	msg.Metadata.Set("type", string(event.Type))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	msg.SetContext(ctx)

	_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, p.publishWithContext(ctx, msg)
	})
	return err
}

// publishWithContext bounds a synchronous Watermill publish by ctx.
func (p *Publisher) publishWithContext(ctx context.Context, msg *message.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- p.publisher.Publish(p.topic, msg)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("publish %s: %w", msg.UUID, ctx.Err())
	}
}

// Close shuts down the underlying publisher. It is safe to call twice.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// State reports the circuit breaker state.
func (p *Publisher) State() gobreaker.State {
	return p.circuitBreaker.State()
}
