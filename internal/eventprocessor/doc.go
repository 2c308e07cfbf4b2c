// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package eventprocessor publishes recorded interactions to a message bus.

Every successfully recorded interaction is published as a JSON
models.InteractionEvent so downstream consumers (analytics, model
training) can react without polling the store. Publishing is best effort:
the recorder logs and swallows failures.

# Backends

	nats    NATS JetStream via watermill-nats; streams are auto-provisioned
	memory  in-process Watermill Go channel, for tests and single-node runs

# Resilience

  - Circuit breaker (sony/gobreaker) opens after consecutive failures
  - Each publish is bounded by EventsConfig.PublishTimeout
  - The event ID is sent as Nats-Msg-Id for JetStream deduplication

Watermill and NATS logs are routed through zerolog with NewLoggerAdapter.
*/
package eventprocessor
