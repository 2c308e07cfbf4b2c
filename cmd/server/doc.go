// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package main is the entry point for the Animerec server application.

Animerec serves anime recommendations over HTTP. It picks a strategy per
request (popular, content, collaborative, hybrid or seeded), degrades to
a curated static list whenever the store is unavailable, records user
interactions and optionally publishes them as events.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("animerec")
	├── DataSupervisor ("data-layer")
	│   └── HistoryWriterService (RECOMMEND_HISTORY_ENABLED=true)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventPublisherService (EVENTS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Startup order:

 1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
 2. Logging: zerolog with JSON or console output
 3. Store: memory, DuckDB or MongoDB, seeded from STORE_SEED_PATH and
    wrapped in a gobreaker circuit breaker
 4. Engine: strategies registered, history writer attached
 5. Events: Watermill publisher over NATS JetStream or an in-process channel
 6. Authentication: HS256 bearer tokens, or X-User-ID when disabled
 7. HTTP: Chi router with CORS, rate limiting, compression and metrics

# Configuration

Common environment variables:

	HTTP_PORT=8080
	STORE_BACKEND=memory|duckdb|mongodb
	SEED_PATH=./data/catalog.json
	DUCKDB_PATH=./data/animerec.duckdb
	MONGODB_URI=mongodb://localhost:27017
	AUTH_ENABLED=true
	JWT_SECRET=<32+ characters>
	EVENTS_ENABLED=false
	EVENTS_BACKEND=nats|memory
	NATS_URL=nats://localhost:4222
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the history writer flushes its queue, the publisher
closes its connection, and the store is closed last.

# Example Usage

Development with the in-memory store:

	export STORE_BACKEND=memory
	export SEED_PATH=./testdata/catalog.json
	export AUTH_ENABLED=false
	./animerec

Production with MongoDB and NATS:

	export STORE_BACKEND=mongodb
	export MONGODB_URI=mongodb://mongo:27017
	export JWT_SECRET=$(openssl rand -base64 32)
	export EVENTS_ENABLED=true
	export NATS_URL=nats://nats:4222
	./animerec
*/
package main
