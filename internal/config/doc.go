// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package config provides centralized configuration management for Animerec.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file (CONFIG_PATH, or config.yaml / /etc/animerec/config.yaml), then
environment variables. Only environment variables listed in the mapping
table are read.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT: Listen address (default: 0.0.0.0:8080)
  - HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT: Request and shutdown timeouts
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Store:
  - STORE_BACKEND: memory, duckdb or mongodb (default: memory)
  - SEED_PATH: JSON catalog loaded at startup
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - MONGODB_URI, MONGODB_DATABASE, MONGODB_TIMEOUT, MONGODB_MAX_POOL_SIZE
  - STORE_BREAKER_ENABLED, STORE_BREAKER_TIMEOUT, STORE_BREAKER_FAILURE_RATIO

Recommendation engine:
  - RECOMMEND_REQUEST_TIMEOUT, RECOMMEND_BRANCH_TIMEOUT, RECOMMEND_MAX_LIMIT
  - RECOMMEND_CONTENT_THRESHOLD, RECOMMEND_HYBRID_THRESHOLD
  - RECOMMEND_MIN_SIMILARITY, RECOMMEND_MAX_NEIGHBORS, RECOMMEND_MAX_CANDIDATE_USERS
  - RECOMMEND_YEAR_WINDOW
  - RECOMMEND_HISTORY_ENABLED, RECOMMEND_HISTORY_QUEUE_SIZE, RECOMMEND_HISTORY_WRITE_TIMEOUT
  - RECOMMEND_WEIGHT_<TYPE>: Interaction weight per type (view, like, ...)

Security:
  - AUTH_ENABLED, JWT_SECRET (at least 32 characters), JWT_ISSUER, TOKEN_TTL

Events:
  - EVENTS_ENABLED, EVENTS_BACKEND (nats or memory), NATS_URL, EVENTS_TOPIC,
    EVENTS_PUBLISH_TIMEOUT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
