// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Server: HTTP listener, CORS and rate limiting
//  2. Store: Backend selection (memory, duckdb, mongodb), seeding and the
//     circuit breaker placed in front of every store call
//  3. Recommend: Timeouts, limits, thresholds and weights of the engine
//  4. Security: Bearer token verification
//  5. Events: Interaction event publishing (NATS JetStream or in-process)
//  6. Logging: Log level and output format
//
// Config is immutable after LoadWithKoanf() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Store backends.
const (
	BackendMemory  = "memory"
	BackendDuckDB  = "duckdb"
	BackendMongoDB = "mongodb"
)

// StoreConfig selects and tunes the persistence backend
type StoreConfig struct {
	Backend  string `koanf:"backend"`
	SeedPath string `koanf:"seed_path"` // Optional JSON catalog loaded at startup

	DuckDB  DatabaseConfig `koanf:"duckdb"`
	MongoDB MongoDBConfig  `koanf:"mongodb"`
	Breaker BreakerConfig  `koanf:"breaker"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip index creation (for fast test setup)
}

// MongoDBConfig holds MongoDB settings
type MongoDBConfig struct {
	URI         string        `koanf:"uri"`
	Database    string        `koanf:"database"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxPoolSize uint64        `koanf:"max_pool_size"`
}

// BreakerConfig tunes the store circuit breaker
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	RequestTimeout time.Duration `koanf:"request_timeout"`
	BranchTimeout  time.Duration `koanf:"branch_timeout"`
	MaxLimit       int           `koanf:"max_limit"`

	// Algorithm suggestion thresholds on a user's interaction count
	ContentThreshold int `koanf:"content_threshold"`
	HybridThreshold  int `koanf:"hybrid_threshold"`

	// Collaborative neighbourhood
	MinSimilarity     float64 `koanf:"min_similarity"`
	MaxNeighbors      int     `koanf:"max_neighbors"`
	MaxCandidateUsers int     `koanf:"max_candidate_users"`

	YearWindow int `koanf:"year_window"`

	HistoryEnabled      bool          `koanf:"history_enabled"`
	HistoryQueueSize    int           `koanf:"history_queue_size"`
	HistoryWriteTimeout time.Duration `koanf:"history_write_timeout"`

	// InteractionWeights maps interaction type to signal weight
	InteractionWeights map[string]float64 `koanf:"interaction_weights"`

	HybridContentWeight       float64 `koanf:"hybrid_content_weight"`
	HybridCollaborativeWeight float64 `koanf:"hybrid_collaborative_weight"`
	HybridPopularityWeight    float64 `koanf:"hybrid_popularity_weight"`
}

// SecurityConfig holds bearer token settings
type SecurityConfig struct {
	AuthEnabled bool          `koanf:"auth_enabled"`
	JWTSecret   string        `koanf:"jwt_secret"`
	JWTIssuer   string        `koanf:"jwt_issuer"` // Checked when non-empty
	TokenTTL    time.Duration `koanf:"token_ttl"`  // Lifetime of locally issued tokens
}

// Event bus backends.
const (
	EventsNATS   = "nats"
	EventsMemory = "memory"
)

// EventsConfig holds interaction event publishing settings
type EventsConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Backend        string        `koanf:"backend"` // nats or memory
	URL            string        `koanf:"url"`
	Topic          string        `koanf:"topic"`
	PublishTimeout time.Duration `koanf:"publish_timeout"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
