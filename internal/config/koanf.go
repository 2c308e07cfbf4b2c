// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/animerec/config.yaml",
	"/etc/animerec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Store: StoreConfig{
			Backend:  BackendMemory,
			SeedPath: "",
			DuckDB: DatabaseConfig{
				Path:                   "./data/animerec.duckdb",
				MaxMemory:              "1GB",
				Threads:                0, // 0 = use runtime.NumCPU()
				PreserveInsertionOrder: true,
			},
			MongoDB: MongoDBConfig{
				URI:         "mongodb://localhost:27017",
				Database:    "animerec",
				Timeout:     10 * time.Second,
				MaxPoolSize: 100,
			},
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Recommend: RecommendConfig{
			RequestTimeout:      10 * time.Second,
			BranchTimeout:       5 * time.Second,
			MaxLimit:            100,
			ContentThreshold:    5,
			HybridThreshold:     20,
			MinSimilarity:       0.1,
			MaxNeighbors:        50,
			MaxCandidateUsers:   5000,
			YearWindow:          2,
			HistoryEnabled:      true,
			HistoryQueueSize:    1024,
			HistoryWriteTimeout: 5 * time.Second,
			InteractionWeights: map[string]float64{
				"view":     1,
				"like":     3,
				"dislike":  -2,
				"watch":    5,
				"bookmark": 4,
				"share":    2,
				"rate":     3,
			},
			HybridContentWeight:       0.5,
			HybridCollaborativeWeight: 0.3,
			HybridPopularityWeight:    0.2,
		},
		Security: SecurityConfig{
			AuthEnabled: true,
			JWTSecret:   "",
			JWTIssuer:   "",
			TokenTTL:    24 * time.Hour,
		},
		Events: EventsConfig{
			Enabled:        false, // Disabled by default - opt-in only
			Backend:        EventsNATS,
			URL:            "nats://localhost:4222",
			Topic:          "animerec.interactions",
			PublishTimeout: 5 * time.Second,
			MaxReconnects:  -1, // Unlimited
			ReconnectWait:  2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// load is LoadWithKoanf with an explicit config file path.
func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, DUCKDB_PATH -> store.duckdb.path
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak
// into the configuration.
var envMappings = map[string]string{
	// Server mappings
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Store mappings
	"store_backend":               "store.backend",
	"seed_path":                   "store.seed_path",
	"duckdb_path":                 "store.duckdb.path",
	"duckdb_max_memory":           "store.duckdb.max_memory",
	"duckdb_threads":              "store.duckdb.threads",
	"mongodb_uri":                 "store.mongodb.uri",
	"mongodb_database":            "store.mongodb.database",
	"mongodb_timeout":             "store.mongodb.timeout",
	"mongodb_max_pool_size":       "store.mongodb.max_pool_size",
	"store_breaker_enabled":       "store.breaker.enabled",
	"store_breaker_timeout":       "store.breaker.timeout",
	"store_breaker_failure_ratio": "store.breaker.failure_ratio",

	// Recommendation engine mappings
	"recommend_request_timeout":       "recommend.request_timeout",
	"recommend_branch_timeout":        "recommend.branch_timeout",
	"recommend_max_limit":             "recommend.max_limit",
	"recommend_content_threshold":     "recommend.content_threshold",
	"recommend_hybrid_threshold":      "recommend.hybrid_threshold",
	"recommend_min_similarity":        "recommend.min_similarity",
	"recommend_max_neighbors":         "recommend.max_neighbors",
	"recommend_max_candidate_users":   "recommend.max_candidate_users",
	"recommend_year_window":           "recommend.year_window",
	"recommend_history_enabled":       "recommend.history_enabled",
	"recommend_history_queue_size":    "recommend.history_queue_size",
	"recommend_history_write_timeout": "recommend.history_write_timeout",
	"recommend_weight_view":           "recommend.interaction_weights.view",
	"recommend_weight_like":           "recommend.interaction_weights.like",
	"recommend_weight_dislike":        "recommend.interaction_weights.dislike",
	"recommend_weight_watch":          "recommend.interaction_weights.watch",
	"recommend_weight_bookmark":       "recommend.interaction_weights.bookmark",
	"recommend_weight_share":          "recommend.interaction_weights.share",
	"recommend_weight_rate":           "recommend.interaction_weights.rate",

	// Security mappings
	"auth_enabled": "security.auth_enabled",
	"jwt_secret":   "security.jwt_secret",
	"jwt_issuer":   "security.jwt_issuer",
	"token_ttl":    "security.token_ttl",

	// Event mappings
	"events_enabled":         "events.enabled",
	"events_backend":         "events.backend",
	"nats_url":               "events.url",
	"events_topic":           "events.topic",
	"events_publish_timeout": "events.publish_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return the empty string and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
