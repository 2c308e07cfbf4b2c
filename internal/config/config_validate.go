// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateEvents(); err != nil {
		return err
	}

	return c.validateLogging()
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects wildcard CORS in production with authentication enabled.
func (c *Config) validateCORS() error {
	if c.Security.AuthEnabled && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled; " +
			"set specific origins, e.g. CORS_ORIGINS=https://app.example.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthEnabled && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateStore validates backend selection and backend-specific settings
func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendDuckDB:
		if c.Store.DuckDB.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when STORE_BACKEND=duckdb")
		}
		if c.Store.DuckDB.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be non-negative")
		}
	case BackendMongoDB:
		if err := validateMongoURI(c.Store.MongoDB.URI); err != nil {
			return fmt.Errorf("MONGODB_URI is invalid: %w", err)
		}
		if c.Store.MongoDB.Database == "" {
			return fmt.Errorf("MONGODB_DATABASE is required when STORE_BACKEND=mongodb")
		}
		if c.Store.MongoDB.Timeout <= 0 {
			return fmt.Errorf("MONGODB_TIMEOUT must be positive")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: %s, %s, %s", BackendMemory, BackendDuckDB, BackendMongoDB)
	}
	return c.validateBreaker()
}

// validateBreaker validates circuit breaker settings (only if enabled)
func (c *Config) validateBreaker() error {
	b := c.Store.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("store.breaker.failure_ratio must be in (0, 1], got %v", b.FailureRatio)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("STORE_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateRecommend validates engine bounds that the engine itself would
// reject at startup, so a bad value fails at load time with the env name.
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.RequestTimeout <= 0 || r.BranchTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_REQUEST_TIMEOUT and RECOMMEND_BRANCH_TIMEOUT must be positive")
	}
	if r.MaxLimit < 1 {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be at least 1")
	}
	if r.ContentThreshold < 0 || r.HybridThreshold < r.ContentThreshold {
		return fmt.Errorf("RECOMMEND_CONTENT_THRESHOLD must be between 0 and RECOMMEND_HYBRID_THRESHOLD")
	}
	if r.MinSimilarity < 0 || r.MinSimilarity >= 1 {
		return fmt.Errorf("RECOMMEND_MIN_SIMILARITY must be in [0, 1)")
	}
	if r.MaxNeighbors < 1 || r.MaxCandidateUsers < r.MaxNeighbors {
		return fmt.Errorf("RECOMMEND_MAX_CANDIDATE_USERS must be at least RECOMMEND_MAX_NEIGHBORS (>= 1)")
	}
	if r.YearWindow < 0 {
		return fmt.Errorf("RECOMMEND_YEAR_WINDOW must be non-negative")
	}
	if r.HistoryEnabled && r.HistoryQueueSize < 1 {
		return fmt.Errorf("RECOMMEND_HISTORY_QUEUE_SIZE must be at least 1 when history is enabled")
	}
	for name := range r.InteractionWeights {
		if !validInteractionTypes[name] {
			return fmt.Errorf("recommend.interaction_weights: unknown interaction type %q", name)
		}
	}
	return nil
}

// validInteractionTypes mirrors the interaction types accepted by the API
var validInteractionTypes = map[string]bool{
	"view":     true,
	"like":     true,
	"dislike":  true,
	"watch":    true,
	"bookmark": true,
	"share":    true,
	"rate":     true,
}

// minJWTSecretLength is the minimum HMAC secret length in bytes
const minJWTSecretLength = 32

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if !c.Security.AuthEnabled {
		return nil
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED=true")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value; generate a real secret")
	}
	return nil
}

// validateEvents validates event bus configuration (only if enabled)
func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	switch c.Events.Backend {
	case EventsMemory:
	case EventsNATS:
		if err := validateNATSURL(c.Events.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of: %s, %s", EventsNATS, EventsMemory)
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required when EVENTS_ENABLED=true")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
