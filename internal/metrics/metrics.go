// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of failed store queries",
		},
		[]string{"backend", "operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of served recommendation responses by algorithm label",
		},
		[]string{"algorithm", "guest"},
	)

	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_fallbacks_total",
			Help: "Total number of responses served from the static catalog",
		},
		[]string{"reason"}, // "store_unavailable", "error", "panic"
	)

	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_strategy_duration_seconds",
			Help:    "Duration of a single recommendation strategy run",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	StrategyErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_strategy_errors_total",
			Help: "Total number of failed strategy runs",
		},
		[]string{"strategy"},
	)

	HybridBranchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_hybrid_branch_failures_total",
			Help: "Hybrid branches dropped from the blend after failing",
		},
		[]string{"branch"},
	)

	SeedFallthroughs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_seed_fallthrough_total",
			Help: "Seeded requests that fell through to the regular flow",
		},
	)

	// History Writer Metrics
	HistoryWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_history_writes_total",
			Help: "Recommendation history write attempts",
		},
		[]string{"result"}, // "success", "error", "dropped"
	)

	HistoryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendation_history_queue_depth",
			Help: "Pending recommendation history batches",
		},
	)

	// Interaction Metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of recorded user interactions",
		},
		[]string{"type"},
	)

	CounterIncrementErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "item_counter_increment_errors_total",
			Help: "Item counter increments that failed and were skipped",
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Interaction events handed to the message bus",
		},
		[]string{"result"}, // "success", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordStoreQuery records a store query metric
func RecordStoreQuery(backend, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation counts a served response by its algorithm label.
func RecordRecommendation(algorithm string, guest bool) {
	RecommendationRequests.WithLabelValues(algorithm, strconv.FormatBool(guest)).Inc()
}

// RecordFallback counts a static-catalog response.
func RecordFallback(reason string) {
	RecommendationFallbacks.WithLabelValues(reason).Inc()
}

// RecordStrategy records the duration and outcome of one strategy run.
func RecordStrategy(strategy string, duration time.Duration, err error) {
	StrategyDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if err != nil {
		StrategyErrors.WithLabelValues(strategy).Inc()
	}
}

// RecordHistoryWrite records the outcome of a history write.
func RecordHistoryWrite(result string) {
	HistoryWrites.WithLabelValues(result).Inc()
}

// RecordInteraction counts a recorded interaction.
func RecordInteraction(interactionType string) {
	InteractionsRecorded.WithLabelValues(interactionType).Inc()
}

// RecordEventPublish records the outcome of an event publish.
func RecordEventPublish(err error) {
	if err != nil {
		EventsPublished.WithLabelValues("error").Inc()
		return
	}
	EventsPublished.WithLabelValues("success").Inc()
}
