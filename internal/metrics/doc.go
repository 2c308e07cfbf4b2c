// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package metrics provides Prometheus metrics for Animerec.

All collectors are registered on the default registry through promauto
and exposed at /metrics by the API router.

# Available Metrics

Recommendation engine:
  - recommendation_requests_total{algorithm, guest}: served responses by label
  - recommendation_fallbacks_total{reason}: static catalog responses
  - recommendation_strategy_duration_seconds{strategy}: per-strategy latency
  - recommendation_strategy_errors_total{strategy}: failed strategy runs
  - recommendation_hybrid_branch_failures_total{branch}: dropped hybrid branches
  - recommendation_seed_fallthrough_total: seeded requests that fell through
  - recommendation_history_writes_total{result}: history write outcomes
  - recommendation_history_queue_depth: pending history batches

Interactions and events:
  - interactions_recorded_total{type}
  - item_counter_increment_errors_total
  - events_published_total{result}

Infrastructure:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total{endpoint}
  - store_query_duration_seconds, store_query_errors_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	results, err := strategy.Recommend(ctx, q)
	metrics.RecordStrategy(strategy.Name(), time.Since(start), err)
*/
package metrics
