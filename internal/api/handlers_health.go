// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/animerec/internal/logging"
)

// HealthStatus is the payload of the health probes.
type HealthStatus struct {
	Status         string  `json:"status"`
	StoreConnected bool    `json:"store_connected,omitempty"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(&HealthStatus{
		Status:        "alive",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 only when the store answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logging.CtxWarn(r.Context()).Err(err).Msg("Readiness check failed")
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Store is not reachable", &HealthStatus{
			Status:         "not_ready",
			StoreConnected: false,
			UptimeSeconds:  time.Since(h.startTime).Seconds(),
		})
		return
	}

	rw.Success(&HealthStatus{
		Status:         "ready",
		StoreConnected: true,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	})
}
