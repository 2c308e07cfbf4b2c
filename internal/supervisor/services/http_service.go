// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServerService runs the recommendation API server in the api layer.
//
// The listener is bound inside Serve so a busy port fails the service
// instead of a detached goroutine. On cancellation in-flight requests
// get shutdownTimeout to drain.
//
//	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second, logger))
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger

	mu   sync.Mutex
	addr net.Addr
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout selects 10s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "http-server").Logger(),
	}
}

// Addr is the bound listener address, or nil before Serve has bound one.
func (h *HTTPServerService) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("http server listen on %q: %w", h.server.Addr, err)
	}

	h.mu.Lock()
	h.addr = ln.Addr()
	h.mu.Unlock()
	h.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	served := make(chan error, 1)
	go func() { served <- h.server.Serve(ln) }()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("HTTP server draining")
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-served
	return ctx.Err()
}

// String implements fmt.Stringer for suture's log messages.
func (h *HTTPServerService) String() string {
	return "http-server"
}
