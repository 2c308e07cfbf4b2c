// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/animerec/internal/api"
	"github.com/tomtom215/animerec/internal/auth"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/supervisor"
	"github.com/tomtom215/animerec/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logger.Info().
		Str("store_backend", cfg.Store.Backend).
		Bool("auth_enabled", cfg.Security.AuthEnabled).
		Bool("events_enabled", cfg.Events.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Animerec with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := initStore(ctx, &cfg.Store, logger.With().Str("component", "store").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing store")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	rec, err := initRecommend(cfg, st, logger, tree)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	publisher, err := initEvents(&cfg.Events, logger.With().Str("component", "events").Logger(), tree)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize interaction events")
	}
	recorder := recommend.NewRecorder(st, publisher, logger)

	authMiddleware := initAuth(&cfg.Security)
	if cfg.ShouldWarnAboutCORS() {
		logger.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*) while authentication is enabled")
	}
	if cfg.Server.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler := api.NewHandler(rec.Engine, recorder, st, api.HandlerConfig{
		MaxLimit:       cfg.Recommend.MaxLimit,
		RequestTimeout: cfg.Recommend.RequestTimeout,
	})
	chiConfig := api.DefaultChiMiddlewareConfig()
	chiConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	chiConfig.RateLimitRequests = cfg.Server.RateLimitReqs
	chiConfig.RateLimitWindow = cfg.Server.RateLimitWindow
	chiConfig.RateLimitDisabled = cfg.Server.RateLimitDisabled
	router := api.NewRouter(handler, authMiddleware, chiConfig)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logger.Info().Str("addr", cfg.Server.Addr()).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logger.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logger.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logger.Info().Msg("Application stopped gracefully")
}

// initAuth builds the bearer token middleware. With authentication
// disabled the caller identity comes from the X-User-ID header.
func initAuth(cfg *config.SecurityConfig) *auth.Middleware {
	if !cfg.AuthEnabled {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_ENABLED=false)")
		logging.Warn().Msg("  Any client can act as any user through the X-User-ID header.")
		logging.Warn().Msg("  NEVER disable authentication on public networks!")
		logging.Warn().Msg("============================================================")
		return auth.NewMiddleware(nil, false, api.WriteError)
	}

	jwtManager, err := auth.NewJWTManager(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	logging.Info().Msg("JWT authentication enabled")
	return auth.NewMiddleware(jwtManager, true, api.WriteError)
}
