// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names one child supervisor of the tree.
type Layer string

const (
	// LayerData runs the recommendation history writer.
	LayerData Layer = "data-layer"
	// LayerMessaging runs the interaction event publisher.
	LayerMessaging Layer = "messaging-layer"
	// LayerAPI runs the HTTP server.
	LayerAPI Layer = "api-layer"
)

// layerOrder is the start order; suture stops children in reverse.
var layerOrder = []Layer{LayerData, LayerMessaging, LayerAPI}

// TreeConfig controls restart backoff and shutdown for every layer.
// Zero fields take the DefaultTreeConfig value.
type TreeConfig struct {
	FailureThreshold float64       // failures tolerated before backoff
	FailureDecay     float64       // seconds for the failure count to decay
	FailureBackoff   time.Duration // pause once the threshold is crossed
	ShutdownTimeout  time.Duration // per-service stop deadline
}

// DefaultTreeConfig mirrors suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the root supervisor of the server with one child
// supervisor per Layer. A crashing history writer or publisher is
// restarted inside its own layer while the API keeps serving.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewSupervisorTree builds the root and its layer supervisors. Suture
// events are logged through logger, or slog.Default when nil.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		logger = slog.Default()
	}
	config = config.withDefaults()

	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	tree := &SupervisorTree{
		root:   suture.New("animerec", config.spec(hook)),
		layers: make(map[Layer]*suture.Supervisor, len(layerOrder)),
		logger: logger,
		config: config,
	}
	for _, layer := range layerOrder {
		// Layers inherit the root's event hook when added.
		child := suture.New(string(layer), config.spec(nil))
		tree.root.Add(child)
		tree.layers[layer] = child
	}
	return tree, nil
}

// Root exposes the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// Add places svc under the given layer's supervisor.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	return t.layers[layer].Add(svc)
}

// AddDataService adds svc to LayerData.
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerData, svc)
}

// AddMessagingService adds svc to LayerMessaging.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerMessaging, svc)
}

// AddAPIService adds svc to LayerAPI.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerAPI, svc)
}

// Serve runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The returned channel
// yields the root's exit error once it stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown deadline.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
