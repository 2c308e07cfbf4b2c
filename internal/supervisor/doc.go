// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package supervisor provides process supervision for Animerec using suture v4.

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("animerec")
	├── DataSupervisor ("data-layer")
	│   └── HistoryWriterService (if recommend.history_enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventPublisherService (if events.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with suture's backoff; failures are
counted per layer, so a flapping publisher never takes down the API.

Supervisor events are logged through sutureslog backed by the zerolog
slog adapter from internal/logging:

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(srv, timeout, zlog))
	err = tree.Serve(ctx)
*/
package supervisor
