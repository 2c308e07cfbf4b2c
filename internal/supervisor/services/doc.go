// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package services provides suture.Service wrappers for Animerec components.

Each wrapper translates a component's lifecycle into suture's
context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - http.ErrServerClosed is treated as a clean stop

Recommendation History (HistoryWriterService):
  - Runs recommend.HistoryWriter, which drains the bounded history queue
  - Queued batches are flushed by the writer on shutdown

Event Publisher (EventPublisherService):
  - Holds the interaction event publisher open for the process lifetime
  - Closes it, draining the NATS connection, on shutdown

Every wrapper implements fmt.Stringer so suture's event hook can name it.
*/
package services
