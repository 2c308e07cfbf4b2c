// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: propagates X-Request-ID or generates a UUID, and stores it
    in the context for logging.Ctx and error envelopes
  - PrometheusMetrics: request count, latency histogram and in-flight gauge,
    labelled by chi route pattern
  - Compression: gzip for clients sending Accept-Encoding: gzip

All middleware has the func(http.Handler) http.Handler shape used by chi.

Order in the router:

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
*/
package middleware
