// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package api provides the HTTP REST API layer for Animerec.

Routes:

	GET  /api/v1/recommendations                  optional auth, selection ladder
	GET  /api/v1/recommendations/popular          popularity strategy
	GET  /api/v1/recommendations/similar/{itemID} seeded strategy, 404 on missing seed
	POST /api/v1/recommendations/{itemID}/click   required auth, click tracking
	POST /api/v1/interactions                     required auth, interaction recorder
	GET  /api/v1/items/{itemID}                   item lookup
	GET  /health/live, /health/ready              probes
	GET  /metrics                                 Prometheus

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "ITEM_NOT_FOUND", "message": "..."}, "meta": {...}}

GET /api/v1/recommendations never answers with an error status for
recommendation failures. Store outages and internal errors are served as
the curated static list with degraded set in the data payload. A bearer
token that is present but invalid is still rejected with 401.

Middleware order: request ID, real IP, Prometheus metrics, panic
recovery and CORS on every route; per-IP rate limiting (go-chi/httprate)
and gzip compression on /api/v1 only.

Usage Example:

	handler := api.NewHandler(engine, recorder, st, api.HandlerConfig{MaxLimit: 100})
	router := api.NewRouter(handler, authMiddleware, chiConfig)
	srv := &http.Server{Addr: ":8080", Handler: router.SetupChi()}
*/
package api
