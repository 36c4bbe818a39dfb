// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

/*
Package api exposes the feed engine over HTTP.

All endpoints live under /api/v1 and return the standard envelope:

	{"status": "success", "data": ..., "metadata": {...}}
	{"status": "error", "data": null, "error": {"code": ..., "message": ...}}

Endpoints:

	GET  /api/v1/feed             ranked, diversified feed page
	GET  /api/v1/trending         engagement-velocity ranking
	GET  /api/v1/recommendations  typed lists: posts, helpers, shops, events
	GET  /api/v1/digest           periodic neighborhood summary
	POST /api/v1/engagement       record one engagement event
	GET  /api/v1/interests        read the viewer's interest profile
	PUT  /api/v1/interests        replace the viewer's interest profile
	GET  /api/v1/health           health status (+ /live, /ready probes)
	GET  /metrics                 Prometheus exposition

Unknown recommendation kinds and trending timeframes degrade rather
than fail: an empty list and the default timeframe respectively, both
with HTTP 200. Validation failures are 400; accessor failures are 500.
*/
package api
