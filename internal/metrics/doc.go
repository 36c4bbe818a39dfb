// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)

Feed Pipeline Metrics:
  - feed_request_duration_seconds: Full ranking pipeline duration (histogram)
  - feed_candidates_scored: Candidate pool size per request (histogram)
  - feed_diversity_fallbacks_total: Diversification slots filled by
    fallback when no candidate satisfied the author/type windows (counter)

Engagement Metrics:
  - engagement_events_total: Recorded events by action (counter)
  - interest_updates_total: Interest weight updates applied (counter)

Cache Metrics:
  - cache_hits_total, cache_misses_total: By cache_type (counter)

All recording functions are safe for concurrent use. Labels stay low
cardinality: endpoint labels are route patterns, never raw paths, and
viewer identifiers are never used as labels.
*/
package metrics
