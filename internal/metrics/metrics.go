// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Feed Pipeline Metrics
	FeedRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_request_duration_seconds",
			Help:    "Duration of full feed ranking requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	FeedCandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_candidates_scored",
			Help:    "Number of candidate posts scored per feed request",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
		},
	)

	FeedDiversityFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_diversity_fallbacks_total",
			Help: "Total number of diversification slots filled by fallback",
		},
	)

	// Trending Metrics
	TrendingQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trending_queries_total",
			Help: "Total number of trending queries",
		},
		[]string{"timeframe"},
	)

	// Engagement Metrics
	EngagementEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_events_total",
			Help: "Total number of recorded engagement events",
		},
		[]string{"action"},
	)

	InterestUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interest_updates_total",
			Help: "Total number of interest weight updates applied",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "feed"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Store Metrics
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of storage errors",
		},
		[]string{"operation"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// uptimeInterval is how often the uptime gauge is refreshed.
const uptimeInterval = 15 * time.Second

// InitApp records build information and starts the uptime gauge. Call
// once at startup; the refresh goroutine runs for the process lifetime.
func InitApp(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	AppUptime.Set(0)

	start := time.Now()
	go func() {
		ticker := time.NewTicker(uptimeInterval)
		defer ticker.Stop()
		for range ticker.C {
			AppUptime.Set(time.Since(start).Seconds())
		}
	}()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordFeedRequest records one full feed pipeline run
func RecordFeedRequest(duration time.Duration, candidates int) {
	FeedRequestDuration.Observe(duration.Seconds())
	FeedCandidatesScored.Observe(float64(candidates))
}

// RecordEngagement records a recorded engagement event by action
func RecordEngagement(action string) {
	EngagementEvents.WithLabelValues(action).Inc()
}

// RecordCacheHit records a cache hit by cache type
func RecordCacheHit(cacheType string) {
	CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss by cache type
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
