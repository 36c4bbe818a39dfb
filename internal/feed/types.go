// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"time"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// Note: accessors are consumed through the interfaces below so the store
// layer can be swapped without creating circular imports.

// ScoredPost is a post plus its computed relevance score. It is ephemeral:
// it exists only for the duration of a single ranking request.
type ScoredPost struct {
	// Post is the underlying post.
	Post models.Post `json:"post"`

	// Score is the personalized relevance score (higher is better).
	Score float64 `json:"score"`

	// TrendingScore is set only during trending computation.
	TrendingScore float64 `json:"trending_score,omitempty"`

	// ViewerReaction is the viewer's own reaction, if any.
	ViewerReaction string `json:"viewer_reaction,omitempty"`

	// ViewerSaved indicates the viewer has saved this post.
	ViewerSaved bool `json:"viewer_saved,omitempty"`

	// Reason is an interpretable explanation, set on recommendations.
	Reason string `json:"reason,omitempty"`
}

// Request is a personalized feed request.
type Request struct {
	// ViewerID is the viewer to rank for.
	ViewerID string `json:"viewer_id"`

	// NeighborhoodID scopes the candidate set.
	NeighborhoodID string `json:"neighborhood_id"`

	// Page is the 1-based page number. Defaults to 1.
	Page int `json:"page,omitempty"`

	// Limit is the page size. Defaults to Config.Limits.DefaultPageSize.
	Limit int `json:"limit,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is one ranked, diversified feed page.
type Response struct {
	// Data is the ordered page of scored posts.
	Data []ScoredPost `json:"data"`

	// Pagination describes the page within the full candidate set.
	Pagination models.Pagination `json:"pagination"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// ViewerID is the viewer the feed was ranked for.
	ViewerID string `json:"viewer_id"`

	// Candidates is the number of eligible posts considered.
	Candidates int `json:"candidates"`

	// LatencyMS is the total ranking latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the page was served from cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Timeframe is a trending lookback window.
type Timeframe string

const (
	// TimeframeHour looks back one hour.
	TimeframeHour Timeframe = "1h"
	// TimeframeDay looks back 24 hours.
	TimeframeDay Timeframe = "24h"
	// TimeframeWeek looks back seven days.
	TimeframeWeek Timeframe = "7d"
)

// ParseTimeframe parses a timeframe string. Unsupported values report
// ok=false; callers resolve that to the configured default rather than
// failing the request.
func ParseTimeframe(s string) (Timeframe, bool) {
	switch Timeframe(s) {
	case TimeframeHour, TimeframeDay, TimeframeWeek:
		return Timeframe(s), true
	}
	return "", false
}

// Lookback returns the window duration for the timeframe.
func (t Timeframe) Lookback() time.Duration {
	switch t {
	case TimeframeHour:
		return time.Hour
	case TimeframeWeek:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// RecommendationKind selects a typed recommendation list.
type RecommendationKind string

const (
	// RecommendPosts recommends unseen posts ranked by interest match.
	RecommendPosts RecommendationKind = "posts"
	// RecommendHelpers recommends helper listings ranked by rating.
	RecommendHelpers RecommendationKind = "helpers"
	// RecommendShops recommends shops ranked by rating.
	RecommendShops RecommendationKind = "shops"
	// RecommendEvents recommends upcoming events by start time.
	RecommendEvents RecommendationKind = "events"
)

// ParseRecommendationKind parses a kind string. Unsupported kinds report
// ok=false and resolve to an empty list at the caller.
func ParseRecommendationKind(s string) (RecommendationKind, bool) {
	switch RecommendationKind(s) {
	case RecommendPosts, RecommendHelpers, RecommendShops, RecommendEvents:
		return RecommendationKind(s), true
	}
	return "", false
}

// Recommendation is one item of a typed recommendation list. Exactly one
// of Post, Helper, Shop, or Event is set, matching Kind.
type Recommendation struct {
	Kind   RecommendationKind    `json:"kind"`
	Reason string                `json:"reason"`
	Score  float64               `json:"score,omitempty"`
	Post   *ScoredPost           `json:"post,omitempty"`
	Helper *models.HelperListing `json:"helper,omitempty"`
	Shop   *models.Shop          `json:"shop,omitempty"`
	Event  *models.Event         `json:"event,omitempty"`
}

// Digest is the daily neighborhood summary.
type Digest struct {
	GeneratedAt    time.Time            `json:"generated_at"`
	TopPosts       []ScoredPost         `json:"top_posts"`
	NewHelperCount int                  `json:"new_helper_count"`
	UpcomingEvents []models.Event       `json:"upcoming_events"`
	ResolvedAlerts []models.SafetyAlert `json:"resolved_alerts"`
	Recommended    []Recommendation     `json:"recommended"`
}

// ContentRepository reads eligible posts and listings for a neighborhood.
// "Eligible" encodes the hidden/expiry invariant: hidden posts and posts
// past their expiry never enter ranking.
type ContentRepository interface {
	// EligiblePosts returns up to limit eligible posts for the
	// neighborhood, excluding the given post IDs.
	EligiblePosts(ctx context.Context, neighborhoodID string, exclude map[string]struct{}, limit int) ([]models.Post, error)

	// RecentPosts returns non-hidden posts created at or after since.
	RecentPosts(ctx context.Context, neighborhoodID string, since time.Time) ([]models.Post, error)

	// Helpers returns helper listings in the neighborhood.
	Helpers(ctx context.Context, neighborhoodID string) ([]models.HelperListing, error)

	// Shops returns shop listings in the neighborhood.
	Shops(ctx context.Context, neighborhoodID string) ([]models.Shop, error)

	// UpcomingEvents returns events starting in (now, until].
	UpcomingEvents(ctx context.Context, neighborhoodID string, until time.Time) ([]models.Event, error)

	// ResolvedAlerts returns safety alerts resolved at or after since.
	ResolvedAlerts(ctx context.Context, neighborhoodID string, since time.Time) ([]models.SafetyAlert, error)

	// NewHelperCount counts helper listings created at or after since.
	NewHelperCount(ctx context.Context, neighborhoodID string, since time.Time) (int, error)

	// ViewerReactions returns the viewer's own reaction per post ID,
	// for the given posts only.
	ViewerReactions(ctx context.Context, viewerID string, postIDs []string) (map[string]string, error)
}

// EventLog is the append-only engagement event log.
type EventLog interface {
	// Append records one immutable engagement event.
	Append(ctx context.Context, event *models.EngagementEvent) error

	// CountActions counts the viewer's events matching any of the given
	// actions. A zero since means all time.
	CountActions(ctx context.Context, viewerID string, actions []models.EngagementAction, since time.Time) (int, error)

	// CountTypeViews counts the viewer's view events against posts of the
	// given content type since the given instant.
	CountTypeViews(ctx context.Context, viewerID string, postType models.PostType, since time.Time) (int, error)

	// DistinctPosts returns the distinct post IDs the viewer has the
	// given action recorded against, over all time.
	DistinctPosts(ctx context.Context, viewerID string, action models.EngagementAction) (map[string]struct{}, error)
}

// InterestStore reads and writes per-viewer interest records.
type InterestStore interface {
	// Get returns the viewer's interest records ordered by score
	// descending, bounded to the store's read limit.
	Get(ctx context.Context, viewerID string) ([]models.InterestRecord, error)

	// Apply atomically upserts one record: on create the score starts at
	// delta with interaction count 1; on update the score is incremented
	// by delta and the interaction count by one.
	Apply(ctx context.Context, viewerID string, category models.InterestCategory, value string, delta float64) error

	// Replace overwrites the viewer's entire interest profile. This is
	// the explicit viewer-initiated bulk operation; the online updater
	// never calls it.
	Replace(ctx context.Context, viewerID string, records []models.InterestRecord) error
}

// Metrics is a snapshot of engine counters.
type Metrics struct {
	RequestCount     int64 `json:"request_count"`
	CacheHits        int64 `json:"cache_hits"`
	CacheMisses      int64 `json:"cache_misses"`
	ErrorCount       int64 `json:"error_count"`
	CandidatesScored int64 `json:"candidates_scored"`
}
