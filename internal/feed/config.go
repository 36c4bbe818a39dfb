// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// Config contains all tunables for the feed engine. The weight tables are
// immutable once the engine is constructed: tuning happens through config,
// never by editing algorithm code.
type Config struct {
	// Scoring contains the personalized scoring parameters.
	Scoring ScoringConfig `koanf:"scoring" json:"scoring"`

	// TypeWeights is the per-content-type score multiplier table.
	TypeWeights TypeWeights `koanf:"type_weights" json:"type_weights"`

	// InterestMatch contains the interest-match sub-algorithm weights.
	InterestMatch InterestMatchConfig `koanf:"interest_match" json:"interest_match"`

	// Interests contains the online interest-update parameters.
	Interests InterestConfig `koanf:"interests" json:"interests"`

	// Diversity contains the sliding-window diversification parameters.
	Diversity DiversityConfig `koanf:"diversity" json:"diversity"`

	// Trending contains the gravity-ranking parameters.
	Trending TrendingConfig `koanf:"trending" json:"trending"`

	// Recommend contains recommendation list parameters.
	Recommend RecommendConfig `koanf:"recommend" json:"recommend"`

	// Digest contains daily digest parameters.
	Digest DigestConfig `koanf:"digest" json:"digest"`

	// Limits contains operational limits.
	Limits LimitsConfig `koanf:"limits" json:"limits"`

	// Cache contains response cache parameters.
	Cache CacheConfig `koanf:"cache" json:"cache"`
}

// ScoringConfig parameterizes the fixed-sequence scoring chain.
type ScoringConfig struct {
	// RecencyWeight scales the additive recency term.
	RecencyWeight float64 `koanf:"recency_weight" json:"recency_weight"`

	// RecencyDecayHours is the exponential decay constant in hours.
	RecencyDecayHours float64 `koanf:"recency_decay_hours" json:"recency_decay_hours"`

	// EngagementWeight scales the additive engagement-rate term.
	EngagementWeight float64 `koanf:"engagement_weight" json:"engagement_weight"`

	// InterestWeight scales the additive interest-match term.
	InterestWeight float64 `koanf:"interest_weight" json:"interest_weight"`

	// UrgencyMultiplier is applied to posts flagged urgent.
	UrgencyMultiplier float64 `koanf:"urgency_multiplier" json:"urgency_multiplier"`

	// TrustFactor scales the author-trust multiplier.
	TrustFactor float64 `koanf:"trust_factor" json:"trust_factor"`

	// AffinityFactor scales the author-affinity multiplier.
	AffinityFactor float64 `koanf:"affinity_factor" json:"affinity_factor"`

	// AffinitySaturation is the interaction count at which affinity
	// saturates to 1.0.
	AffinitySaturation int `koanf:"affinity_saturation" json:"affinity_saturation"`

	// SimilarityFactor scales the recent-similarity penalty multiplier.
	SimilarityFactor float64 `koanf:"similarity_factor" json:"similarity_factor"`

	// SimilarityCap is the view count at which the penalty saturates.
	SimilarityCap int `koanf:"similarity_cap" json:"similarity_cap"`

	// SimilarityWindow is the lookback for same-type view counting.
	SimilarityWindow time.Duration `koanf:"similarity_window" json:"similarity_window"`
}

// TypeWeights is the per-content-type score multiplier table.
// Unknown types resolve to 1.0.
type TypeWeights map[models.PostType]float64

// For returns the multiplier for a post type, defaulting to 1.0.
func (w TypeWeights) For(t models.PostType) float64 {
	if m, ok := w[t]; ok {
		return m
	}
	return 1.0
}

// InterestMatchConfig parameterizes the interest-match sub-algorithm.
type InterestMatchConfig struct {
	// PostTypeWeight is the contribution factor for post_type matches.
	PostTypeWeight float64 `koanf:"post_type_weight" json:"post_type_weight"`

	// TagWeight is the contribution factor for tag matches.
	TagWeight float64 `koanf:"tag_weight" json:"tag_weight"`

	// TopicWeight is the contribution factor for topic substring matches.
	TopicWeight float64 `koanf:"topic_weight" json:"topic_weight"`

	// Cap clamps the summed interest score.
	Cap float64 `koanf:"cap" json:"cap"`
}

// InterestConfig parameterizes the online interest updater.
type InterestConfig struct {
	// ActionWeights maps engagement actions to signal weights. Unknown
	// actions resolve to 0 and are a no-op.
	ActionWeights map[models.EngagementAction]float64 `koanf:"action_weights" json:"action_weights"`

	// LearningRate scales action weight into score delta.
	LearningRate float64 `koanf:"learning_rate" json:"learning_rate"`
}

// WeightFor returns the signal weight for an action, defaulting to 0.
func (c InterestConfig) WeightFor(a models.EngagementAction) float64 {
	return c.ActionWeights[a]
}

// DiversityConfig parameterizes the sliding-window diversification pass.
type DiversityConfig struct {
	// AuthorWindow is the recent-author window capacity.
	AuthorWindow int `koanf:"author_window" json:"author_window"`

	// TypeWindow is the recent-content-type window capacity.
	TypeWindow int `koanf:"type_window" json:"type_window"`
}

// TrendingConfig parameterizes the gravity ranking.
type TrendingConfig struct {
	// Gravity is the time-decay exponent.
	Gravity float64 `koanf:"gravity" json:"gravity"`

	// AgeOffsetHours prevents division blow-up for very new posts.
	AgeOffsetHours float64 `koanf:"age_offset_hours" json:"age_offset_hours"`

	// DefaultTimeframe is used when a request omits or misspells the
	// timeframe.
	DefaultTimeframe Timeframe `koanf:"default_timeframe" json:"default_timeframe"`

	// DefaultLimit is the list length when a request omits it.
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`

	// MaxLimit bounds the list length.
	MaxLimit int `koanf:"max_limit" json:"max_limit"`
}

// RecommendConfig parameterizes the recommendation composer.
type RecommendConfig struct {
	// DefaultLimit is the list length when a request omits it.
	DefaultLimit int `koanf:"default_limit" json:"default_limit"`

	// MaxLimit bounds the list length.
	MaxLimit int `koanf:"max_limit" json:"max_limit"`

	// HighRatingThreshold separates "Highly rated" helpers from
	// "New in your area".
	HighRatingThreshold float64 `koanf:"high_rating_threshold" json:"high_rating_threshold"`
}

// DigestConfig parameterizes the daily digest aggregator.
type DigestConfig struct {
	// Window is the trailing window for trending, helper counts, and
	// resolved alerts.
	Window time.Duration `koanf:"window" json:"window"`

	// TrendingCount is the number of trending posts included.
	TrendingCount int `koanf:"trending_count" json:"trending_count"`

	// EventCount is the maximum upcoming events included.
	EventCount int `koanf:"event_count" json:"event_count"`

	// EventHorizon is how far ahead events are considered.
	EventHorizon time.Duration `koanf:"event_horizon" json:"event_horizon"`

	// AlertCount is the maximum resolved alerts included.
	AlertCount int `koanf:"alert_count" json:"alert_count"`

	// RecommendationCount is the number of post recommendations included.
	RecommendationCount int `koanf:"recommendation_count" json:"recommendation_count"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultPageSize is the page size when a request omits it.
	DefaultPageSize int `koanf:"default_page_size" json:"default_page_size"`

	// MaxPageSize bounds the page size.
	MaxPageSize int `koanf:"max_page_size" json:"max_page_size"`

	// OverfetchFactor multiplies the page size into the candidate fetch.
	OverfetchFactor int `koanf:"overfetch_factor" json:"overfetch_factor"`

	// MaxCandidates caps the over-fetched candidate set.
	MaxCandidates int `koanf:"max_candidates" json:"max_candidates"`

	// ScoreWorkers bounds concurrent per-post scoring. Zero means
	// runtime.NumCPU.
	ScoreWorkers int `koanf:"score_workers" json:"score_workers"`
}

// CacheConfig contains response cache parameters.
type CacheConfig struct {
	// Enabled toggles the engine response cache.
	Enabled bool `koanf:"enabled" json:"enabled"`

	// TTL is how long a cached page stays valid.
	TTL time.Duration `koanf:"ttl" json:"ttl"`

	// MaxEntries bounds the cache size.
	MaxEntries int `koanf:"max_entries" json:"max_entries"`
}

// DefaultConfig returns the reference configuration. The numeric values
// are the production weight tables; changing them changes ranking for
// every viewer, so treat edits as product decisions.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			RecencyWeight:      0.3,
			RecencyDecayHours:  24,
			EngagementWeight:   0.15,
			InterestWeight:     0.4,
			UrgencyMultiplier:  1.5,
			TrustFactor:        0.15,
			AffinityFactor:     0.2,
			AffinitySaturation: 10,
			SimilarityFactor:   0.3,
			SimilarityCap:      10,
			SimilarityWindow:   24 * time.Hour,
		},
		TypeWeights: TypeWeights{
			models.PostSafetyAlert:    1.5,
			models.PostAnnouncement:   1.2,
			models.PostRequest:        1.0,
			models.PostRecommendation: 1.0,
			models.PostRental:         0.9,
			models.PostHelperListing:  0.9,
			models.PostBuySell:        0.8,
		},
		InterestMatch: InterestMatchConfig{
			PostTypeWeight: 0.3,
			TagWeight:      0.4,
			TopicWeight:    0.3,
			Cap:            1.0,
		},
		Interests: InterestConfig{
			ActionWeights: map[models.EngagementAction]float64{
				models.ActionView:    0.1,
				models.ActionClick:   0.2,
				models.ActionReact:   0.5,
				models.ActionComment: 0.8,
				models.ActionSave:    0.7,
				models.ActionShare:   1.0,
				models.ActionHide:    -0.5,
			},
			LearningRate: 0.1,
		},
		Diversity: DiversityConfig{
			AuthorWindow: 3,
			TypeWindow:   2,
		},
		Trending: TrendingConfig{
			Gravity:          1.5,
			AgeOffsetHours:   2,
			DefaultTimeframe: TimeframeDay,
			DefaultLimit:     10,
			MaxLimit:         50,
		},
		Recommend: RecommendConfig{
			DefaultLimit:        10,
			MaxLimit:            50,
			HighRatingThreshold: 4.0,
		},
		Digest: DigestConfig{
			Window:              24 * time.Hour,
			TrendingCount:       5,
			EventCount:          3,
			EventHorizon:        7 * 24 * time.Hour,
			AlertCount:          3,
			RecommendationCount: 3,
		},
		Limits: LimitsConfig{
			DefaultPageSize: 20,
			MaxPageSize:     50,
			OverfetchFactor: 5,
			MaxCandidates:   100,
			ScoreWorkers:    0,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        time.Minute,
			MaxEntries: 512,
		},
	}
}

// Validate checks the configuration for values that would break ranking.
func (c *Config) Validate() error {
	if c.Scoring.RecencyDecayHours <= 0 {
		return fmt.Errorf("scoring.recency_decay_hours must be positive, got %v", c.Scoring.RecencyDecayHours)
	}
	if c.Scoring.AffinitySaturation <= 0 {
		return fmt.Errorf("scoring.affinity_saturation must be positive, got %d", c.Scoring.AffinitySaturation)
	}
	if c.Scoring.SimilarityCap <= 0 {
		return fmt.Errorf("scoring.similarity_cap must be positive, got %d", c.Scoring.SimilarityCap)
	}
	if c.Scoring.SimilarityWindow <= 0 {
		return fmt.Errorf("scoring.similarity_window must be positive, got %v", c.Scoring.SimilarityWindow)
	}
	for t, w := range c.TypeWeights {
		if w <= 0 {
			return fmt.Errorf("type_weights[%s] must be positive, got %v", t, w)
		}
	}
	if c.InterestMatch.Cap <= 0 {
		return fmt.Errorf("interest_match.cap must be positive, got %v", c.InterestMatch.Cap)
	}
	if c.Interests.LearningRate <= 0 {
		return fmt.Errorf("interests.learning_rate must be positive, got %v", c.Interests.LearningRate)
	}
	if c.Diversity.AuthorWindow < 0 || c.Diversity.TypeWindow < 0 {
		return fmt.Errorf("diversity windows must be non-negative, got author=%d type=%d",
			c.Diversity.AuthorWindow, c.Diversity.TypeWindow)
	}
	if c.Trending.Gravity <= 0 {
		return fmt.Errorf("trending.gravity must be positive, got %v", c.Trending.Gravity)
	}
	if c.Trending.AgeOffsetHours <= 0 {
		return fmt.Errorf("trending.age_offset_hours must be positive, got %v", c.Trending.AgeOffsetHours)
	}
	if c.Limits.DefaultPageSize <= 0 || c.Limits.MaxPageSize <= 0 {
		return fmt.Errorf("limits page sizes must be positive, got default=%d max=%d",
			c.Limits.DefaultPageSize, c.Limits.MaxPageSize)
	}
	if c.Limits.DefaultPageSize > c.Limits.MaxPageSize {
		return fmt.Errorf("limits.default_page_size %d exceeds max_page_size %d",
			c.Limits.DefaultPageSize, c.Limits.MaxPageSize)
	}
	if c.Limits.OverfetchFactor <= 0 {
		return fmt.Errorf("limits.overfetch_factor must be positive, got %d", c.Limits.OverfetchFactor)
	}
	if c.Limits.MaxCandidates <= 0 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when cache is enabled, got %v", c.Cache.TTL)
	}
	if c.Cache.Enabled && c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive when cache is enabled, got %d", c.Cache.MaxEntries)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// JSON round-trip keeps the copy honest as fields are added.
	data, err := json.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}

	clone := &Config{}
	if err := json.Unmarshal(data, clone); err != nil {
		copied := *c
		return &copied
	}

	return clone
}
