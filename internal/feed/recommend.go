// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// Recommendation reason strings surfaced to viewers.
const (
	ReasonInterests    = "Based on your interests"
	ReasonHighlyRated  = "Highly rated"
	ReasonNewInArea    = "New in your area"
	ReasonActiveOffers = "Has active offers"
	ReasonPopular      = "Popular in your area"
	ReasonUpcoming     = "Upcoming in your neighborhood"
)

// Composer produces typed recommendation lists. Unlike the feed pipeline
// it does not run the full scoring chain: posts are ranked by interest
// match alone, listings by straightforward heuristics.
type Composer struct {
	cfg       RecommendConfig
	content   ContentRepository
	events    EventLog
	interests InterestStore
	scorer    *Scorer
	logger    zerolog.Logger
}

// NewComposer creates a recommendation composer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewComposer(cfg RecommendConfig, content ContentRepository, events EventLog, interests InterestStore, scorer *Scorer, logger zerolog.Logger) *Composer {
	return &Composer{
		cfg:       cfg,
		content:   content,
		events:    events,
		interests: interests,
		scorer:    scorer,
		logger:    logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend returns up to limit recommendations of the given kind.
// Unsupported kinds resolve to an empty list, not an error.
func (c *Composer) Recommend(ctx context.Context, viewerID, neighborhoodID string, kind RecommendationKind, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = c.cfg.DefaultLimit
	}
	if limit > c.cfg.MaxLimit {
		limit = c.cfg.MaxLimit
	}

	switch kind {
	case RecommendPosts:
		return c.recommendPosts(ctx, viewerID, neighborhoodID, limit)
	case RecommendHelpers:
		return c.recommendHelpers(ctx, viewerID, neighborhoodID, limit)
	case RecommendShops:
		return c.recommendShops(ctx, viewerID, neighborhoodID, limit)
	case RecommendEvents:
		return c.recommendEvents(ctx, neighborhoodID, limit)
	default:
		c.logger.Debug().Str("kind", string(kind)).Msg("unsupported recommendation kind")
		return []Recommendation{}, nil
	}
}

// recommendPosts ranks unseen posts by interest match. Every post the
// viewer has a view event against is excluded, over all time.
func (c *Composer) recommendPosts(ctx context.Context, viewerID, neighborhoodID string, limit int) ([]Recommendation, error) {
	seen, err := c.events.DistinctPosts(ctx, viewerID, models.ActionView)
	if err != nil {
		return nil, fmt.Errorf("fetch viewed posts: %w", err)
	}

	candidates, err := c.content.EligiblePosts(ctx, neighborhoodID, seen, limit*4)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	records, err := c.interests.Get(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("fetch interests: %w", err)
	}
	interestSet := models.InterestSet{Records: records}

	scored := make([]ScoredPost, 0, len(candidates))
	for i := range candidates {
		scored = append(scored, ScoredPost{
			Post:  candidates[i],
			Score: c.scorer.InterestMatch(&candidates[i], interestSet),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]Recommendation, 0, len(scored))
	for i := range scored {
		post := scored[i]
		post.Reason = ReasonInterests
		out = append(out, Recommendation{
			Kind:   RecommendPosts,
			Reason: ReasonInterests,
			Score:  post.Score,
			Post:   &post,
		})
	}
	return out, nil
}

// recommendHelpers ranks helper listings by rating, excluding the
// viewer's own profile.
func (c *Composer) recommendHelpers(ctx context.Context, viewerID, neighborhoodID string, limit int) ([]Recommendation, error) {
	helpers, err := c.content.Helpers(ctx, neighborhoodID)
	if err != nil {
		return nil, fmt.Errorf("fetch helpers: %w", err)
	}

	filtered := make([]models.HelperListing, 0, len(helpers))
	for i := range helpers {
		if helpers[i].OwnerID == viewerID {
			continue
		}
		filtered = append(filtered, helpers[i])
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Rating > filtered[j].Rating
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	out := make([]Recommendation, 0, len(filtered))
	for i := range filtered {
		helper := filtered[i]
		reason := ReasonNewInArea
		if helper.Rating >= c.cfg.HighRatingThreshold {
			reason = ReasonHighlyRated
		}
		out = append(out, Recommendation{
			Kind:   RecommendHelpers,
			Reason: reason,
			Score:  helper.Rating,
			Helper: &helper,
		})
	}
	return out, nil
}

// recommendShops ranks shops by rating, excluding the viewer's own shop.
func (c *Composer) recommendShops(ctx context.Context, viewerID, neighborhoodID string, limit int) ([]Recommendation, error) {
	shops, err := c.content.Shops(ctx, neighborhoodID)
	if err != nil {
		return nil, fmt.Errorf("fetch shops: %w", err)
	}

	now := time.Now()

	filtered := make([]models.Shop, 0, len(shops))
	for i := range shops {
		if shops[i].OwnerID == viewerID {
			continue
		}
		filtered = append(filtered, shops[i])
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Rating > filtered[j].Rating
	})
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	out := make([]Recommendation, 0, len(filtered))
	for i := range filtered {
		shop := filtered[i]
		reason := ReasonPopular
		if shop.HasActiveOffer(now) {
			reason = ReasonActiveOffers
		}
		out = append(out, Recommendation{
			Kind:   RecommendShops,
			Reason: reason,
			Score:  shop.Rating,
			Shop:   &shop,
		})
	}
	return out, nil
}

// recommendEvents returns future events by start time ascending.
func (c *Composer) recommendEvents(ctx context.Context, neighborhoodID string, limit int) ([]Recommendation, error) {
	// The repository bounds the horizon; "future" here is unbounded.
	events, err := c.content.UpcomingEvents(ctx, neighborhoodID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	if len(events) > limit {
		events = events[:limit]
	}

	out := make([]Recommendation, 0, len(events))
	for i := range events {
		event := events[i]
		out = append(out, Recommendation{
			Kind:   RecommendEvents,
			Reason: ReasonUpcoming,
			Event:  &event,
		})
	}
	return out, nil
}
