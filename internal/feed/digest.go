// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DigestAggregator composes the daily neighborhood summary from the
// trending engine, the recommendation composer, and two small counts. The
// five sub-queries are independent and fetched concurrently; the
// aggregator performs no ranking of its own.
type DigestAggregator struct {
	cfg      DigestConfig
	trending *TrendingEngine
	composer *Composer
	content  ContentRepository
	logger   zerolog.Logger
}

// NewDigestAggregator creates a digest aggregator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDigestAggregator(cfg DigestConfig, trending *TrendingEngine, composer *Composer, content ContentRepository, logger zerolog.Logger) *DigestAggregator {
	return &DigestAggregator{
		cfg:      cfg,
		trending: trending,
		composer: composer,
		content:  content,
		logger:   logger.With().Str("component", "digest").Logger(),
	}
}

// Digest builds the summary for a viewer and neighborhood. Any sub-query
// failure fails the digest; the caller owns retry policy.
func (d *DigestAggregator) Digest(ctx context.Context, viewerID, neighborhoodID string) (*Digest, error) {
	now := time.Now()
	windowStart := now.Add(-d.cfg.Window)

	digest := &Digest{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		top, err := d.trending.Trending(gctx, neighborhoodID, TimeframeDay, d.cfg.TrendingCount)
		if err != nil {
			return fmt.Errorf("trending: %w", err)
		}
		digest.TopPosts = top
		return nil
	})

	g.Go(func() error {
		count, err := d.content.NewHelperCount(gctx, neighborhoodID, windowStart)
		if err != nil {
			return fmt.Errorf("helper count: %w", err)
		}
		digest.NewHelperCount = count
		return nil
	})

	g.Go(func() error {
		events, err := d.content.UpcomingEvents(gctx, neighborhoodID, now.Add(d.cfg.EventHorizon))
		if err != nil {
			return fmt.Errorf("upcoming events: %w", err)
		}
		if len(events) > d.cfg.EventCount {
			events = events[:d.cfg.EventCount]
		}
		digest.UpcomingEvents = events
		return nil
	})

	g.Go(func() error {
		alerts, err := d.content.ResolvedAlerts(gctx, neighborhoodID, windowStart)
		if err != nil {
			return fmt.Errorf("resolved alerts: %w", err)
		}
		if len(alerts) > d.cfg.AlertCount {
			alerts = alerts[:d.cfg.AlertCount]
		}
		digest.ResolvedAlerts = alerts
		return nil
	})

	g.Go(func() error {
		recs, err := d.composer.Recommend(gctx, viewerID, neighborhoodID, RecommendPosts, d.cfg.RecommendationCount)
		if err != nil {
			return fmt.Errorf("recommendations: %w", err)
		}
		digest.Recommended = recs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.logger.Debug().
		Str("viewer", viewerID).
		Str("neighborhood", neighborhoodID).
		Int("top_posts", len(digest.TopPosts)).
		Int("events", len(digest.UpcomingEvents)).
		Msg("digest composed")

	return digest, nil
}
