// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// TrendingEngine ranks posts with a decayed-gravity formula:
//
//	trendingScore = (reactions + 2*comments) / (ageHours + offset)^gravity
//
// Newer posts with the same engagement outrank older ones; the offset
// prevents division blow-up for posts seconds old. The ranking is
// viewer-agnostic: every requester of the same neighborhood and timeframe
// sees identical output at a given instant.
type TrendingEngine struct {
	cfg     TrendingConfig
	content ContentRepository
	logger  zerolog.Logger
}

// NewTrendingEngine creates a trending engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrendingEngine(cfg TrendingConfig, content ContentRepository, logger zerolog.Logger) *TrendingEngine {
	return &TrendingEngine{
		cfg:     cfg,
		content: content,
		logger:  logger.With().Str("component", "trending").Logger(),
	}
}

// Trending returns the top posts for the neighborhood within the
// timeframe's lookback window, ordered by trending score descending.
func (t *TrendingEngine) Trending(ctx context.Context, neighborhoodID string, timeframe Timeframe, limit int) ([]ScoredPost, error) {
	if limit <= 0 {
		limit = t.cfg.DefaultLimit
	}
	if limit > t.cfg.MaxLimit {
		limit = t.cfg.MaxLimit
	}

	now := time.Now()
	since := now.Add(-timeframe.Lookback())

	posts, err := t.content.RecentPosts(ctx, neighborhoodID, since)
	if err != nil {
		return nil, fmt.Errorf("fetch recent posts: %w", err)
	}

	scored := make([]ScoredPost, 0, len(posts))
	for i := range posts {
		scored = append(scored, ScoredPost{
			Post:          posts[i],
			TrendingScore: t.Gravity(&posts[i], now),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].TrendingScore > scored[j].TrendingScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	t.logger.Debug().
		Str("neighborhood", neighborhoodID).
		Str("timeframe", string(timeframe)).
		Int("candidates", len(posts)).
		Int("returned", len(scored)).
		Msg("trending computed")

	return scored, nil
}

// Gravity computes the trending score for one post at the given instant.
func (t *TrendingEngine) Gravity(post *models.Post, now time.Time) float64 {
	ageHours := now.Sub(post.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	engagement := float64(post.ReactionCount + post.CommentCount*commentEngagementWeight)
	return engagement / math.Pow(ageHours+t.cfg.AgeOffsetHours, t.cfg.Gravity)
}
