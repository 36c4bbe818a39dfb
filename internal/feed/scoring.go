// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// Scale anchors for the additive score terms. Weights in ScoringConfig are
// fractions of these bases.
const (
	baseScale       = 100.0
	engagementScale = 50.0
)

// commentEngagementWeight is how many reactions one comment counts as in
// the engagement formulas (scoring step 5 and the trending gravity score).
const commentEngagementWeight = 2

// affinityActions are the engagement actions counted toward author affinity.
var affinityActions = []models.EngagementAction{
	models.ActionReact,
	models.ActionComment,
	models.ActionSave,
}

// Scorer computes one personalized relevance score per post. The score is
// a fixed-sequence chain of multiplicative and additive adjustments, not a
// single weighted sum: the order of steps matters and is part of the
// contract.
//
// Scoring never fails for missing data: an author with no reputation
// resolves to the default trust, a viewer with no history to an empty
// interest set, zero affinity, and zero penalty. Only accessor failures
// propagate.
type Scorer struct {
	scoring ScoringConfig
	types   TypeWeights
	match   InterestMatchConfig
	events  EventLog
	logger  zerolog.Logger
}

// NewScorer creates a scorer with the given weight tables.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScorer(cfg *Config, events EventLog, logger zerolog.Logger) *Scorer {
	return &Scorer{
		scoring: cfg.Scoring,
		types:   cfg.TypeWeights,
		match:   cfg.InterestMatch,
		events:  events,
		logger:  logger.With().Str("component", "scorer").Logger(),
	}
}

// Score computes the relevance of a post for a viewer at the given instant.
//
// The chain, in order:
//  1. additive recency term: exp(-ageHours/decay) * weight * 100
//  2. multiply by per-type weight (unknown types: 1.0)
//  3. multiply by urgency boost if flagged
//  4. multiply by author-trust boost
//  5. additive engagement-rate term
//  6. additive interest-match term
//  7. multiply by author-affinity boost
//  8. multiply by recent-similarity penalty
//
// Steps 7 and 8 read the engagement log; the two lookups run concurrently.
func (s *Scorer) Score(ctx context.Context, post *models.Post, viewerID string, interests models.InterestSet, now time.Time) (float64, error) {
	affinityCount, similarCount, err := s.lookupCounts(ctx, viewerID, post.Type, now)
	if err != nil {
		return 0, err
	}

	score := 0.0

	// 1. Recency: 1.0 at age zero, strictly decreasing with age.
	ageHours := now.Sub(post.CreatedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	recency := math.Exp(-ageHours / s.scoring.RecencyDecayHours)
	score += recency * s.scoring.RecencyWeight * baseScale

	// 2. Content-type weight.
	score *= s.types.For(post.Type)

	// 3. Urgency.
	if post.Urgent {
		score *= s.scoring.UrgencyMultiplier
	}

	// 4. Author trust. Unknown authors resolve to the default.
	trustBoost := float64(post.AuthorTrust.OrDefault()) / 100
	score *= 1 + trustBoost*s.scoring.TrustFactor

	// 5. Engagement rate.
	score += s.engagementRate(post) * s.scoring.EngagementWeight * engagementScale

	// 6. Interest relevance.
	score += s.InterestMatch(post, interests) * s.scoring.InterestWeight * baseScale

	// 7. Author affinity.
	affinity := math.Min(float64(affinityCount)/float64(s.scoring.AffinitySaturation), 1)
	score *= 1 + affinity*s.scoring.AffinityFactor

	// 8. Recent-similarity penalty, saturating at 0.5.
	penalty := math.Min(float64(similarCount)/float64(s.scoring.SimilarityCap), 0.5)
	score *= 1 - penalty*s.scoring.SimilarityFactor

	return score, nil
}

// lookupCounts fetches the two engagement-log collaborator counts. Both
// are read-only and independent, so they run concurrently.
func (s *Scorer) lookupCounts(ctx context.Context, viewerID string, postType models.PostType, now time.Time) (affinity, similar int, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// All-time count across all authors, not scoped to the candidate
		// author. Changing the scope changes ranking for every viewer.
		n, err := s.events.CountActions(gctx, viewerID, affinityActions, time.Time{})
		if err != nil {
			return err
		}
		affinity = n
		return nil
	})

	g.Go(func() error {
		n, err := s.events.CountTypeViews(gctx, viewerID, postType, now.Add(-s.scoring.SimilarityWindow))
		if err != nil {
			return err
		}
		similar = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return affinity, similar, nil
}

// engagementRate is (reactions + 2*comments) per view, zero for unseen posts.
func (s *Scorer) engagementRate(post *models.Post) float64 {
	if post.ViewCount == 0 {
		return 0
	}
	engagement := float64(post.ReactionCount + post.CommentCount*commentEngagementWeight)
	return engagement / float64(post.ViewCount)
}

// InterestMatch sums the viewer's interest contributions for a post and
// clamps the result at the configured cap. Negative interest weights
// (accumulated hide actions) pass through un-floored, so the result can
// be negative.
func (s *Scorer) InterestMatch(post *models.Post, interests models.InterestSet) float64 {
	total := 0.0

	for i := range interests.Records {
		rec := &interests.Records[i]
		switch rec.Category {
		case models.InterestPostType:
			if rec.Value == string(post.Type) {
				total += rec.Score * s.match.PostTypeWeight
			}
		case models.InterestTag:
			if post.HasTag(rec.Value) {
				total += rec.Score * s.match.TagWeight
			}
		case models.InterestTopic:
			if containsFold(post.Title+" "+post.Content, rec.Value) {
				total += rec.Score * s.match.TopicWeight
			}
		}
	}

	if total > s.match.Cap {
		total = s.match.Cap
	}
	return total
}

// containsFold reports whether substr occurs in s, case-insensitively.
func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
