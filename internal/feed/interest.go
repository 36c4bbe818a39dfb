// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neighborly-labs/feedengine/internal/metrics"
	"github.com/neighborly-labs/feedengine/internal/models"
)

// InterestUpdater applies a weighted online update to the viewer's
// interest table whenever an engagement event is recorded. It is the only
// writer of interest records besides the explicit viewer-initiated bulk
// overwrite.
//
// The update rule is purely additive: no normalization and no decay of
// historical score. Over a long history a category's score can grow well
// past 1.0 (consumers treat that as saturated), and repeated hide actions
// can drive it negative. Both are accepted behavior.
type InterestUpdater struct {
	cfg    InterestConfig
	store  InterestStore
	logger zerolog.Logger
}

// NewInterestUpdater creates an updater with the given action weights.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInterestUpdater(cfg InterestConfig, store InterestStore, logger zerolog.Logger) *InterestUpdater {
	return &InterestUpdater{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "interests").Logger(),
	}
}

// OnEngagement upserts the (viewer, post_type, postType) interest record
// for one recorded event. Unknown actions have weight 0 and are a no-op.
func (u *InterestUpdater) OnEngagement(ctx context.Context, viewerID string, postType models.PostType, action models.EngagementAction) error {
	weight := u.cfg.WeightFor(action)
	if weight == 0 {
		return nil
	}

	delta := weight * u.cfg.LearningRate
	if err := u.store.Apply(ctx, viewerID, models.InterestPostType, string(postType), delta); err != nil {
		return fmt.Errorf("apply interest update: %w", err)
	}
	metrics.InterestUpdates.Inc()

	u.logger.Debug().
		Str("viewer", viewerID).
		Str("post_type", string(postType)).
		Str("action", string(action)).
		Float64("delta", delta).
		Msg("interest updated")

	return nil
}
