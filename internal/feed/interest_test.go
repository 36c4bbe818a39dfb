// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/neighborly-labs/feedengine/internal/metrics"
	"github.com/neighborly-labs/feedengine/internal/models"
)

func newTestUpdater(store *fakeInterests) *InterestUpdater {
	return NewInterestUpdater(DefaultConfig().Interests, store, zerolog.Nop())
}

func TestOnEngagementDeltas(t *testing.T) {
	tests := []struct {
		action models.EngagementAction
		delta  float64
	}{
		{models.ActionView, 0.01},
		{models.ActionClick, 0.02},
		{models.ActionReact, 0.05},
		{models.ActionComment, 0.08},
		{models.ActionSave, 0.07},
		{models.ActionShare, 0.1},
		{models.ActionHide, -0.05},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			store := &fakeInterests{}
			updater := newTestUpdater(store)

			err := updater.OnEngagement(context.Background(), "v1", models.PostRequest, tt.action)
			if err != nil {
				t.Fatalf("OnEngagement: %v", err)
			}

			if len(store.applied) != 1 {
				t.Fatalf("expected 1 update, got %d", len(store.applied))
			}
			upd := store.applied[0]
			if upd.viewer != "v1" || upd.category != models.InterestPostType || upd.value != "request" {
				t.Errorf("unexpected update target: %+v", upd)
			}
			if !almostEqual(upd.delta, tt.delta) {
				t.Errorf("delta = %v, want %v", upd.delta, tt.delta)
			}
		})
	}
}

func TestOnEngagementAccumulates(t *testing.T) {
	store := &fakeInterests{}
	updater := newTestUpdater(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := updater.OnEngagement(ctx, "v1", models.PostBuySell, models.ActionView); err != nil {
			t.Fatalf("OnEngagement %d: %v", i, err)
		}
	}

	if len(store.applied) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(store.applied))
	}
	total := 0.0
	for _, upd := range store.applied {
		total += upd.delta
	}
	if !almostEqual(total, 0.03) {
		t.Errorf("accumulated delta = %v, want 0.03", total)
	}
}

func TestOnEngagementUnknownActionIsNoop(t *testing.T) {
	store := &fakeInterests{}
	updater := newTestUpdater(store)

	if err := updater.OnEngagement(context.Background(), "v1", models.PostRequest, "levitate"); err != nil {
		t.Fatalf("OnEngagement: %v", err)
	}
	if len(store.applied) != 0 {
		t.Errorf("unknown action should not touch the store, got %d updates", len(store.applied))
	}
}

func TestOnEngagementCountsUpdates(t *testing.T) {
	store := &fakeInterests{}
	updater := newTestUpdater(store)
	before := testutil.ToFloat64(metrics.InterestUpdates)

	for i := 0; i < 3; i++ {
		if err := updater.OnEngagement(context.Background(), "v1", models.PostRequest, models.ActionView); err != nil {
			t.Fatalf("OnEngagement: %v", err)
		}
	}
	// Weight-zero actions never reach the store and must not count.
	if err := updater.OnEngagement(context.Background(), "v1", models.PostRequest, "levitate"); err != nil {
		t.Fatalf("OnEngagement: %v", err)
	}

	if got := testutil.ToFloat64(metrics.InterestUpdates) - before; got != 3 {
		t.Errorf("interest update counter delta = %v, want 3", got)
	}
}

func TestOnEngagementStoreError(t *testing.T) {
	store := &fakeInterests{err: errors.New("txn conflict")}
	updater := newTestUpdater(store)

	if err := updater.OnEngagement(context.Background(), "v1", models.PostRequest, models.ActionReact); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
