// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/neighborly-labs/feedengine/internal/models"
)

func newTestDigest(content *fakeContent, events *fakeEvents, interests *fakeInterests) *DigestAggregator {
	cfg := DefaultConfig()
	trending := NewTrendingEngine(cfg.Trending, content, zerolog.Nop())
	composer := newTestComposer(content, events, interests)
	return NewDigestAggregator(cfg.Digest, trending, composer, content, zerolog.Nop())
}

func TestDigest(t *testing.T) {
	now := time.Now()
	resolvedAt := now.Add(-2 * time.Hour)

	var upcoming []models.Event
	for i := 0; i < 5; i++ {
		upcoming = append(upcoming, models.Event{
			ID:       fmt.Sprintf("e%d", i),
			StartsAt: now.Add(time.Duration(i+1) * 24 * time.Hour),
		})
	}
	var alerts []models.SafetyAlert
	for i := 0; i < 4; i++ {
		alerts = append(alerts, models.SafetyAlert{
			ID:         fmt.Sprintf("a%d", i),
			Status:     models.AlertResolved,
			ResolvedAt: &resolvedAt,
		})
	}

	content := &fakeContent{
		posts: []models.Post{
			engagedPost("hot", time.Hour, 20, 5),
			engagedPost("warm", 3*time.Hour, 5, 1),
		},
		events:     upcoming,
		alerts:     alerts,
		newHelpers: 4,
	}
	aggregator := newTestDigest(content, &fakeEvents{}, &fakeInterests{})

	digest, err := aggregator.Digest(context.Background(), "v1", "nb-1")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	if digest.GeneratedAt.IsZero() {
		t.Error("digest missing generation timestamp")
	}
	if len(digest.TopPosts) != 2 || digest.TopPosts[0].Post.ID != "hot" {
		t.Errorf("unexpected top posts: %v", ids(digest.TopPosts))
	}
	if digest.NewHelperCount != 4 {
		t.Errorf("new helper count = %d, want 4", digest.NewHelperCount)
	}
	if len(digest.UpcomingEvents) != 3 {
		t.Errorf("upcoming events should truncate to 3, got %d", len(digest.UpcomingEvents))
	}
	if len(digest.ResolvedAlerts) != 3 {
		t.Errorf("resolved alerts should truncate to 3, got %d", len(digest.ResolvedAlerts))
	}
	if len(digest.Recommended) == 0 || len(digest.Recommended) > 3 {
		t.Errorf("expected 1-3 post recommendations, got %d", len(digest.Recommended))
	}
	for _, r := range digest.Recommended {
		if r.Kind != RecommendPosts {
			t.Errorf("digest recommendation kind = %s, want posts", r.Kind)
		}
	}
}

func TestDigestEmptyNeighborhood(t *testing.T) {
	aggregator := newTestDigest(&fakeContent{}, &fakeEvents{}, &fakeInterests{})

	digest, err := aggregator.Digest(context.Background(), "v1", "quiet-nb")
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if len(digest.TopPosts) != 0 || digest.NewHelperCount != 0 {
		t.Errorf("empty neighborhood should produce an empty digest: %+v", digest)
	}
}

func TestDigestSubQueryFailure(t *testing.T) {
	content := &fakeContent{err: errors.New("repository down")}
	aggregator := newTestDigest(content, &fakeEvents{}, &fakeInterests{})

	if _, err := aggregator.Digest(context.Background(), "v1", "nb-1"); err == nil {
		t.Fatal("expected sub-query failure to fail the digest")
	}
}
