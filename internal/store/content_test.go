// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neighborly-labs/feedengine/internal/models"
)

func savePost(t *testing.T, s *Store, post models.Post) {
	t.Helper()
	if post.NeighborhoodID == "" {
		post.NeighborhoodID = "nb-1"
	}
	if err := s.Content.SavePost(context.Background(), &post); err != nil {
		t.Fatalf("SavePost %s: %v", post.ID, err)
	}
}

func TestSaveGetPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	savePost(t, s, models.Post{
		ID:        "p1",
		AuthorID:  "alice",
		Type:      models.PostRequest,
		Title:     "Borrow a ladder?",
		CreatedAt: time.Now(),
	})

	got, err := s.Content.GetPost(ctx, "nb-1", "p1")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "Borrow a ladder?" || got.AuthorID != "alice" {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	if _, err := s.Content.GetPost(ctx, "nb-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEligiblePosts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	expired := now.Add(-time.Hour)

	savePost(t, s, models.Post{ID: "new", CreatedAt: now})
	savePost(t, s, models.Post{ID: "old", CreatedAt: now.Add(-3 * time.Hour)})
	savePost(t, s, models.Post{ID: "hidden", CreatedAt: now, Hidden: true})
	savePost(t, s, models.Post{ID: "expired", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: &expired})
	savePost(t, s, models.Post{ID: "elsewhere", NeighborhoodID: "nb-2", CreatedAt: now})

	posts, err := s.Content.EligiblePosts(ctx, "nb-1", nil, 10)
	if err != nil {
		t.Fatalf("EligiblePosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2 (hidden, expired, foreign excluded)", len(posts))
	}
	if posts[0].ID != "new" || posts[1].ID != "old" {
		t.Errorf("posts not ordered newest first: %s, %s", posts[0].ID, posts[1].ID)
	}

	t.Run("exclude set", func(t *testing.T) {
		posts, err := s.Content.EligiblePosts(ctx, "nb-1", map[string]struct{}{"new": {}}, 10)
		if err != nil {
			t.Fatalf("EligiblePosts: %v", err)
		}
		if len(posts) != 1 || posts[0].ID != "old" {
			t.Errorf("exclude set not honored: %+v", posts)
		}
	})

	t.Run("limit", func(t *testing.T) {
		posts, err := s.Content.EligiblePosts(ctx, "nb-1", nil, 1)
		if err != nil {
			t.Fatalf("EligiblePosts: %v", err)
		}
		if len(posts) != 1 || posts[0].ID != "new" {
			t.Errorf("limit should keep the newest post: %+v", posts)
		}
	})
}

func TestRecentPosts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	savePost(t, s, models.Post{ID: "fresh", CreatedAt: now.Add(-time.Hour)})
	savePost(t, s, models.Post{ID: "stale", CreatedAt: now.Add(-48 * time.Hour)})
	savePost(t, s, models.Post{ID: "hidden", CreatedAt: now.Add(-time.Hour), Hidden: true})

	posts, err := s.Content.RecentPosts(ctx, "nb-1", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("RecentPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "fresh" {
		t.Errorf("expected only the fresh post, got %+v", posts)
	}
}

func TestHelpers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	helpers := []models.HelperListing{
		{ID: "h1", NeighborhoodID: "nb-1", Name: "Dog walking", CreatedAt: now.Add(-time.Hour)},
		{ID: "h2", NeighborhoodID: "nb-1", Name: "Tutoring", CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "h3", NeighborhoodID: "nb-2", Name: "Gardening", CreatedAt: now},
	}
	for i := range helpers {
		if err := s.Content.SaveHelper(ctx, &helpers[i]); err != nil {
			t.Fatalf("SaveHelper: %v", err)
		}
	}

	got, err := s.Content.Helpers(ctx, "nb-1")
	if err != nil {
		t.Fatalf("Helpers: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d helpers, want 2", len(got))
	}

	count, err := s.Content.NewHelperCount(ctx, "nb-1", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("NewHelperCount: %v", err)
	}
	if count != 1 {
		t.Errorf("new helper count = %d, want 1", count)
	}
}

func TestShops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	shops := []models.Shop{
		{ID: "s1", NeighborhoodID: "nb-1", Name: "Corner Bakery", Rating: 4.6},
		{ID: "s2", NeighborhoodID: "nb-2", Name: "Bike Repair", Rating: 4.1},
	}
	for i := range shops {
		if err := s.Content.SaveShop(ctx, &shops[i]); err != nil {
			t.Fatalf("SaveShop: %v", err)
		}
	}

	got, err := s.Content.Shops(ctx, "nb-1")
	if err != nil {
		t.Fatalf("Shops: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Corner Bakery" {
		t.Errorf("unexpected shops: %+v", got)
	}
}

func TestUpcomingEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	events := []models.Event{
		{ID: "past", NeighborhoodID: "nb-1", StartsAt: now.Add(-time.Hour)},
		{ID: "soon", NeighborhoodID: "nb-1", StartsAt: now.Add(2 * time.Hour)},
		{ID: "later", NeighborhoodID: "nb-1", StartsAt: now.Add(48 * time.Hour)},
		{ID: "distant", NeighborhoodID: "nb-1", StartsAt: now.Add(30 * 24 * time.Hour)},
	}
	for i := range events {
		if err := s.Content.SaveEvent(ctx, &events[i]); err != nil {
			t.Fatalf("SaveEvent: %v", err)
		}
	}

	got, err := s.Content.UpcomingEvents(ctx, "nb-1", now.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("UpcomingEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (past and beyond-horizon excluded)", len(got))
	}
	if got[0].ID != "soon" || got[1].ID != "later" {
		t.Errorf("events not in start order: %s, %s", got[0].ID, got[1].ID)
	}

	t.Run("unbounded horizon", func(t *testing.T) {
		got, err := s.Content.UpcomingEvents(ctx, "nb-1", time.Time{})
		if err != nil {
			t.Fatalf("UpcomingEvents: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("zero until should mean no horizon, got %d events", len(got))
		}
	})
}

func TestResolvedAlerts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	recent := now.Add(-2 * time.Hour)
	ancient := now.Add(-72 * time.Hour)

	alerts := []models.SafetyAlert{
		{ID: "a1", NeighborhoodID: "nb-1", Status: models.AlertResolved, ResolvedAt: &recent},
		{ID: "a2", NeighborhoodID: "nb-1", Status: models.AlertFalseAlarm, ResolvedAt: &recent},
		{ID: "a3", NeighborhoodID: "nb-1", Status: models.AlertActive},
		{ID: "a4", NeighborhoodID: "nb-1", Status: models.AlertResolved, ResolvedAt: &ancient},
	}
	for i := range alerts {
		if err := s.Content.SaveAlert(ctx, &alerts[i]); err != nil {
			t.Fatalf("SaveAlert: %v", err)
		}
	}

	got, err := s.Content.ResolvedAlerts(ctx, "nb-1", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ResolvedAlerts: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d alerts, want 2 (active and out-of-window excluded)", len(got))
	}
	for _, a := range got {
		if a.ID == "a3" || a.ID == "a4" {
			t.Errorf("alert %s should have been filtered", a.ID)
		}
	}
}

func TestViewerReactions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Content.SaveReaction(ctx, "v1", "p1", "like"); err != nil {
		t.Fatalf("SaveReaction: %v", err)
	}
	if err := s.Content.SaveReaction(ctx, "v1", "p2", "heart"); err != nil {
		t.Fatalf("SaveReaction: %v", err)
	}
	if err := s.Content.SaveReaction(ctx, "v2", "p1", "wave"); err != nil {
		t.Fatalf("SaveReaction: %v", err)
	}

	got, err := s.Content.ViewerReactions(ctx, "v1", []string{"p1", "p3"})
	if err != nil {
		t.Fatalf("ViewerReactions: %v", err)
	}
	if len(got) != 1 || got["p1"] != "like" {
		t.Errorf("unexpected reactions: %v", got)
	}
	if _, ok := got["p2"]; ok {
		t.Error("unrequested post should not appear")
	}
}
