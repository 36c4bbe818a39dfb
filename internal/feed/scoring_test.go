// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/neighborly-labs/feedengine/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newTestScorer(events *fakeEvents) *Scorer {
	return NewScorer(DefaultConfig(), events, zerolog.Nop())
}

// Baseline: a fresh request post by an unknown author with no engagement
// and no viewer history.
//
//	recency 1.0 * 0.3 * 100 = 30
//	type weight 1.0, no urgency
//	trust default 50 -> *1.075
//	= 32.25
const baselineScore = 32.25

func TestScoreBaseline(t *testing.T) {
	scorer := newTestScorer(&fakeEvents{})
	now := time.Now()
	post := testPost("p1", "alice", models.PostRequest, 0)
	post.CreatedAt = now

	got, err := scorer.Score(context.Background(), &post, "v1", models.EmptyInterestSet(), now)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !almostEqual(got, baselineScore) {
		t.Errorf("baseline score = %v, want %v", got, baselineScore)
	}
}

func TestScoreRecencyDecay(t *testing.T) {
	scorer := newTestScorer(&fakeEvents{})
	now := time.Now()
	ctx := context.Background()

	scoreAt := func(age time.Duration) float64 {
		post := testPost("p1", "alice", models.PostRequest, 0)
		post.CreatedAt = now.Add(-age)
		got, err := scorer.Score(ctx, &post, "v1", models.EmptyInterestSet(), now)
		if err != nil {
			t.Fatalf("Score at age %v: %v", age, err)
		}
		return got
	}

	fresh := scoreAt(0)
	sixHours := scoreAt(6 * time.Hour)
	twoDays := scoreAt(48 * time.Hour)

	if !(fresh > sixHours && sixHours > twoDays) {
		t.Errorf("recency not strictly decreasing: %v, %v, %v", fresh, sixHours, twoDays)
	}

	// Future-dated posts clamp to age zero rather than boost.
	if got := scoreAt(-time.Hour); !almostEqual(got, fresh) {
		t.Errorf("future post score = %v, want %v", got, fresh)
	}
}

func TestScoreTypeWeights(t *testing.T) {
	scorer := newTestScorer(&fakeEvents{})
	now := time.Now()
	ctx := context.Background()

	tests := []struct {
		postType models.PostType
		want     float64
	}{
		{models.PostSafetyAlert, 30 * 1.5 * 1.075},
		{models.PostAnnouncement, 30 * 1.2 * 1.075},
		{models.PostRequest, 30 * 1.0 * 1.075},
		{models.PostRecommendation, 30 * 1.0 * 1.075},
		{models.PostRental, 30 * 0.9 * 1.075},
		{models.PostHelperListing, 30 * 0.9 * 1.075},
		{models.PostBuySell, 30 * 0.8 * 1.075},
		{models.PostType("mystery"), 30 * 1.0 * 1.075},
	}
	for _, tt := range tests {
		t.Run(string(tt.postType), func(t *testing.T) {
			post := testPost("p1", "alice", tt.postType, 0)
			post.CreatedAt = now
			got, err := scorer.Score(ctx, &post, "v1", models.EmptyInterestSet(), now)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreUrgency(t *testing.T) {
	scorer := newTestScorer(&fakeEvents{})
	now := time.Now()
	post := testPost("p1", "alice", models.PostRequest, 0)
	post.CreatedAt = now
	post.Urgent = true

	got, err := scorer.Score(context.Background(), &post, "v1", models.EmptyInterestSet(), now)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if want := baselineScore * 1.5; !almostEqual(got, want) {
		t.Errorf("urgent score = %v, want %v", got, want)
	}
}

func TestScoreAuthorTrust(t *testing.T) {
	scorer := newTestScorer(&fakeEvents{})
	now := time.Now()
	ctx := context.Background()

	tests := []struct {
		name  string
		trust models.TrustScore
		want  float64
	}{
		{"unknown defaults to 50", 0, 30 * 1.075},
		{"explicit 50 matches default", 50, 30 * 1.075},
		{"full trust", 100, 30 * 1.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := testPost("p1", "alice", models.PostRequest, 0)
			post.CreatedAt = now
			post.AuthorTrust = tt.trust
			got, err := scorer.Score(ctx, &post, "v1", models.EmptyInterestSet(), now)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreEngagementRate(t *testing.T) {
	scorer := newTestScorer(&fakeEvents{})
	now := time.Now()
	ctx := context.Background()

	post := testPost("p1", "alice", models.PostRequest, 0)
	post.CreatedAt = now
	post.ViewCount = 100
	post.ReactionCount = 10
	post.CommentCount = 5

	got, err := scorer.Score(ctx, &post, "v1", models.EmptyInterestSet(), now)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// rate = (10 + 2*5)/100 = 0.2; term = 0.2 * 0.15 * 50 = 1.5
	if want := baselineScore + 1.5; !almostEqual(got, want) {
		t.Errorf("score = %v, want %v", got, want)
	}

	// Reactions without a single view contribute nothing.
	unseen := testPost("p2", "alice", models.PostRequest, 0)
	unseen.CreatedAt = now
	unseen.ReactionCount = 50
	got, err = scorer.Score(ctx, &unseen, "v1", models.EmptyInterestSet(), now)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !almostEqual(got, baselineScore) {
		t.Errorf("unseen post score = %v, want %v", got, baselineScore)
	}
}

func TestInterestMatch(t *testing.T) {
	scorer := newTestScorer(&fakeEvents{})

	post := models.Post{
		Type:    models.PostRequest,
		Title:   "Lost cat near the park",
		Content: "Orange tabby, answers to Miso. Last seen by the Community Garden.",
		Tags:    []string{"pets", "lost-and-found"},
	}

	record := func(cat models.InterestCategory, value string, score float64) models.InterestRecord {
		return models.InterestRecord{Category: cat, Value: value, Score: score}
	}

	tests := []struct {
		name    string
		records []models.InterestRecord
		want    float64
	}{
		{"no records", nil, 0},
		{"post type match", []models.InterestRecord{
			record(models.InterestPostType, "request", 0.5),
		}, 0.5 * 0.3},
		{"post type mismatch", []models.InterestRecord{
			record(models.InterestPostType, "buy_sell", 0.9),
		}, 0},
		{"tag match", []models.InterestRecord{
			record(models.InterestTag, "pets", 1.0),
		}, 0.4},
		{"topic match is case-insensitive", []models.InterestRecord{
			record(models.InterestTopic, "community garden", 1.0),
		}, 0.3},
		{"topic in title", []models.InterestRecord{
			record(models.InterestTopic, "Lost Cat", 1.0),
		}, 0.3},
		{"empty topic never matches", []models.InterestRecord{
			record(models.InterestTopic, "", 1.0),
		}, 0},
		{"contributions sum", []models.InterestRecord{
			record(models.InterestPostType, "request", 0.5),
			record(models.InterestTag, "pets", 0.5),
		}, 0.5*0.3 + 0.5*0.4},
		{"sum clamps at cap", []models.InterestRecord{
			record(models.InterestPostType, "request", 2.0),
			record(models.InterestTag, "pets", 2.0),
			record(models.InterestTopic, "miso", 2.0),
		}, 1.0},
		{"negative weights pass through", []models.InterestRecord{
			record(models.InterestPostType, "request", -1.0),
		}, -0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.InterestMatch(&post, models.InterestSet{Records: tt.records})
			if !almostEqual(got, tt.want) {
				t.Errorf("InterestMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreAuthorAffinity(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	tests := []struct {
		name     string
		affinity int
		want     float64
	}{
		{"no history", 0, baselineScore},
		{"half saturation", 5, baselineScore * 1.1},
		{"saturated", 10, baselineScore * 1.2},
		{"beyond saturation clamps", 100, baselineScore * 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &fakeEvents{affinity: tt.affinity}
			scorer := newTestScorer(events)
			post := testPost("p1", "alice", models.PostRequest, 0)
			post.CreatedAt = now

			got, err := scorer.Score(ctx, &post, "v1", models.EmptyInterestSet(), now)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

// The affinity lookup is all-time and spans every author's posts, not just
// the candidate author's. The query shape pins that down.
func TestScoreAffinityLookupIsAllTime(t *testing.T) {
	events := &fakeEvents{}
	scorer := newTestScorer(events)
	now := time.Now()
	post := testPost("p1", "alice", models.PostRequest, 0)

	if _, err := scorer.Score(context.Background(), &post, "v1", models.EmptyInterestSet(), now); err != nil {
		t.Fatalf("Score: %v", err)
	}

	if !events.lastSince.IsZero() {
		t.Errorf("affinity count should be all-time, got since=%v", events.lastSince)
	}
	want := []models.EngagementAction{models.ActionReact, models.ActionComment, models.ActionSave}
	if len(events.lastActions) != len(want) {
		t.Fatalf("affinity actions = %v, want %v", events.lastActions, want)
	}
	for i := range want {
		if events.lastActions[i] != want[i] {
			t.Errorf("affinity action %d = %v, want %v", i, events.lastActions[i], want[i])
		}
	}
}

func TestScoreSimilarityPenalty(t *testing.T) {
	now := time.Now()
	ctx := context.Background()

	tests := []struct {
		name  string
		views int
		want  float64
	}{
		{"no recent views", 0, baselineScore},
		{"light repetition", 2, baselineScore * 0.94},
		{"penalty saturates", 5, baselineScore * 0.85},
		{"heavy repetition clamps", 50, baselineScore * 0.85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &fakeEvents{typeViews: map[models.PostType]int{models.PostRequest: tt.views}}
			scorer := newTestScorer(events)
			post := testPost("p1", "alice", models.PostRequest, 0)
			post.CreatedAt = now

			got, err := scorer.Score(ctx, &post, "v1", models.EmptyInterestSet(), now)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreEventLogError(t *testing.T) {
	events := &fakeEvents{err: errors.New("log unavailable")}
	scorer := newTestScorer(events)
	post := testPost("p1", "alice", models.PostRequest, 0)

	if _, err := scorer.Score(context.Background(), &post, "v1", models.EmptyInterestSet(), time.Now()); err == nil {
		t.Fatal("expected error when the event log fails")
	}
}
