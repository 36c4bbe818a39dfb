// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package models

import "time"

// InterestCategory classifies what an interest record refers to.
type InterestCategory string

const (
	// InterestPostType weights a post content type.
	InterestPostType InterestCategory = "post_type"
	// InterestTag weights a free-text tag.
	InterestTag InterestCategory = "tag"
	// InterestTopic weights a topic matched as a substring of title+content.
	InterestTopic InterestCategory = "topic"
)

// IsValid reports whether c is a known interest category.
func (c InterestCategory) IsValid() bool {
	switch c {
	case InterestPostType, InterestTag, InterestTopic:
		return true
	}
	return false
}

// InterestRecord is a durable (viewer, category, value) -> weight mapping
// used to bias scoring toward a viewer's demonstrated preferences.
//
// At most one record exists per (viewer, category, value) triple; updates
// are upserts. The score is unbounded in principle: consumers treat values
// above 1.0 as saturated, and repeated hide actions can drive it negative.
type InterestRecord struct {
	// ViewerID identifies the viewer this interest belongs to.
	ViewerID string `json:"viewer_id"`

	// Category is the interest category.
	Category InterestCategory `json:"category"`

	// Value is the category-specific value (a post type, tag, or topic).
	Value string `json:"value"`

	// Score is the accumulated interest weight.
	Score float64 `json:"score"`

	// InteractionCount is the number of contributing interactions.
	InteractionCount int `json:"interaction_count"`

	// LastInteraction is when the record was last updated.
	LastInteraction time.Time `json:"last_interaction"`
}

// InterestSet is a viewer's interest profile as consumed by scoring.
// The zero value is a valid, empty profile: missing data never errors.
type InterestSet struct {
	// Records is ordered by score descending, bounded to the store's
	// per-viewer read limit.
	Records []InterestRecord
}

// EmptyInterestSet returns the profile used when a viewer has no history.
func EmptyInterestSet() InterestSet {
	return InterestSet{}
}
