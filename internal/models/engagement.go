// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package models

import "time"

// EngagementAction classifies a viewer action against a post.
type EngagementAction string

const (
	// ActionView records a post impression.
	ActionView EngagementAction = "view"
	// ActionClick records a post open.
	ActionClick EngagementAction = "click"
	// ActionReact records a reaction.
	ActionReact EngagementAction = "react"
	// ActionComment records a comment.
	ActionComment EngagementAction = "comment"
	// ActionSave records a bookmark.
	ActionSave EngagementAction = "save"
	// ActionShare records a share.
	ActionShare EngagementAction = "share"
	// ActionHide records the viewer hiding the post.
	ActionHide EngagementAction = "hide"
)

// KnownActions lists every valid engagement action.
var KnownActions = []EngagementAction{
	ActionView, ActionClick, ActionReact, ActionComment,
	ActionSave, ActionShare, ActionHide,
}

// IsValid reports whether a is a known engagement action.
func (a EngagementAction) IsValid() bool {
	for _, known := range KnownActions {
		if a == known {
			return true
		}
	}
	return false
}

// EngagementEvent is one immutable log entry capturing a viewer action
// against a post. Events are append-only: never mutated or deleted.
// The post type is denormalized at write time for fast windowed queries.
type EngagementEvent struct {
	// ID is the unique event identifier.
	ID string `json:"id"`

	// ViewerID identifies the acting viewer.
	ViewerID string `json:"viewer_id"`

	// PostID identifies the target post.
	PostID string `json:"post_id"`

	// PostType is the target post's content type at write time.
	PostType PostType `json:"post_type"`

	// Action is the recorded action.
	Action EngagementAction `json:"action"`

	// DurationMS is optional dwell time in milliseconds.
	DurationMS int64 `json:"duration_ms,omitempty"`

	// ScrollDepth is optional scroll depth (0-1).
	ScrollDepth float64 `json:"scroll_depth,omitempty"`

	// CreatedAt is when the action occurred.
	CreatedAt time.Time `json:"created_at"`
}
