// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package models

import "time"

// PostType classifies community posts into a fixed enumeration.
type PostType string

const (
	// PostSafetyAlert is a neighborhood safety alert.
	PostSafetyAlert PostType = "safety_alert"
	// PostAnnouncement is a general announcement.
	PostAnnouncement PostType = "announcement"
	// PostRequest is a request for help or information.
	PostRequest PostType = "request"
	// PostRecommendation is a recommendation shared by a neighbor.
	PostRecommendation PostType = "recommendation"
	// PostRental is a rental listing.
	PostRental PostType = "rental"
	// PostHelperListing is a helper service listing.
	PostHelperListing PostType = "helper_listing"
	// PostBuySell is a buy/sell marketplace post.
	PostBuySell PostType = "buy_sell"
)

// KnownPostTypes lists every valid post type.
var KnownPostTypes = []PostType{
	PostSafetyAlert,
	PostAnnouncement,
	PostRequest,
	PostRecommendation,
	PostRental,
	PostHelperListing,
	PostBuySell,
}

// IsValid reports whether t is one of the known post types.
func (t PostType) IsValid() bool {
	for _, known := range KnownPostTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TrustScore is an author reputation value on a 0-100 scale.
// The zero value means "unknown"; use OrDefault before arithmetic.
type TrustScore float64

// DefaultTrust is the trust score assumed for authors with no reputation data.
func DefaultTrust() TrustScore {
	return 50
}

// OrDefault resolves an unset (zero) trust score to the default.
func (t TrustScore) OrDefault() TrustScore {
	if t == 0 {
		return DefaultTrust()
	}
	return t
}

// Post is a community post as read from the content repository.
// Aggregate counts are denormalized at read time so ranking never
// needs a per-candidate join.
type Post struct {
	// ID is the unique post identifier.
	ID string `json:"id"`

	// AuthorID identifies the post author.
	AuthorID string `json:"author_id"`

	// NeighborhoodID scopes the post to a neighborhood.
	NeighborhoodID string `json:"neighborhood_id"`

	// Type is the post content type.
	Type PostType `json:"type"`

	// Title is the post title.
	Title string `json:"title"`

	// Content is the free-text post body.
	Content string `json:"content"`

	// Tags is the set of free-text tags attached to the post.
	Tags []string `json:"tags,omitempty"`

	// CreatedAt is the post creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the optional expiry timestamp.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// Urgent flags time-sensitive posts.
	Urgent bool `json:"urgent"`

	// ViewCount is the total view count.
	ViewCount int `json:"view_count"`

	// ReactionCount is the cached aggregate reaction count.
	ReactionCount int `json:"reaction_count"`

	// CommentCount is the cached aggregate comment count.
	CommentCount int `json:"comment_count"`

	// Hidden excludes a post from all ranking when true.
	Hidden bool `json:"hidden"`

	// AuthorTrust is the author's reputation, denormalized onto the post.
	// Zero means unknown and resolves to DefaultTrust during scoring.
	AuthorTrust TrustScore `json:"author_trust,omitempty"`
}

// Eligible reports whether the post may enter ranking at the given instant:
// not hidden and not expired.
func (p *Post) Eligible(now time.Time) bool {
	if p.Hidden {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	return true
}

// HasTag reports whether the post carries the given tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
