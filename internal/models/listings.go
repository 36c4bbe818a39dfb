// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package models

import "time"

// HelperListing is a neighbor offering a service (dog walking, tutoring, ...).
type HelperListing struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	NeighborhoodID string    `json:"neighborhood_id"`
	Name           string    `json:"name"`
	Skills         []string  `json:"skills,omitempty"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}

// Offer is a time-bounded promotion attached to a shop.
type Offer struct {
	Title      string    `json:"title"`
	ValidUntil time.Time `json:"valid_until"`
}

// Shop is a local business listing.
type Shop struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	NeighborhoodID string    `json:"neighborhood_id"`
	Name           string    `json:"name"`
	Rating         float64   `json:"rating"`
	Offers         []Offer   `json:"offers,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasActiveOffer reports whether the shop has at least one offer still
// valid at the given instant.
func (s *Shop) HasActiveOffer(now time.Time) bool {
	for _, o := range s.Offers {
		if o.ValidUntil.After(now) {
			return true
		}
	}
	return false
}

// Event is a neighborhood event.
type Event struct {
	ID             string    `json:"id"`
	NeighborhoodID string    `json:"neighborhood_id"`
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"starts_at"`
}

// AlertStatus is the lifecycle state of a safety alert.
type AlertStatus string

const (
	// AlertActive is an open safety alert.
	AlertActive AlertStatus = "active"
	// AlertResolved is a confirmed and resolved alert.
	AlertResolved AlertStatus = "resolved"
	// AlertFalseAlarm is an alert resolved as a false alarm.
	AlertFalseAlarm AlertStatus = "false_alarm"
)

// SafetyAlert tracks the resolution state of a safety_alert post.
type SafetyAlert struct {
	ID             string      `json:"id"`
	PostID         string      `json:"post_id"`
	NeighborhoodID string      `json:"neighborhood_id"`
	Title          string      `json:"title"`
	Status         AlertStatus `json:"status"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
}

// ResolvedSince reports whether the alert reached a terminal status and
// was resolved at or after the given instant.
func (a *SafetyAlert) ResolvedSince(since time.Time) bool {
	if a.Status != AlertResolved && a.Status != AlertFalseAlarm {
		return false
	}
	return a.ResolvedAt != nil && !a.ResolvedAt.Before(since)
}
