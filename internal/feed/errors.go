// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import "errors"

// Sentinel errors surfaced to the serving layer.
var (
	// ErrInvalidEvent indicates an engagement event failed validation.
	ErrInvalidEvent = errors.New("invalid engagement event")

	// ErrInvalidInterest indicates an interest record failed validation.
	ErrInvalidInterest = errors.New("invalid interest record")
)
