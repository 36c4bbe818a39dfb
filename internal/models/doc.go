// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

// Package models defines the domain types shared across the feed engine:
// posts, engagement events, interest records, listings, and the API
// response envelope. Types here are plain data with no behavior beyond
// small predicates; all ranking logic lives in internal/feed.
package models
