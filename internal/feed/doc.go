// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

// Package feed implements the personalized content ranking and
// diversification pipeline, the trending engine, the online interest
// updater, the recommendation composer, and the daily digest aggregator.
//
// # Pipeline
//
// A feed request over-fetches a bounded candidate set, scores every
// candidate concurrently, sorts by score descending, reorders the result
// under sliding-window author/type constraints, slices the requested
// page, and attaches the viewer's own reaction and saved state. The
// diversification pass is the single serialization point; everything
// before it is embarrassingly parallel.
//
// # Weight tables
//
// All scoring, type, and action weight tables are immutable configuration
// injected at construction (see Config and DefaultConfig). Algorithm code
// never embeds tunable constants.
//
// # Failure semantics
//
// Missing data is never an error: unknown authors score with default
// trust, viewers without history score with an empty interest set.
// Accessor failures propagate to the caller, which owns retry policy.
package feed
