// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

// Package store provides BadgerDB-backed persistence for the feed
// engine: viewer interest profiles, the append-only engagement event
// log, and the neighborhood content repository.
//
// All record types share one database and are separated by key prefix.
// Records are encoded as JSON. Interest upserts are atomic inside a
// single Badger transaction with optimistic-conflict retry; engagement
// events are immutable once appended.
package store
