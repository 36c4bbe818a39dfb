// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

// Package middleware provides HTTP middleware shared across routes:
// request-ID propagation and Prometheus instrumentation. CORS and rate
// limiting come from the go-chi ecosystem and are wired in the api
// package.
package middleware
