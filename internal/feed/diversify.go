// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import "github.com/neighborly-labs/feedengine/internal/metrics"

// Diversifier reorders a score-sorted list under sliding-window constraints
// so the same author or content type does not cluster.
//
// The algorithm is greedy, single-pass, and non-backtracking: at each step
// it emits the first remaining candidate (still in descending-score order)
// whose author and type are absent from the two recent windows. The
// constraints are a soft preference: when no candidate satisfies both, the
// highest-scored remaining candidate is emitted unconditionally, so the
// pass can never starve the feed. Output is always a permutation of the
// input.
type Diversifier struct {
	authorWindow int
	typeWindow   int
}

// NewDiversifier creates a diversifier with the given window capacities.
// A zero or negative capacity disables that constraint.
func NewDiversifier(cfg DiversityConfig) *Diversifier {
	return &Diversifier{
		authorWindow: cfg.AuthorWindow,
		typeWindow:   cfg.TypeWindow,
	}
}

// Name returns the reranker identifier.
func (d *Diversifier) Name() string {
	return "sliding_window"
}

// pickResult names the two emission modes. The fallback path is an
// explicit state, not an escape hatch buried in the selection loop.
type pickResult int

const (
	pickStrict pickResult = iota
	pickFallback
)

// Diversify reorders scoredPosts in place-order semantics: the returned
// slice has the same length and multiset of elements as the input.
func (d *Diversifier) Diversify(scoredPosts []ScoredPost) []ScoredPost {
	out, fallbacks := d.reorder(scoredPosts)
	if fallbacks > 0 {
		metrics.FeedDiversityFallbacks.Add(float64(fallbacks))
	}
	return out
}

// reorder runs the selection loop and reports how many slots were filled
// by the fallback rather than a strict pick.
func (d *Diversifier) reorder(scoredPosts []ScoredPost) ([]ScoredPost, int) {
	if len(scoredPosts) <= 1 {
		return scoredPosts, 0
	}

	remaining := make([]ScoredPost, len(scoredPosts))
	copy(remaining, scoredPosts)

	out := make([]ScoredPost, 0, len(remaining))
	recentAuthors := newWindow(d.authorWindow)
	recentTypes := newWindow(d.typeWindow)
	fallbacks := 0

	for len(remaining) > 0 {
		idx, mode := d.pick(remaining, recentAuthors, recentTypes)
		if mode == pickFallback {
			fallbacks++
		}

		chosen := remaining[idx]
		out = append(out, chosen)
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		recentAuthors.push(chosen.Post.AuthorID)
		recentTypes.push(string(chosen.Post.Type))
	}

	return out, fallbacks
}

// pick scans the remaining candidates front-to-back for the first one
// admissible under both windows. When none is, it falls back to index 0,
// the highest-scored remaining candidate.
func (d *Diversifier) pick(remaining []ScoredPost, authors, types *window) (int, pickResult) {
	for i := range remaining {
		if authors.contains(remaining[i].Post.AuthorID) {
			continue
		}
		if types.contains(string(remaining[i].Post.Type)) {
			continue
		}
		return i, pickStrict
	}
	return 0, pickFallback
}

// window is a bounded most-recent-first queue. Pushing beyond capacity
// evicts the oldest entry.
type window struct {
	capacity int
	entries  []string
}

func newWindow(capacity int) *window {
	return &window{capacity: capacity}
}

func (w *window) push(v string) {
	if w.capacity <= 0 {
		return
	}
	w.entries = append([]string{v}, w.entries...)
	if len(w.entries) > w.capacity {
		w.entries = w.entries[:w.capacity]
	}
}

func (w *window) contains(v string) bool {
	for _, e := range w.entries {
		if e == v {
			return true
		}
	}
	return false
}
