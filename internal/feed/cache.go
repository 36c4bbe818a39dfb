// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"strings"
	"sync"
	"time"
)

// cacheTypeFeed labels this cache in the shared cache hit/miss counters.
const cacheTypeFeed = "feed"

// responseCache is a small TTL cache for ranked pages. Keys embed the
// viewer ID as the first segment so a viewer's entries can be invalidated
// when their engagement history changes.
type responseCache struct {
	cfg     CacheConfig
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

func newResponseCache(cfg CacheConfig) *responseCache {
	return &responseCache{
		cfg:     cfg,
		entries: make(map[string]cacheEntry),
	}
}

// get returns a copy of a valid cached response, or nil.
func (c *responseCache) get(key string) *Response {
	if !c.cfg.Enabled {
		return nil
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}

	// Copy so callers can stamp metadata without mutating the cached value.
	data := make([]ScoredPost, len(entry.response.Data))
	copy(data, entry.response.Data)

	return &Response{
		Data:       data,
		Pagination: entry.response.Pagination,
		Metadata:   entry.response.Metadata,
	}
}

// store caches a response, evicting expired entries when full.
func (c *responseCache) store(key string, resp *Response) {
	if !c.cfg.Enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.cfg.MaxEntries {
		c.evictExpiredLocked()
	}
	// Still full after eviction: drop the write rather than grow unbounded.
	if len(c.entries) >= c.cfg.MaxEntries {
		return
	}

	c.entries[key] = cacheEntry{
		response:  resp,
		expiresAt: time.Now().Add(c.cfg.TTL),
	}
}

// invalidateViewer drops every cached page belonging to the viewer.
func (c *responseCache) invalidateViewer(viewerID string) {
	if !c.cfg.Enabled {
		return
	}

	prefix := "feed:" + viewerID + ":"

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// evictExpiredLocked removes expired entries. Must be called with mu held.
func (c *responseCache) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}
