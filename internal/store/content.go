// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// ContentStore reads and writes neighborhood content: posts, helper and
// shop listings, events, and safety alerts. Records are keyed by
// neighborhood so every read is a single prefix scan.
type ContentStore struct {
	db *badger.DB
}

func postKey(neighborhoodID, postID string) []byte {
	return []byte(prefixPost + neighborhoodID + ":" + postID)
}

func helperKey(neighborhoodID, helperID string) []byte {
	return []byte(prefixHelper + neighborhoodID + ":" + helperID)
}

func shopKey(neighborhoodID, shopID string) []byte {
	return []byte(prefixShop + neighborhoodID + ":" + shopID)
}

func calendarKey(neighborhoodID, eventID string) []byte {
	return []byte(prefixEventCal + neighborhoodID + ":" + eventID)
}

func alertKey(neighborhoodID, alertID string) []byte {
	return []byte(prefixAlert + neighborhoodID + ":" + alertID)
}

func reactionKey(viewerID, postID string) []byte {
	return []byte(prefixReaction + viewerID + ":" + postID)
}

// SavePost upserts a post record.
func (c *ContentStore) SavePost(ctx context.Context, post *models.Post) error {
	return c.put(ctx, postKey(post.NeighborhoodID, post.ID), post)
}

// GetPost reads one post. Returns ErrNotFound when absent.
func (c *ContentStore) GetPost(ctx context.Context, neighborhoodID, postID string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post models.Post
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(neighborhoodID, postID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &post)
		})
	})
	if err != nil {
		return nil, noteError("get", err)
	}
	return &post, nil
}

// EligiblePosts returns up to limit eligible posts in the neighborhood,
// excluding the given IDs, newest first. Hidden and expired posts never
// leave this method.
func (c *ContentStore) EligiblePosts(ctx context.Context, neighborhoodID string, exclude map[string]struct{}, limit int) ([]models.Post, error) {
	now := time.Now()
	var posts []models.Post
	err := scanPrefix(ctx, c.db, prefixPost+neighborhoodID+":", func(post *models.Post) {
		if !post.Eligible(now) {
			return
		}
		if _, skip := exclude[post.ID]; skip {
			return
		}
		posts = append(posts, *post)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// RecentPosts returns non-hidden posts created at or after since.
func (c *ContentStore) RecentPosts(ctx context.Context, neighborhoodID string, since time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := scanPrefix(ctx, c.db, prefixPost+neighborhoodID+":", func(post *models.Post) {
		if post.Hidden || post.CreatedAt.Before(since) {
			return
		}
		posts = append(posts, *post)
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// SaveHelper upserts a helper listing.
func (c *ContentStore) SaveHelper(ctx context.Context, helper *models.HelperListing) error {
	return c.put(ctx, helperKey(helper.NeighborhoodID, helper.ID), helper)
}

// Helpers returns all helper listings in the neighborhood.
func (c *ContentStore) Helpers(ctx context.Context, neighborhoodID string) ([]models.HelperListing, error) {
	var helpers []models.HelperListing
	err := scanPrefix(ctx, c.db, prefixHelper+neighborhoodID+":", func(h *models.HelperListing) {
		helpers = append(helpers, *h)
	})
	if err != nil {
		return nil, err
	}
	return helpers, nil
}

// NewHelperCount counts helper listings created at or after since.
func (c *ContentStore) NewHelperCount(ctx context.Context, neighborhoodID string, since time.Time) (int, error) {
	count := 0
	err := scanPrefix(ctx, c.db, prefixHelper+neighborhoodID+":", func(h *models.HelperListing) {
		if !h.CreatedAt.Before(since) {
			count++
		}
	})
	return count, err
}

// SaveShop upserts a shop listing.
func (c *ContentStore) SaveShop(ctx context.Context, shop *models.Shop) error {
	return c.put(ctx, shopKey(shop.NeighborhoodID, shop.ID), shop)
}

// Shops returns all shop listings in the neighborhood.
func (c *ContentStore) Shops(ctx context.Context, neighborhoodID string) ([]models.Shop, error) {
	var shops []models.Shop
	err := scanPrefix(ctx, c.db, prefixShop+neighborhoodID+":", func(s *models.Shop) {
		shops = append(shops, *s)
	})
	if err != nil {
		return nil, err
	}
	return shops, nil
}

// SaveEvent upserts a calendar event.
func (c *ContentStore) SaveEvent(ctx context.Context, event *models.Event) error {
	return c.put(ctx, calendarKey(event.NeighborhoodID, event.ID), event)
}

// UpcomingEvents returns events starting after now, soonest first. A
// zero until means no upper bound; otherwise events must start at or
// before until.
func (c *ContentStore) UpcomingEvents(ctx context.Context, neighborhoodID string, until time.Time) ([]models.Event, error) {
	now := time.Now()
	var events []models.Event
	err := scanPrefix(ctx, c.db, prefixEventCal+neighborhoodID+":", func(e *models.Event) {
		if !e.StartsAt.After(now) {
			return
		}
		if !until.IsZero() && e.StartsAt.After(until) {
			return
		}
		events = append(events, *e)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, nil
}

// SaveAlert upserts a safety alert record.
func (c *ContentStore) SaveAlert(ctx context.Context, alert *models.SafetyAlert) error {
	return c.put(ctx, alertKey(alert.NeighborhoodID, alert.ID), alert)
}

// ResolvedAlerts returns safety alerts resolved at or after since.
func (c *ContentStore) ResolvedAlerts(ctx context.Context, neighborhoodID string, since time.Time) ([]models.SafetyAlert, error) {
	var alerts []models.SafetyAlert
	err := scanPrefix(ctx, c.db, prefixAlert+neighborhoodID+":", func(a *models.SafetyAlert) {
		if !a.ResolvedSince(since) {
			return
		}
		alerts = append(alerts, *a)
	})
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// SaveReaction records the viewer's reaction to a post.
func (c *ContentStore) SaveReaction(ctx context.Context, viewerID, postID, reaction string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return noteError("put", c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reactionKey(viewerID, postID), []byte(reaction))
	}))
}

// ViewerReactions returns the viewer's own reaction, if any, for each of
// the given posts. Point lookups rather than a scan: the post list comes
// from one feed page and stays small.
func (c *ContentStore) ViewerReactions(ctx context.Context, viewerID string, postIDs []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reactions := make(map[string]string)
	err := c.db.View(func(txn *badger.Txn) error {
		for _, postID := range postIDs {
			item, err := txn.Get(reactionKey(viewerID, postID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			reactions[postID] = string(val)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reactions, nil
}

func (c *ContentStore) put(ctx context.Context, key []byte, record any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return noteError("put", c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}))
}

// scanPrefix decodes every record under prefix and hands it to fn.
func scanPrefix[T any](ctx context.Context, db *badger.DB, prefix string, fn func(*T)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return noteError("scan", db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			}); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			fn(&record)
		}
		return nil
	}))
}
