// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// EventLog is the append-only engagement event log.
//
// Keys: evt:<viewer>:<unixnano, zero-padded>:<suffix>. The zero-padded
// timestamp makes keys sort chronologically within a viewer, so windowed
// queries seek directly to the window start instead of scanning the full
// history. Events are never mutated or deleted.
type EventLog struct {
	db *badger.DB
}

func eventKeyPrefix(viewerID string) []byte {
	return []byte(prefixEvent + viewerID + ":")
}

func eventKey(viewerID string, at time.Time, suffix string) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%s", prefixEvent, viewerID, at.UnixNano(), suffix))
}

// Append records one immutable event.
func (l *EventLog) Append(ctx context.Context, event *models.EngagementEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	// Short suffix keeps keys unique for same-nanosecond events.
	suffix := event.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}

	return noteError("append", l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(event.ViewerID, event.CreatedAt, suffix), data)
	}))
}

// CountActions counts the viewer's events matching any of the given
// actions. A zero since counts over all time.
func (l *EventLog) CountActions(ctx context.Context, viewerID string, actions []models.EngagementAction, since time.Time) (int, error) {
	wanted := make(map[models.EngagementAction]struct{}, len(actions))
	for _, a := range actions {
		wanted[a] = struct{}{}
	}

	count := 0
	err := l.scan(ctx, viewerID, since, func(event *models.EngagementEvent) {
		if _, ok := wanted[event.Action]; ok {
			count++
		}
	})
	return count, err
}

// CountTypeViews counts view events against posts of the given content
// type since the given instant.
func (l *EventLog) CountTypeViews(ctx context.Context, viewerID string, postType models.PostType, since time.Time) (int, error) {
	count := 0
	err := l.scan(ctx, viewerID, since, func(event *models.EngagementEvent) {
		if event.Action == models.ActionView && event.PostType == postType {
			count++
		}
	})
	return count, err
}

// DistinctPosts returns the distinct post IDs the viewer has the given
// action recorded against, over all time.
func (l *EventLog) DistinctPosts(ctx context.Context, viewerID string, action models.EngagementAction) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	err := l.scan(ctx, viewerID, time.Time{}, func(event *models.EngagementEvent) {
		if event.Action == action {
			ids[event.PostID] = struct{}{}
		}
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// scan iterates the viewer's events from since onward. A zero since
// starts at the beginning of the viewer's history.
func (l *EventLog) scan(ctx context.Context, viewerID string, since time.Time, fn func(*models.EngagementEvent)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := eventKeyPrefix(viewerID)
	seek := prefix
	if !since.IsZero() {
		seek = eventKey(viewerID, since, "")
	}

	return noteError("scan", l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var event models.EngagementEvent
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			}); err != nil {
				return fmt.Errorf("decode event: %w", err)
			}
			fn(&event)
		}
		return nil
	}))
}
