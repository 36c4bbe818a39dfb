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

// applyRetries bounds the optimistic-conflict retry loop on upserts.
const applyRetries = 10

// InterestStore persists per-viewer interest records.
//
// Keys: int:<viewer>:<category>:<value>. One record per triple; Apply is
// an atomic read-modify-write inside a single Badger transaction, so
// concurrent engagement events for the same category never lose updates.
type InterestStore struct {
	db        *badger.DB
	readLimit int
}

func interestKey(viewerID string, category models.InterestCategory, value string) []byte {
	return []byte(prefixInterest + viewerID + ":" + string(category) + ":" + value)
}

// Get returns the viewer's interest records ordered by score descending,
// bounded to the read limit. A viewer with no records gets an empty slice.
func (s *InterestStore) Get(ctx context.Context, viewerID string) ([]models.InterestRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []models.InterestRecord
	prefix := []byte(prefixInterest + viewerID + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec models.InterestRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode interest record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, noteError("scan", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if len(records) > s.readLimit {
		records = records[:s.readLimit]
	}
	return records, nil
}

// Apply atomically upserts one record: on create the score starts at
// delta with interaction count 1; on update the score and count are
// incremented. Conflicting concurrent transactions are retried.
func (s *InterestStore) Apply(ctx context.Context, viewerID string, category models.InterestCategory, value string, delta float64) error {
	key := interestKey(viewerID, category, value)

	for attempt := 0; attempt < applyRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			rec := models.InterestRecord{
				ViewerID: viewerID,
				Category: category,
				Value:    value,
			}

			item, err := txn.Get(key)
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				// First interaction with this category value.
			case err != nil:
				return fmt.Errorf("get interest record: %w", err)
			default:
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &rec)
				}); err != nil {
					return fmt.Errorf("decode interest record: %w", err)
				}
			}

			rec.Score += delta
			rec.InteractionCount++
			rec.LastInteraction = time.Now()

			data, err := json.Marshal(&rec)
			if err != nil {
				return fmt.Errorf("encode interest record: %w", err)
			}
			return txn.Set(key, data)
		})

		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return noteError("apply", err)
	}

	return noteError("apply", fmt.Errorf("apply interest %s/%s for %s: %w", category, value, viewerID, badger.ErrConflict))
}

// Replace overwrites the viewer's entire interest profile in one
// transaction: existing records are dropped, the given ones written.
func (s *InterestStore) Replace(ctx context.Context, viewerID string, records []models.InterestRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := []byte(prefixInterest + viewerID + ":")

	return noteError("replace", s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete interest record: %w", err)
			}
		}

		now := time.Now()
		for i := range records {
			rec := records[i]
			rec.ViewerID = viewerID
			if rec.LastInteraction.IsZero() {
				rec.LastInteraction = now
			}

			data, err := json.Marshal(&rec)
			if err != nil {
				return fmt.Errorf("encode interest record: %w", err)
			}
			if err := txn.Set(interestKey(viewerID, rec.Category, rec.Value), data); err != nil {
				return err
			}
		}
		return nil
	}))
}
