// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/neighborly-labs/feedengine/internal/logging"
	"github.com/neighborly-labs/feedengine/internal/metrics"
)

// Key prefixes for BadgerDB storage. Every record type gets its own
// prefix so accessors can scan independently.
const (
	prefixInterest = "int:"
	prefixEvent    = "evt:"
	prefixPost     = "post:"
	prefixHelper   = "helper:"
	prefixShop     = "shop:"
	prefixEventCal = "evcal:"
	prefixAlert    = "alert:"
	prefixReaction = "react:"
)

// Sentinel errors.
var (
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Config holds store configuration.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `koanf:"path" json:"path"`

	// InMemory runs the store without persistence. Used in tests and
	// ephemeral deployments.
	InMemory bool `koanf:"in_memory" json:"in_memory"`

	// SyncWrites forces fsync on every write.
	SyncWrites bool `koanf:"sync_writes" json:"sync_writes"`

	// InterestReadLimit bounds the per-viewer interest profile read.
	InterestReadLimit int `koanf:"interest_read_limit" json:"interest_read_limit"`
}

// DefaultConfig returns store defaults.
func DefaultConfig() Config {
	return Config{
		Path:              "/data/feedengine",
		SyncWrites:        false,
		InterestReadLimit: 20,
	}
}

// Store bundles the three accessors over one BadgerDB instance:
// interest profiles, the append-only engagement log, and the content
// repository.
type Store struct {
	db *badger.DB

	// Interests is the per-viewer interest-weight table.
	Interests *InterestStore

	// Events is the append-only engagement event log.
	Events *EventLog

	// Content is the post and listings repository.
	Content *ContentStore
}

// Open creates (or opens) the store at the configured path.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	readLimit := cfg.InterestReadLimit
	if readLimit <= 0 {
		readLimit = DefaultConfig().InterestReadLimit
	}

	s := &Store{
		db:        db,
		Interests: &InterestStore{db: db, readLimit: readLimit},
		Events:    &EventLog{db: db},
		Content:   &ContentStore{db: db},
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("store opened")

	return s, nil
}

// Ping verifies the database is open and readable.
func (s *Store) Ping() error {
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// noteError counts storage failures by operation. Not-found and caller
// cancellation are outcomes, not failures.
func noteError(op string, err error) error {
	if err != nil &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) {
		metrics.StoreErrors.WithLabelValues(op).Inc()
	}
	return err
}
