// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package feed

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/neighborly-labs/feedengine/internal/metrics"
	"github.com/neighborly-labs/feedengine/internal/models"
)

// Engine coordinates the feed ranking pipeline: candidate over-fetch,
// parallel per-post scoring, descending sort, sliding-window
// diversification, pagination, and viewer-state attachment. It also fronts
// the trending engine, recommendation composer, digest aggregator, and
// interest management. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	content   ContentRepository
	events    EventLog
	interests InterestStore

	scorer      *Scorer
	diversifier *Diversifier
	trending    *TrendingEngine
	composer    *Composer
	digest      *DigestAggregator
	updater     *InterestUpdater

	// Response cache
	cache *responseCache

	// Metrics
	requestCount     atomic.Int64
	cacheHits        atomic.Int64
	cacheMisses      atomic.Int64
	errorCount       atomic.Int64
	candidatesScored atomic.Int64
}

// NewEngine wires the full pipeline from one config and the three
// accessors.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, content ContentRepository, events EventLog, interests InterestStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log := logger.With().Str("component", "feed").Logger()

	scorer := NewScorer(cfg, events, log)
	trending := NewTrendingEngine(cfg.Trending, content, log)
	composer := NewComposer(cfg.Recommend, content, events, interests, scorer, log)

	e := &Engine{
		config:      cfg,
		logger:      log,
		content:     content,
		events:      events,
		interests:   interests,
		scorer:      scorer,
		diversifier: NewDiversifier(cfg.Diversity),
		trending:    trending,
		composer:    composer,
		digest:      NewDigestAggregator(cfg.Digest, trending, composer, content, log),
		updater:     NewInterestUpdater(cfg.Interests, interests, log),
		cache:       newResponseCache(cfg.Cache),
	}

	return e, nil
}

// Feed produces one ranked, diversified, paginated feed page.
func (e *Engine) Feed(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("viewer", req.ViewerID).
		Str("neighborhood", req.NeighborhoodID).
		Logger()

	if resp := e.tryCache(req, start); resp != nil {
		logger.Debug().Msg("cache hit")
		return resp, nil
	}

	interestSet, err := e.viewerInterests(ctx, req.ViewerID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	candidates, err := e.fetchCandidates(ctx, req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Debug().Msg("no eligible candidates")
		return e.emptyResponse(req, start), nil
	}

	scored, err := e.scoreCandidates(ctx, req.ViewerID, candidates, interestSet)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	// Descending by score; ties resolved by recency then ID so output
	// is deterministic for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if !scored[i].Post.CreatedAt.Equal(scored[j].Post.CreatedAt) {
			return scored[i].Post.CreatedAt.After(scored[j].Post.CreatedAt)
		}
		return scored[i].Post.ID < scored[j].Post.ID
	})

	// The one serialization point: diversification depends on emission
	// order and runs only after every score is available.
	scored = e.diversifier.Diversify(scored)

	page, pagination := e.paginate(scored, req.Page, req.Limit)

	if err := e.attachViewerState(ctx, req.ViewerID, page); err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("attach viewer state: %w", err)
	}

	resp := &Response{
		Data:       page,
		Pagination: pagination,
		Metadata: ResponseMetadata{
			RequestID:  req.RequestID,
			ViewerID:   req.ViewerID,
			Candidates: len(candidates),
			LatencyMS:  time.Since(start).Milliseconds(),
			Timestamp:  time.Now(),
		},
	}

	e.cache.store(cacheKey(req), resp)

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(page)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("feed ranked")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = e.config.Limits.DefaultPageSize
	}
	if req.Limit > e.config.Limits.MaxPageSize {
		req.Limit = e.config.Limits.MaxPageSize
	}
	return req
}

// tryCache returns a cached page with refreshed latency, or nil.
func (e *Engine) tryCache(req Request, start time.Time) *Response {
	resp := e.cache.get(cacheKey(req))
	if resp == nil {
		e.cacheMisses.Add(1)
		metrics.RecordCacheMiss(cacheTypeFeed)
		return nil
	}

	e.cacheHits.Add(1)
	metrics.RecordCacheHit(cacheTypeFeed)
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	return resp
}

// viewerInterests loads the viewer's profile. A viewer with no history
// resolves to the empty set, never an error.
func (e *Engine) viewerInterests(ctx context.Context, viewerID string) (models.InterestSet, error) {
	records, err := e.interests.Get(ctx, viewerID)
	if err != nil {
		return models.EmptyInterestSet(), fmt.Errorf("fetch interests: %w", err)
	}
	return models.InterestSet{Records: records}, nil
}

// fetchCandidates over-fetches the eligible candidate pool relative to
// the page size, bounded by MaxCandidates.
func (e *Engine) fetchCandidates(ctx context.Context, req Request) ([]models.Post, error) {
	fetch := req.Limit * e.config.Limits.OverfetchFactor
	if fetch > e.config.Limits.MaxCandidates {
		fetch = e.config.Limits.MaxCandidates
	}

	posts, err := e.content.EligiblePosts(ctx, req.NeighborhoodID, nil, fetch)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	return posts, nil
}

// scoreCandidates scores every candidate concurrently. Each post's score
// is independent of every other's, so the fan-out is bounded only by the
// worker limit.
func (e *Engine) scoreCandidates(ctx context.Context, viewerID string, candidates []models.Post, interests models.InterestSet) ([]ScoredPost, error) {
	now := time.Now()
	scored := make([]ScoredPost, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.scoreWorkers())

	for i := range candidates {
		g.Go(func() error {
			score, err := e.scorer.Score(gctx, &candidates[i], viewerID, interests, now)
			if err != nil {
				return err
			}
			scored[i] = ScoredPost{Post: candidates[i], Score: score}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.candidatesScored.Add(int64(len(candidates)))
	return scored, nil
}

func (e *Engine) scoreWorkers() int {
	if e.config.Limits.ScoreWorkers > 0 {
		return e.config.Limits.ScoreWorkers
	}
	return runtime.NumCPU()
}

// paginate slices one page out of the diversified list.
func (e *Engine) paginate(scored []ScoredPost, page, limit int) ([]ScoredPost, models.Pagination) {
	total := len(scored)
	startIdx := (page - 1) * limit
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + limit
	if endIdx > total {
		endIdx = total
	}

	out := make([]ScoredPost, endIdx-startIdx)
	copy(out, scored[startIdx:endIdx])

	return out, models.Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasMore: endIdx < total,
	}
}

// attachViewerState sets the viewer's own reaction and saved flag on the
// page being returned.
func (e *Engine) attachViewerState(ctx context.Context, viewerID string, page []ScoredPost) error {
	if len(page) == 0 {
		return nil
	}

	ids := make([]string, len(page))
	for i := range page {
		ids[i] = page[i].Post.ID
	}

	reactions, err := e.content.ViewerReactions(ctx, viewerID, ids)
	if err != nil {
		return err
	}

	saved, err := e.events.DistinctPosts(ctx, viewerID, models.ActionSave)
	if err != nil {
		return err
	}

	for i := range page {
		page[i].ViewerReaction = reactions[page[i].Post.ID]
		_, page[i].ViewerSaved = saved[page[i].Post.ID]
	}
	return nil
}

// emptyResponse returns an empty page for neighborhoods with no content.
func (e *Engine) emptyResponse(req Request, start time.Time) *Response {
	return &Response{
		Data: []ScoredPost{},
		Pagination: models.Pagination{
			Page:  req.Page,
			Limit: req.Limit,
		},
		Metadata: ResponseMetadata{
			RequestID: req.RequestID,
			ViewerID:  req.ViewerID,
			LatencyMS: time.Since(start).Milliseconds(),
			Timestamp: time.Now(),
		},
	}
}

// RecordEngagement appends one immutable event to the log and applies the
// online interest update. The append and the interest upsert are the only
// write paths in the subsystem.
func (e *Engine) RecordEngagement(ctx context.Context, event *models.EngagementEvent) error {
	if event == nil || event.ViewerID == "" || event.PostID == "" {
		return fmt.Errorf("%w: viewer and post are required", ErrInvalidEvent)
	}
	if !event.Action.IsValid() {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidEvent, event.Action)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := e.events.Append(ctx, event); err != nil {
		e.errorCount.Add(1)
		return fmt.Errorf("append event: %w", err)
	}

	if err := e.updater.OnEngagement(ctx, event.ViewerID, event.PostType, event.Action); err != nil {
		e.errorCount.Add(1)
		return err
	}

	// The viewer's ranking inputs changed; their cached pages are stale.
	e.cache.invalidateViewer(event.ViewerID)
	return nil
}

// Trending returns the viewer-agnostic trending list. An unsupported
// timeframe string resolves to the configured default rather than failing.
func (e *Engine) Trending(ctx context.Context, neighborhoodID, timeframe string, limit int) ([]ScoredPost, error) {
	tf, ok := ParseTimeframe(timeframe)
	if !ok {
		tf = e.config.Trending.DefaultTimeframe
	}
	return e.trending.Trending(ctx, neighborhoodID, tf, limit)
}

// Recommendations returns a typed recommendation list. Unsupported kinds
// resolve to an empty list.
func (e *Engine) Recommendations(ctx context.Context, viewerID, neighborhoodID, kind string, limit int) ([]Recommendation, error) {
	k, ok := ParseRecommendationKind(kind)
	if !ok {
		return []Recommendation{}, nil
	}
	return e.composer.Recommend(ctx, viewerID, neighborhoodID, k, limit)
}

// Digest returns the daily neighborhood summary.
func (e *Engine) Digest(ctx context.Context, viewerID, neighborhoodID string) (*Digest, error) {
	return e.digest.Digest(ctx, viewerID, neighborhoodID)
}

// GetInterests returns the viewer's interest profile, top records first.
func (e *Engine) GetInterests(ctx context.Context, viewerID string) ([]models.InterestRecord, error) {
	return e.interests.Get(ctx, viewerID)
}

// ReplaceInterests overwrites the viewer's interest profile. This is the
// manual override path; records are validated but not re-weighted.
func (e *Engine) ReplaceInterests(ctx context.Context, viewerID string, records []models.InterestRecord) error {
	for i := range records {
		if !records[i].Category.IsValid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidInterest, records[i].Category)
		}
		if strings.TrimSpace(records[i].Value) == "" {
			return fmt.Errorf("%w: empty value", ErrInvalidInterest)
		}
	}

	if err := e.interests.Replace(ctx, viewerID, records); err != nil {
		return fmt.Errorf("replace interests: %w", err)
	}

	e.cache.invalidateViewer(viewerID)
	return nil
}

// GetMetrics returns a snapshot of the engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:     e.requestCount.Load(),
		CacheHits:        e.cacheHits.Load(),
		CacheMisses:      e.cacheMisses.Load(),
		ErrorCount:       e.errorCount.Load(),
		CandidatesScored: e.candidatesScored.Load(),
	}
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// cacheKey identifies one viewer page.
func cacheKey(req Request) string {
	return fmt.Sprintf("feed:%s:%s:%d:%d", req.ViewerID, req.NeighborhoodID, req.Page, req.Limit)
}
