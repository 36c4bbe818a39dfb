// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/neighborly-labs/feedengine/internal/feed"
	"github.com/neighborly-labs/feedengine/internal/metrics"
	"github.com/neighborly-labs/feedengine/internal/middleware"
	"github.com/neighborly-labs/feedengine/internal/models"
	"github.com/neighborly-labs/feedengine/internal/store"
)

// handlerTimeout bounds every request against the engine.
const handlerTimeout = 10 * time.Second

// Handler serves the feed API endpoints.
type Handler struct {
	engine    *feed.Engine
	store     *store.Store
	startTime time.Time
}

// NewHandler creates a handler over the given engine and store.
func NewHandler(engine *feed.Engine, st *store.Store) *Handler {
	return &Handler{
		engine:    engine,
		store:     st,
		startTime: time.Now(),
	}
}

// viewerAndNeighborhood extracts the two required query parameters.
// Returns false after writing a 400 when either is missing.
func viewerAndNeighborhood(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	viewerID := r.URL.Query().Get("viewer")
	neighborhoodID := r.URL.Query().Get("neighborhood")
	if viewerID == "" || neighborhoodID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed,
			"viewer and neighborhood query parameters are required", nil)
		return "", "", false
	}
	return viewerID, neighborhoodID, true
}

// Feed handles GET /api/v1/feed
// Returns one ranked, diversified feed page for a viewer.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	viewerID, neighborhoodID, ok := viewerAndNeighborhood(w, r)
	if !ok {
		return
	}

	req := feed.Request{
		ViewerID:       viewerID,
		NeighborhoodID: neighborhoodID,
		Page:           getIntParam(r, "page", 0),
		Limit:          getIntParam(r, "limit", 0),
		RequestID:      middleware.GetRequestID(r.Context()),
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	start := time.Now()
	resp, err := h.engine.Feed(ctx, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to rank feed", err)
		return
	}
	metrics.RecordFeedRequest(time.Since(start), resp.Metadata.Candidates)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: resp.Metadata.LatencyMS,
			Cached:      resp.Metadata.CacheHit,
		},
	})
}

// Trending handles GET /api/v1/trending
// Returns posts ranked by engagement velocity only; no personalization.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	neighborhoodID := r.URL.Query().Get("neighborhood")
	if neighborhoodID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed,
			"neighborhood query parameter is required", nil)
		return
	}

	timeframe := r.URL.Query().Get("timeframe")
	limit := getIntParam(r, "limit", 0)

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	start := time.Now()
	posts, err := h.engine.Trending(ctx, neighborhoodID, timeframe, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to compute trending posts", err)
		return
	}
	tf, ok := feed.ParseTimeframe(timeframe)
	if !ok {
		tf = feed.TimeframeDay
	}
	metrics.TrendingQueries.WithLabelValues(string(tf)).Inc()

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   posts,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Recommendations handles GET /api/v1/recommendations
// An unknown kind yields an empty list, not an error.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	viewerID, neighborhoodID, ok := viewerAndNeighborhood(w, r)
	if !ok {
		return
	}

	kind := r.URL.Query().Get("kind")
	limit := getIntParam(r, "limit", 0)

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	start := time.Now()
	recs, err := h.engine.Recommendations(ctx, viewerID, neighborhoodID, kind, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to generate recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   recs,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Digest handles GET /api/v1/digest
// Returns the periodic neighborhood summary for a viewer.
func (h *Handler) Digest(w http.ResponseWriter, r *http.Request) {
	viewerID, neighborhoodID, ok := viewerAndNeighborhood(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	start := time.Now()
	digest, err := h.engine.Digest(ctx, viewerID, neighborhoodID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to build digest", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   digest,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Engagement handles POST /api/v1/engagement
// The single write path: appends the event and feeds the interest updater.
func (h *Handler) Engagement(w http.ResponseWriter, r *http.Request) {
	var event models.EngagementEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := h.engine.RecordEngagement(ctx, &event); err != nil {
		if errors.Is(err, feed.ErrInvalidEvent) {
			respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to record engagement", err)
		return
	}
	metrics.RecordEngagement(string(event.Action))

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"id": event.ID},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
