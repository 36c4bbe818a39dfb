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
	"github.com/neighborly-labs/feedengine/internal/models"
)

// GetInterests handles GET /api/v1/interests
// Returns the viewer's learned interest profile, strongest first.
func (h *Handler) GetInterests(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("viewer")
	if viewerID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed,
			"viewer query parameter is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	records, err := h.engine.GetInterests(ctx, viewerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to read interests", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   records,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// PutInterests handles PUT /api/v1/interests
// Replaces the viewer's interest profile wholesale.
func (h *Handler) PutInterests(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("viewer")
	if viewerID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidationFailed,
			"viewer query parameter is required", nil)
		return
	}

	var records []models.InterestRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	if err := h.engine.ReplaceInterests(ctx, viewerID, records); err != nil {
		if errors.Is(err, feed.ErrInvalidInterest) {
			respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Failed to replace interests", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]int{"count": len(records)},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
