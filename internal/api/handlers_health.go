// Feedengine - Neighborhood Feed Ranking and Discovery Service
// Copyright 2026 Neighborly Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/neighborly-labs/feedengine

package api

import (
	"net/http"
	"time"

	"github.com/neighborly-labs/feedengine/internal/models"
)

// Health handles GET /api/v1/health
// Returns overall health including storage connectivity, engine metrics,
// and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	storeConnected := h.store != nil && h.store.Ping() == nil

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":          status,
			"store_connected": storeConnected,
			"engine":          h.engine.GetMetrics(),
			"uptime":          time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.store.Ping() != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeInternalError, "Store is not ready", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"ready": true,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
