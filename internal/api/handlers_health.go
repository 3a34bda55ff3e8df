// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/seawatch/internal/models"
)

// readinessTimeout bounds the database ping of a readiness probe.
const readinessTimeout = 2 * time.Second

// ReadinessStatus is the payload of /health/ready.
type ReadinessStatus struct {
	Ready       bool    `json:"ready"`
	Database    bool    `json:"database"`
	AISStream   string  `json:"ais_stream"`
	Subscribers int     `json:"subscribers"`
	Uptime      float64 `json:"uptime"`
}

// HealthLive returns 200 while the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady returns 200 when the database answers, 503 otherwise.
// The AIS stream state is reported but does not affect readiness: the API
// keeps serving stored data while the upstream reconnects.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := ReadinessStatus{
		Database:  h.store != nil && h.store.Ping(ctx) == nil,
		AISStream: "disabled",
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if h.ingestor != nil && h.ingestor.Configured() {
		status.AISStream = h.ingestor.State().String()
	}
	if h.hub != nil {
		status.Subscribers = h.hub.Count()
	}
	status.Ready = status.Database

	code := http.StatusOK
	result := "success"
	if !status.Ready {
		code = http.StatusServiceUnavailable
		result = "error"
	}
	respondJSON(w, code, &models.APIResponse{
		Status:   result,
		Data:     status,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
