// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/seawatch/internal/geofence"
)

// checkTimeout bounds a check triggered over HTTP.
const checkTimeout = 5 * time.Minute

// CheckGeofences runs one geofence check and returns its summary.
// The check is detached from the request and runs to completion if the
// client hangs up.
func (h *Handler) CheckGeofences(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), checkTimeout)
	defer cancel()

	result, err := geofence.RunCheck(ctx, h.checker, "http")
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeCheckFailed, "Geofence check failed", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
