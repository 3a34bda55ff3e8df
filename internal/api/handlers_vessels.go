// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/seawatch/internal/database"
	"github.com/tomtom215/seawatch/internal/enrichment"
)

// Vessels returns the most recently seen vessels, optionally inside a bbox.
func (h *Handler) Vessels(w http.ResponseWriter, r *http.Request) {
	req := VesselsRequest{
		BBox:  r.URL.Query().Get("bbox"),
		Limit: getIntParam(r, "limit", database.MaxVesselListing),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	vessels, err := h.store.ListVessels(r.Context(), req.BoundingBox(), req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load vessels", err)
		return
	}

	total, err := h.store.CountVessels(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to count vessels", err)
		return
	}

	respondJSON(w, http.StatusOK, VesselsResponse{Vessels: vessels, Count: len(vessels), Total: total})
}

// VesselRegistry returns the registry record for one vessel. A cached record
// is served directly; otherwise a lookup is made when enrichment is enabled.
func (h *Handler) VesselRegistry(w http.ResponseWriter, r *http.Request) {
	req := RegistryRequest{MMSI: chi.URLParam(r, "mmsi")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	mmsi, _ := strconv.ParseInt(req.MMSI, 10, 64)

	if h.enricher == nil {
		rec, err := h.store.GetRegistryRecord(r.Context(), mmsi)
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load registry record", err)
			return
		}
		if rec == nil {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "No registry record for this vessel", nil)
			return
		}
		respondJSON(w, http.StatusOK, rec)
		return
	}

	rec, err := h.enricher.Lookup(r.Context(), mmsi)
	switch {
	case errors.Is(err, enrichment.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Vessel not found in registry", nil)
	case err != nil:
		respondError(w, http.StatusBadGateway, ErrCodeExternalService, "Registry lookup failed", err)
	default:
		respondJSON(w, http.StatusOK, rec)
	}
}
