// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/seawatch/internal/database"
	"github.com/tomtom215/seawatch/internal/geofence"
	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/models"
)

// Alerts returns the active rules and the most recent alert events.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.ActiveRules(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load alert rules", err)
		return
	}
	events, err := h.store.ListAlertEvents(r.Context(), database.MaxAlertListing)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load alert events", err)
		return
	}

	respondJSON(w, http.StatusOK, AlertsResponse{Rules: rules, Events: events})
}

// Rules lists every rule with its geofence, including inactive ones.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.ListRules(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load alert rules", err)
		return
	}
	respondJSON(w, http.StatusOK, RulesResponse{Rules: rules, Count: len(rules)})
}

// Notifications lists notification records, newest first.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	req := NotificationsRequest{
		Status: r.URL.Query().Get("status"),
		Limit:  getIntParam(r, "limit", database.MaxNotificationListing),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	records, err := h.store.ListNotifications(r.Context(), models.NotificationStatus(req.Status), req.Limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load notifications", err)
		return
	}

	respondJSON(w, http.StatusOK, NotificationsResponse{Notifications: records, Count: len(records)})
}

// CreateGeofence stores a new geofence after checking its region compiles.
func (h *Handler) CreateGeofence(w http.ResponseWriter, r *http.Request) {
	var req CreateGeofenceRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}
	if _, err := geofence.CompileRegion(req.Region); err != nil {
		respondErrorDetails(w, http.StatusBadRequest, ErrCodeValidation, "region_geojson is not a usable Polygon or MultiPolygon",
			map[string]interface{}{"field": "region_geojson", "reason": err.Error()}, nil)
		return
	}

	g := &models.Geofence{Name: req.Name, Owner: req.Owner, Region: req.Region}
	if err := h.store.CreateGeofence(r.Context(), g); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to create geofence", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("geofence_id", g.ID).Str("geofence", sanitizeLogValue(g.Name)).Msg("Geofence created")
	respondJSON(w, http.StatusCreated, g)
}

// CreateRule stores a new alert rule for an existing geofence.
// Rules are active unless is_active is false.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	g, err := h.store.GetGeofence(r.Context(), req.GeofenceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to load geofence", err)
		return
	}
	if g == nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Geofence not found", nil)
		return
	}

	rule := &models.AlertRule{
		Owner:      req.Owner,
		Name:       req.Name,
		GeofenceID: g.ID,
		Active:     req.Active == nil || *req.Active,
	}
	if err := h.store.CreateRule(r.Context(), rule); err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to create rule", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("rule_id", rule.ID).Str("geofence_id", g.ID).Msg("Alert rule created")
	respondJSON(w, http.StatusCreated, rule)
}

// UpdateRule activates or deactivates a rule.
func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateRuleRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	err := h.store.SetRuleActive(r.Context(), id, *req.Active)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Rule not found", nil)
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabaseError, "Failed to update rule", err)
	default:
		respondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "is_active": *req.Active})
	}
}
