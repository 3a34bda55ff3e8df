// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/seawatch/internal/models"
	"github.com/tomtom215/seawatch/internal/validation"
)

// VesselsRequest holds the query of GET /api/v1/vessels.
type VesselsRequest struct {
	BBox  string `validate:"omitempty,bbox"`
	Limit int    `validate:"gte=1,lte=500"`
}

// BoundingBox converts the validated bbox query into a box, or nil when absent.
// The query order is minLng,minLat,maxLng,maxLat.
func (r *VesselsRequest) BoundingBox() *models.BoundingBox {
	if r.BBox == "" {
		return nil
	}
	v, err := validation.ParseBBox(r.BBox)
	if err != nil {
		return nil
	}
	return &models.BoundingBox{MinLng: v[0], MinLat: v[1], MaxLng: v[2], MaxLat: v[3]}
}

// RegistryRequest holds the path of GET /api/v1/vessels/{mmsi}/registry.
type RegistryRequest struct {
	MMSI string `validate:"required,mmsi"`
}

// NotificationsRequest holds the query of GET /api/v1/notifications.
type NotificationsRequest struct {
	Status string `validate:"omitempty,oneof=pending sent failed"`
	Limit  int    `validate:"gte=1,lte=100"`
}

// CreateGeofenceRequest is the body of POST /api/v1/geofences.
type CreateGeofenceRequest struct {
	Name   string          `json:"name" validate:"required,max=200"`
	Owner  *string         `json:"owner,omitempty" validate:"omitempty,min=1,max=200"`
	Region json.RawMessage `json:"region_geojson" validate:"required"`
}

// CreateRuleRequest is the body of POST /api/v1/rules.
type CreateRuleRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Owner      string `json:"owner" validate:"required,max=200"`
	GeofenceID string `json:"geofence_id" validate:"required"`
	Active     *bool  `json:"is_active,omitempty"`
}

// UpdateRuleRequest is the body of PATCH /api/v1/rules/{id}.
type UpdateRuleRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

// VesselsResponse is the body of GET /api/v1/vessels.
// Total counts every known vessel, not only the returned page.
type VesselsResponse struct {
	Vessels []models.VesselRecord `json:"vessels"`
	Count   int                   `json:"count"`
	Total   int64                 `json:"total"`
}

// AlertsResponse is the body of GET /api/v1/alerts.
type AlertsResponse struct {
	Rules  []models.ActiveRule `json:"rules"`
	Events []models.AlertEvent `json:"events"`
}

// RulesResponse is the body of GET /api/v1/rules.
type RulesResponse struct {
	Rules []models.ActiveRule `json:"rules"`
	Count int                 `json:"count"`
}

// NotificationsResponse is the body of GET /api/v1/notifications.
type NotificationsResponse struct {
	Notifications []models.NotificationRecord `json:"notifications"`
	Count         int                         `json:"count"`
}
