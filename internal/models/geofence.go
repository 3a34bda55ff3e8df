// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Geofence is a named monitored region.
// Region holds a GeoJSON Feature or bare geometry of type Polygon or MultiPolygon.
// A nil Owner marks a system-wide geofence.
type Geofence struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Owner     *string         `json:"owner,omitempty"`
	Region    json.RawMessage `json:"region_geojson"`
	CreatedAt time.Time       `json:"created_at"`
}

// AlertRule binds an owner to a geofence. Only active rules are evaluated.
type AlertRule struct {
	ID         string    `json:"id"`
	Owner      string    `json:"owner"`
	Name       string    `json:"name"`
	GeofenceID string    `json:"geofence_id"`
	Active     bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActiveRule is an active rule joined with its geofence.
type ActiveRule struct {
	Rule     AlertRule `json:"rule"`
	Geofence Geofence  `json:"geofence"`
}

// CrossingState remembers whether a vessel was inside a geofence at the last check.
type CrossingState struct {
	IsInside      bool      `json:"is_inside"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}
