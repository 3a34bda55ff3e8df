// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package models

import "time"

// Position is one accepted vessel position report.
// Identity is the MMSI; newer positions replace older ones in the cache.
type Position struct {
	MMSI       int64     `json:"mmsi" validate:"required,gte=100000000,lte=999999999"`
	Name       string    `json:"name"`
	ShipType   string    `json:"ship_type"`
	Lat        float64   `json:"lat" validate:"latitude"`
	Lng        float64   `json:"lng" validate:"longitude"`
	SOG        *float64  `json:"sog"`
	COG        *float64  `json:"cog"`
	ObservedAt time.Time `json:"ts"`
}

// VesselRecord is the durable latest-known state of a vessel.
type VesselRecord struct {
	MMSI     int64     `json:"mmsi"`
	Name     string    `json:"name"`
	ShipType string    `json:"ship_type"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	SOG      *float64  `json:"sog"`
	COG      *float64  `json:"cog"`
	LastSeen time.Time `json:"ts"`
}

// DisplayName returns the vessel name, or "Unknown" when the stream never reported one.
func (v VesselRecord) DisplayName() string {
	if v.Name == "" {
		return "Unknown"
	}
	return v.Name
}

// BoundingBox is an inclusive latitude/longitude rectangle.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
