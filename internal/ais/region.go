// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package ais

import (
	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/models"
)

// RegionFilter drops positions outside the configured box.
// Upstream filtering is best effort, so this check always runs locally.
type RegionFilter struct {
	box models.BoundingBox
}

// NewRegionFilter creates a filter for an inclusive bounding box.
func NewRegionFilter(box models.BoundingBox) *RegionFilter {
	return &RegionFilter{box: box}
}

// RegionFromConfig builds the bounding box described by the AIS config.
func RegionFromConfig(cfg *config.AISConfig) models.BoundingBox {
	return models.BoundingBox{
		MinLat: cfg.MinLat,
		MaxLat: cfg.MaxLat,
		MinLng: cfg.MinLng,
		MaxLng: cfg.MaxLng,
	}
}

// Box returns the filter's bounding box.
func (f *RegionFilter) Box() models.BoundingBox {
	return f.box
}

// Accept reports whether the position lies inside the box, edges included.
func (f *RegionFilter) Accept(pos *models.Position) bool {
	return f.box.Contains(pos.Lat, pos.Lng)
}
