// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package geofence

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ErrUnsupportedGeometry is returned for regions that are not a Polygon or MultiPolygon.
var ErrUnsupportedGeometry = errors.New("unsupported geofence geometry")

// Region is a compiled geofence shape.
type Region struct {
	geom  orb.Geometry
	bound orb.Bound
}

// CompileRegion parses a GeoJSON Feature or bare geometry.
func CompileRegion(raw []byte) (*Region, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode region: %w", err)
	}

	var geom orb.Geometry
	switch head.Type {
	case "Feature":
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		geom = f.Geometry
	case "Polygon", "MultiPolygon":
		g, err := geojson.UnmarshalGeometry(raw)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		geom = g.Geometry()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGeometry, head.Type)
	}

	switch g := geom.(type) {
	case orb.Polygon:
		if len(g) == 0 || len(g[0]) < 4 {
			return nil, fmt.Errorf("%w: empty polygon", ErrUnsupportedGeometry)
		}
	case orb.MultiPolygon:
		if len(g) == 0 {
			return nil, fmt.Errorf("%w: empty multipolygon", ErrUnsupportedGeometry)
		}
	case nil:
		return nil, fmt.Errorf("%w: feature has no geometry", ErrUnsupportedGeometry)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, geom.GeoJSONType())
	}

	return &Region{geom: geom, bound: geom.Bound()}, nil
}

// Contains reports whether the point is inside the region. Holes are excluded.
func (r *Region) Contains(lat, lng float64) bool {
	pt := orb.Point{lng, lat}
	if !r.bound.Contains(pt) {
		return false
	}

	switch g := r.geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	}
	return false
}
