// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package models

import "time"

// EnrichmentRecord holds vessel registry details looked up by MMSI.
type EnrichmentRecord struct {
	MMSI         int64     `json:"mmsi"`
	IMO          string    `json:"imo,omitempty"`
	Name         string    `json:"name,omitempty"`
	CallSign     string    `json:"call_sign,omitempty"`
	Flag         string    `json:"flag,omitempty"`
	TypeName     string    `json:"type_name,omitempty"`
	GrossTonnage int       `json:"gross_tonnage,omitempty"`
	Deadweight   int       `json:"deadweight,omitempty"`
	Length       float64   `json:"length,omitempty"`
	Width        float64   `json:"width,omitempty"`
	YearBuilt    int       `json:"year_built,omitempty"`
	Source       string    `json:"source"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Fresh reports whether the record is younger than ttl at time now.
func (r EnrichmentRecord) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.FetchedAt) < ttl
}
