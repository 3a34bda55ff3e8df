// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package ais

// ShipTypeUnknown labels type codes with no mapping.
const ShipTypeUnknown = "Unknown"

var shipTypeLabels = map[int]string{
	30: "Fishing",
	31: "Towing",
	32: "Towing (large)",
	33: "Dredging",
	34: "Diving",
	35: "Military",
	36: "Sailing",
	37: "Pleasure craft",
	50: "Pilot vessel",
	51: "Search and rescue",
	52: "Tug",
	53: "Port tender",
	55: "Law enforcement",
}

// ShipTypeLabel maps an AIS ship type code to a display label.
// Code 0 means "not available" and yields an empty label.
func ShipTypeLabel(code int) string {
	if code == 0 {
		return ""
	}
	if label, ok := shipTypeLabels[code]; ok {
		return label
	}
	switch code / 10 {
	case 6:
		return "Passenger"
	case 7:
		return "Cargo"
	case 8:
		return "Tanker"
	case 9:
		return "Other"
	}
	return ShipTypeUnknown
}
