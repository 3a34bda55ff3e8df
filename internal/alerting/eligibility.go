// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"strings"

	"github.com/tomtom215/seawatch/internal/models"
)

// Eligibility decides whether a vessel's alerts should produce an SMS.
type Eligibility func(v models.VesselRecord) bool

// DefaultCommercialKeywords is used when no eligibility is configured.
var DefaultCommercialKeywords = []string{"cargo", "tanker"}

// CommercialTraffic matches ship type labels containing any keyword,
// case-insensitively.
func CommercialTraffic(keywords []string) Eligibility {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	return func(v models.VesselRecord) bool {
		shipType := strings.ToLower(v.ShipType)
		if shipType == "" {
			return false
		}
		for _, k := range lowered {
			if strings.Contains(shipType, k) {
				return true
			}
		}
		return false
	}
}
