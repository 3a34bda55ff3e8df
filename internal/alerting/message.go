// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"fmt"

	"github.com/tomtom215/seawatch/internal/models"
)

// FormatMessage renders the SMS body for an entry edge.
func FormatMessage(c models.Crossing) string {
	typePart := ""
	if t := c.Vessel.ShipType; t != "" && t != "Unknown" {
		typePart = ", " + t
	}
	return fmt.Sprintf("Commercial vessel \"%s\" (MMSI: %d%s) just entered %s.",
		c.Vessel.DisplayName(), c.Vessel.MMSI, typePart, c.Geofence.Name)
}
