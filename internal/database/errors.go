// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package database

import "errors"

// ErrNotFound is returned by updates that match no row.
var ErrNotFound = errors.New("record not found")
