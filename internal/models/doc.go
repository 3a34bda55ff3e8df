// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package models defines the data structures shared across Seawatch.

Key Components:

  - Position: one accepted AIS position report, keyed by MMSI
  - VesselRecord: the durable latest-known row for a vessel
  - Geofence, AlertRule, ActiveRule: monitored regions and the rules that watch them
  - CrossingState: per (vessel, geofence) inside/outside memory between checks
  - AlertEvent: append-only record of a geofence entry
  - NotificationRecord: one SMS attempt and its outcome
  - EnrichmentRecord: cached vessel registry details
  - APIResponse, APIError: HTTP error envelope

Models carry JSON tags matching the HTTP API and the live feed payloads.
*/
package models
