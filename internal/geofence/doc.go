// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package geofence detects vessels entering monitored regions.

Each Check loads the vessels seen within the recent window and the active
rules with their geofences. Every (vessel, geofence) pair is evaluated once:
the current point-in-polygon result is compared with the previous result held
in a CrossingStore, keyed by MMSI and geofence ID.

	previous  current  action
	--------  -------  ------------------------------------------
	false     true     entry edge: enrichment trigger, one alert per rule
	true      false    exit edge: state only
	same      same     none

State is written after every evaluation. A pair with no stored state counts
as outside, so a vessel first seen inside a geofence alerts. The "suppress"
cold-start policy instead seeds state silently for such pairs.

Crossing state backends:

  - memory: default, lost on restart
  - badger: survives restarts of a single process
  - redis: shared between processes

Checks are serialized; a Check that starts while another is running waits for
it, so overlapping triggers cannot fire the same edge twice.
*/
package geofence
