// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

// Package positions buffers the latest position per vessel and writes the
// buffer to the durable store in batches.
//
// The Cache is last-write-wins keyed by MMSI. The Flusher drains it on a fixed
// interval, when the AIS ingestor disconnects, and once more on shutdown. A
// failed batch is put back into the cache unless a newer position for the same
// vessel arrived in the meantime, so the next tick retries it.
package positions
