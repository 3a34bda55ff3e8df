// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package enrichment resolves registry details (IMO, flag, tonnage, dimensions)
for a vessel by MMSI.

Lookups hit the local vessel_registry cache first. On a miss or a stale entry
the MarineTraffic vessel master data API is queried and the answer is cached.
Outbound calls are paced by a token bucket and guarded by a circuit breaker,
so a failing registry never slows down geofence checks.

Usage:

	svc := enrichment.NewService(&cfg.Enrichment, db)
	rec, err := svc.Lookup(ctx, 265517000)
	if errors.Is(err, enrichment.ErrNotFound) {
		// registry has no entry for this MMSI
	}
*/
package enrichment
