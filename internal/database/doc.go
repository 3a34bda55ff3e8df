// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

// Package database is the DuckDB persistence layer for Seawatch.
//
// # Overview
//
// A single *DB satisfies every store interface the pipeline declares:
// positions.Store, geofence.Store, alerting.Store and enrichment.Cache.
// The API layer reads listings from the same handle.
//
// # Tables
//
//   - vessels: latest known position per MMSI (upserted by the flusher)
//   - geofences: named GeoJSON regions, owner NULL for system geofences
//   - alert_rules: owner rules pointing at a geofence
//   - alert_events: append-only entry alerts
//   - notifications: SMS attempts with pending/sent/failed lifecycle
//   - vessel_registry: cached registry enrichment, one row per MMSI
//   - schema_migrations: applied migration versions
//
// # Files
//
//   - database.go: lifecycle (open, initialize, ping, close)
//   - database_connection.go: pool configuration and error classification
//   - database_schema.go: table and index creation
//   - migrations.go: versioned migrations
//   - seed.go: default Baltic Sea geofence and rule
//   - vessels.go, alerts.go, notifications.go, registry.go: queries
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.UpsertPositions(ctx, batch); err != nil {
//	    logging.Error().Err(err).Msg("flush failed")
//	}
//
// # Concurrency
//
// All methods are safe for concurrent use. Writes rely on DuckDB's
// optimistic concurrency; positions are written in one transaction per batch.
package database
