// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// Timestamps are stored as UTC TIMESTAMP so no ICU extension is needed.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS vessels (
		mmsi BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		ship_type TEXT NOT NULL DEFAULT '',
		lat DOUBLE NOT NULL,
		lng DOUBLE NOT NULL,
		sog DOUBLE,
		cog DOUBLE,
		last_seen TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS geofences (
		id TEXT PRIMARY KEY,
		owner TEXT,
		name TEXT NOT NULL,
		region_geojson TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS alert_rules (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		geofence_id TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS alert_events (
		id TEXT PRIMARY KEY,
		rule_id TEXT NOT NULL,
		mmsi BIGINT NOT NULL,
		vessel_name TEXT NOT NULL,
		event_type TEXT NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		details TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		alert_event_id TEXT,
		recipient TEXT NOT NULL,
		mmsi BIGINT NOT NULL,
		message TEXT NOT NULL,
		status TEXT NOT NULL,
		sent_at TIMESTAMP,
		error_message TEXT,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS vessel_registry (
		mmsi BIGINT PRIMARY KEY,
		imo TEXT,
		name TEXT,
		call_sign TEXT,
		flag TEXT,
		type_name TEXT,
		gross_tonnage INTEGER,
		deadweight INTEGER,
		length DOUBLE,
		width DOUBLE,
		year_built INTEGER,
		source TEXT NOT NULL,
		fetched_at TIMESTAMP NOT NULL
	)`,
}

// createIndexes creates secondary indexes. Columns rewritten by upserts
// (vessels.last_seen, notifications.status) are left unindexed; DuckDB
// rejects ON CONFLICT updates of indexed columns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_alert_rules_geofence ON alert_rules(geofence_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_events_occurred ON alert_events(occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_mmsi ON notifications(mmsi)`,
	}
	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}
