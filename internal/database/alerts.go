// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// MaxAlertListing caps ListAlertEvents.
const MaxAlertListing = 50

// CreateGeofence stores a geofence. ID and CreatedAt are filled when empty.
func (db *DB) CreateGeofence(ctx context.Context, g *models.Geofence) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO geofences (id, owner, name, region_geojson, created_at) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Owner, g.Name, string(g.Region), g.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert geofence: %w", err)
	}
	return nil
}

// GetGeofence returns the geofence with the given id, or nil, nil when absent.
func (db *DB) GetGeofence(ctx context.Context, id string) (*models.Geofence, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var (
		g      models.Geofence
		owner  sql.NullString
		region string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, owner, name, region_geojson, created_at FROM geofences WHERE id = ?`, id).
		Scan(&g.ID, &owner, &g.Name, &region, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query geofence: %w", err)
	}
	if owner.Valid {
		o := owner.String
		g.Owner = &o
	}
	g.Region = json.RawMessage(region)
	g.CreatedAt = g.CreatedAt.UTC()
	return &g, nil
}

// CreateRule stores an alert rule. ID and CreatedAt are filled when empty.
func (db *DB) CreateRule(ctx context.Context, r *models.AlertRule) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO alert_rules (id, owner, name, geofence_id, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Owner, r.Name, r.GeofenceID, r.Active, r.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert alert rule: %w", err)
	}
	return nil
}

const activeRuleSQL = `
SELECT r.id, r.owner, r.name, r.geofence_id, r.is_active, r.created_at,
	g.id, g.owner, g.name, g.region_geojson, g.created_at
FROM alert_rules r
JOIN geofences g ON g.id = r.geofence_id
WHERE 1=1`

func scanActiveRule(rows *sql.Rows) (models.ActiveRule, error) {
	var (
		ar     models.ActiveRule
		owner  sql.NullString
		region string
	)
	if err := rows.Scan(
		&ar.Rule.ID, &ar.Rule.Owner, &ar.Rule.Name, &ar.Rule.GeofenceID, &ar.Rule.Active, &ar.Rule.CreatedAt,
		&ar.Geofence.ID, &owner, &ar.Geofence.Name, &region, &ar.Geofence.CreatedAt,
	); err != nil {
		return ar, fmt.Errorf("scan rule: %w", err)
	}
	if owner.Valid {
		o := owner.String
		ar.Geofence.Owner = &o
	}
	ar.Geofence.Region = json.RawMessage(region)
	ar.Rule.CreatedAt = ar.Rule.CreatedAt.UTC()
	ar.Geofence.CreatedAt = ar.Geofence.CreatedAt.UTC()
	return ar, nil
}

// ActiveRules returns every active rule joined with its geofence.
// Rules whose geofence no longer exists are omitted.
func (db *DB) ActiveRules(ctx context.Context) (_ []models.ActiveRule, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select_active", "alert_rules", time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args := newQueryBuilder(activeRuleSQL).
		addFilter("r.is_active = ?", true).
		build("ORDER BY r.created_at, r.id")
	rules, err := queryAndScan(ctx, db.conn, query, args, scanActiveRule)
	if err != nil {
		return nil, fmt.Errorf("query active rules: %w", err)
	}
	return rules, nil
}

// ListRules returns all rules with their geofence, active or not.
func (db *DB) ListRules(ctx context.Context) ([]models.ActiveRule, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args := newQueryBuilder(activeRuleSQL).build("ORDER BY r.created_at, r.id")
	rules, err := queryAndScan(ctx, db.conn, query, args, scanActiveRule)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

// SetRuleActive toggles a rule.
func (db *DB) SetRuleActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `UPDATE alert_rules SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("update alert rule: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("alert rule %s: %w", id, ErrNotFound)
	}
	return nil
}

// InsertAlertEvent appends an alert event.
func (db *DB) InsertAlertEvent(ctx context.Context, event *models.AlertEvent) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "alert_events", time.Since(start), err) }()

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("encode alert details: %w", err)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if _, err = db.conn.ExecContext(ctx,
		`INSERT INTO alert_events (id, rule_id, mmsi, vessel_name, event_type, occurred_at, details) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.RuleID, event.MMSI, event.VesselName, string(event.EventType), event.OccurredAt.UTC(), string(details)); err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}
	return nil
}

func scanAlertEvent(rows *sql.Rows) (models.AlertEvent, error) {
	var (
		e         models.AlertEvent
		eventType string
		details   string
	)
	if err := rows.Scan(&e.ID, &e.RuleID, &e.MMSI, &e.VesselName, &eventType, &e.OccurredAt, &details); err != nil {
		return e, fmt.Errorf("scan alert event: %w", err)
	}
	e.EventType = models.EventType(eventType)
	e.OccurredAt = e.OccurredAt.UTC()
	if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
		return e, fmt.Errorf("decode alert details %s: %w", e.ID, err)
	}
	return e, nil
}

// ListAlertEvents returns the most recent alert events, newest first.
// limit is clamped to MaxAlertListing.
func (db *DB) ListAlertEvents(ctx context.Context, limit int) ([]models.AlertEvent, error) {
	if limit <= 0 || limit > MaxAlertListing {
		limit = MaxAlertListing
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query, args := newQueryBuilder(
		`SELECT id, rule_id, mmsi, vessel_name, event_type, occurred_at, details FROM alert_events WHERE 1=1`).
		addLimit(limit).
		build("ORDER BY occurred_at DESC, id LIMIT ?")
	events, err := queryAndScan(ctx, db.conn, query, args, scanAlertEvent)
	if err != nil {
		return nil, fmt.Errorf("list alert events: %w", err)
	}
	return events, nil
}
