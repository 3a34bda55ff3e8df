// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// MaxVesselListing caps ListVessels.
const MaxVesselListing = 500

// upsertVesselSQL keeps a known name or ship type when a report omits it and
// never lets an older report overwrite a newer one.
const upsertVesselSQL = `
INSERT INTO vessels (mmsi, name, ship_type, lat, lng, sog, cog, last_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (mmsi) DO UPDATE SET
	name = CASE WHEN excluded.name = '' THEN name ELSE excluded.name END,
	ship_type = CASE WHEN excluded.ship_type = '' THEN ship_type ELSE excluded.ship_type END,
	lat = excluded.lat,
	lng = excluded.lng,
	sog = excluded.sog,
	cog = excluded.cog,
	last_seen = excluded.last_seen
WHERE excluded.last_seen >= last_seen`

// UpsertPositions writes a batch of positions in one transaction.
// The batch holds at most one position per MMSI.
func (db *DB) UpsertPositions(ctx context.Context, batch []models.Position) (err error) {
	if len(batch) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "vessels", time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertVesselSQL)
	if err != nil {
		return fmt.Errorf("prepare vessel upsert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for _, p := range batch {
		if _, err = stmt.ExecContext(ctx,
			p.MMSI, p.Name, p.ShipType, p.Lat, p.Lng, p.SOG, p.COG, p.ObservedAt.UTC()); err != nil {
			return fmt.Errorf("upsert vessel %d: %w", p.MMSI, err)
		}
	}

	if err = tx.Commit(); err != nil {
		if isTransactionConflict(err) {
			return fmt.Errorf("commit vessel batch (conflict): %w", err)
		}
		return fmt.Errorf("commit vessel batch: %w", err)
	}
	return nil
}

const vesselColumns = `mmsi, name, ship_type, lat, lng, sog, cog, last_seen`

func scanVessel(rows *sql.Rows) (models.VesselRecord, error) {
	var (
		v        models.VesselRecord
		sog, cog sql.NullFloat64
	)
	if err := rows.Scan(&v.MMSI, &v.Name, &v.ShipType, &v.Lat, &v.Lng, &sog, &cog, &v.LastSeen); err != nil {
		return v, fmt.Errorf("scan vessel: %w", err)
	}
	v.SOG = nullFloat(sog)
	v.COG = nullFloat(cog)
	v.LastSeen = v.LastSeen.UTC()
	return v, nil
}

// RecentVessels returns vessels seen at or after since.
func (db *DB) RecentVessels(ctx context.Context, since time.Time) (_ []models.VesselRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select_recent", "vessels", time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	vessels, err := queryAndScan(ctx, db.conn,
		`SELECT `+vesselColumns+` FROM vessels WHERE last_seen >= ? ORDER BY mmsi`,
		[]interface{}{since.UTC()}, scanVessel)
	if err != nil {
		return nil, fmt.Errorf("query recent vessels: %w", err)
	}
	return vessels, nil
}

// ListVessels returns the most recently seen vessels, newest first, optionally
// restricted to box. limit is clamped to MaxVesselListing.
func (db *DB) ListVessels(ctx context.Context, box *models.BoundingBox, limit int) (_ []models.VesselRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", "vessels", time.Since(start), err) }()

	if limit <= 0 || limit > MaxVesselListing {
		limit = MaxVesselListing
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	qb := newQueryBuilder(`SELECT ` + vesselColumns + ` FROM vessels WHERE 1=1`)
	if box != nil {
		qb.addFilter("lat BETWEEN ? AND ?", box.MinLat, box.MaxLat)
		qb.addFilter("lng BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}
	query, args := qb.addLimit(limit).build("ORDER BY last_seen DESC, mmsi LIMIT ?")

	vessels, err := queryAndScan(ctx, db.conn, query, args, scanVessel)
	if err != nil {
		return nil, fmt.Errorf("list vessels: %w", err)
	}
	return vessels, nil
}

// CountVessels returns the number of known vessels.
func (db *DB) CountVessels(ctx context.Context) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM vessels`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vessels: %w", err)
	}
	return n, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
