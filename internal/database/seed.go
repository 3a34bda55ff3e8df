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

	"github.com/google/uuid"

	"github.com/tomtom215/seawatch/internal/logging"
)

const (
	// BalticGeofenceName names the system geofence seeded on first start.
	BalticGeofenceName = "Baltic Sea (Östersjön)"
	// BalticRuleName names the default rule on the Baltic geofence.
	BalticRuleName = "Entering Baltic Sea (Östersjön)"
	// SystemOwner owns seeded rules.
	SystemOwner = "system"
)

// balticRegion is a simplified outline of the Baltic Sea, Gulf of Bothnia
// and Gulf of Finland. Coordinates are [lng, lat].
const balticRegion = `{"type":"Feature","properties":{"name":"Baltic Sea"},"geometry":{"type":"Polygon","coordinates":[[
[10.5,54.0],[12.0,54.0],[14.0,53.8],[16.0,54.2],[18.5,54.4],[20.0,54.3],
[21.2,55.2],[21.0,56.5],[21.5,57.5],[23.5,57.0],[24.4,57.9],[23.5,58.5],
[24.0,59.3],[28.0,59.5],[30.0,59.9],[29.0,60.3],[26.0,60.4],[22.5,60.0],
[21.2,60.8],[21.0,62.5],[23.0,63.8],[25.5,65.0],[25.5,65.8],[22.0,65.8],
[21.0,64.5],[19.0,63.5],[17.5,62.5],[17.3,61.0],[18.5,60.3],[19.0,59.8],
[17.5,58.8],[16.5,57.5],[16.0,56.3],[14.5,56.0],[12.8,55.7],[12.6,56.1],
[12.3,56.4],[10.8,55.9],[10.5,54.0]]]}}`

// SeedDefaults inserts the system Baltic Sea geofence and its entry rule
// when they do not exist yet. Safe to call on every start.
func (db *DB) SeedDefaults(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	now := time.Now().UTC()

	var geofenceID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM geofences WHERE name = ? AND owner IS NULL`, BalticGeofenceName).Scan(&geofenceID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		geofenceID = uuid.New().String()
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO geofences (id, owner, name, region_geojson, created_at) VALUES (?, NULL, ?, ?, ?)`,
			geofenceID, BalticGeofenceName, balticRegion, now); err != nil {
			return fmt.Errorf("insert baltic geofence: %w", err)
		}
		logging.Info().Str("geofence_id", geofenceID).Msg("Seeded Baltic Sea geofence")
	case err != nil:
		return fmt.Errorf("lookup baltic geofence: %w", err)
	}

	var rules int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alert_rules WHERE geofence_id = ?`, geofenceID).Scan(&rules); err != nil {
		return fmt.Errorf("count baltic rules: %w", err)
	}
	if rules > 0 {
		return nil
	}

	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO alert_rules (id, owner, name, geofence_id, is_active, created_at) VALUES (?, ?, ?, ?, true, ?)`,
		uuid.New().String(), SystemOwner, BalticRuleName, geofenceID, now); err != nil {
		return fmt.Errorf("insert baltic rule: %w", err)
	}
	logging.Info().Str("geofence_id", geofenceID).Msg("Seeded Baltic Sea entry rule")
	return nil
}
