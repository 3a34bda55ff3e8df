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

	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// GetRegistryRecord returns the cached registry record for mmsi, or nil, nil
// when none is cached.
func (db *DB) GetRegistryRecord(ctx context.Context, mmsi int64) (_ *models.EnrichmentRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "vessel_registry", time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var (
		rec                                 models.EnrichmentRecord
		imo, name, callSign, flag, typeName sql.NullString
		gt, dwt, year                       sql.NullInt64
		length, width                       sql.NullFloat64
	)
	err = db.conn.QueryRowContext(ctx,
		`SELECT mmsi, imo, name, call_sign, flag, type_name, gross_tonnage, deadweight, length, width, year_built, source, fetched_at
		 FROM vessel_registry WHERE mmsi = ?`, mmsi).
		Scan(&rec.MMSI, &imo, &name, &callSign, &flag, &typeName, &gt, &dwt, &length, &width, &year, &rec.Source, &rec.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query registry record: %w", err)
	}

	rec.IMO = imo.String
	rec.Name = name.String
	rec.CallSign = callSign.String
	rec.Flag = flag.String
	rec.TypeName = typeName.String
	rec.GrossTonnage = int(gt.Int64)
	rec.Deadweight = int(dwt.Int64)
	rec.Length = length.Float64
	rec.Width = width.Float64
	rec.YearBuilt = int(year.Int64)
	rec.FetchedAt = rec.FetchedAt.UTC()
	return &rec, nil
}

// PutRegistryRecord inserts or replaces the cached registry record.
func (db *DB) PutRegistryRecord(ctx context.Context, rec *models.EnrichmentRecord) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "vessel_registry", time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	fetchedAt := rec.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO vessel_registry (mmsi, imo, name, call_sign, flag, type_name, gross_tonnage, deadweight, length, width, year_built, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (mmsi) DO UPDATE SET
			imo = excluded.imo,
			name = excluded.name,
			call_sign = excluded.call_sign,
			flag = excluded.flag,
			type_name = excluded.type_name,
			gross_tonnage = excluded.gross_tonnage,
			deadweight = excluded.deadweight,
			length = excluded.length,
			width = excluded.width,
			year_built = excluded.year_built,
			source = excluded.source,
			fetched_at = excluded.fetched_at`,
		rec.MMSI, nullString(rec.IMO), nullString(rec.Name), nullString(rec.CallSign), nullString(rec.Flag),
		nullString(rec.TypeName), rec.GrossTonnage, rec.Deadweight, rec.Length, rec.Width, rec.YearBuilt,
		rec.Source, fetchedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert registry record: %w", err)
	}
	return nil
}
