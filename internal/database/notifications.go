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

// MaxNotificationListing caps ListNotifications.
const MaxNotificationListing = 100

// CreateNotification stores a notification record, normally in pending state.
func (db *DB) CreateNotification(ctx context.Context, n *models.NotificationRecord) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "notifications", time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	status := n.Status
	if status == "" {
		status = models.NotificationPending
	}
	var sentAt interface{}
	if n.SentAt != nil {
		sentAt = n.SentAt.UTC()
	}

	if _, err = db.conn.ExecContext(ctx,
		`INSERT INTO notifications (id, alert_event_id, recipient, mmsi, message, status, sent_at, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, nullString(n.AlertEventID), n.Recipient, n.MMSI, n.Message, string(status),
		sentAt, nullString(n.ErrorMessage), n.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// MarkNotificationSent moves a notification to sent.
func (db *DB) MarkNotificationSent(ctx context.Context, id string, sentAt time.Time) error {
	return db.updateNotification(ctx, id,
		`UPDATE notifications SET status = ?, sent_at = ?, error_message = NULL WHERE id = ?`,
		string(models.NotificationSent), sentAt.UTC(), id)
}

// MarkNotificationFailed moves a notification to failed. Failed records are
// kept for manual follow up and never retried.
func (db *DB) MarkNotificationFailed(ctx context.Context, id, errMsg string) error {
	return db.updateNotification(ctx, id,
		`UPDATE notifications SET status = ?, error_message = ? WHERE id = ?`,
		string(models.NotificationFailed), errMsg, id)
}

func (db *DB) updateNotification(ctx context.Context, id, query string, args ...interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("update", "notifications", time.Since(start), err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update notification %s: %w", id, err)
	}
	if n, rerr := res.RowsAffected(); rerr == nil && n == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

// LastSentNotification returns when mmsi was last successfully notified.
func (db *DB) LastSentNotification(ctx context.Context, mmsi int64) (time.Time, bool, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var sentAt sql.NullTime
	err := db.conn.QueryRowContext(ctx,
		`SELECT MAX(sent_at) FROM notifications WHERE mmsi = ? AND status = ?`,
		mmsi, string(models.NotificationSent)).Scan(&sentAt)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !sentAt.Valid) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query last notification: %w", err)
	}
	return sentAt.Time.UTC(), true, nil
}

func scanNotification(rows *sql.Rows) (models.NotificationRecord, error) {
	var (
		n                   models.NotificationRecord
		status              string
		alertID, errMessage sql.NullString
		sentAt              sql.NullTime
	)
	if err := rows.Scan(&n.ID, &alertID, &n.Recipient, &n.MMSI, &n.Message, &status, &sentAt, &errMessage, &n.CreatedAt); err != nil {
		return n, fmt.Errorf("scan notification: %w", err)
	}
	n.Status = models.NotificationStatus(status)
	n.AlertEventID = alertID.String
	n.ErrorMessage = errMessage.String
	n.CreatedAt = n.CreatedAt.UTC()
	if sentAt.Valid {
		t := sentAt.Time.UTC()
		n.SentAt = &t
	}
	return n, nil
}

// ListNotifications returns recent notifications, newest first, optionally
// filtered by status.
func (db *DB) ListNotifications(ctx context.Context, status models.NotificationStatus, limit int) ([]models.NotificationRecord, error) {
	if limit <= 0 || limit > MaxNotificationListing {
		limit = MaxNotificationListing
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	qb := newQueryBuilder(`SELECT id, alert_event_id, recipient, mmsi, message, status, sent_at, error_message, created_at
		FROM notifications WHERE 1=1`)
	if status != "" {
		qb.addFilter("status = ?", string(status))
	}
	query, args := qb.addLimit(limit).build("ORDER BY created_at DESC, id LIMIT ?")

	records, err := queryAndScan(ctx, db.conn, query, args, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return records, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
