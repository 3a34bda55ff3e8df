// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"context"
	"time"

	"github.com/tomtom215/seawatch/internal/logging"
)

// NotificationHistory reports when a vessel was last notified.
// Satisfied by *database.DB.
type NotificationHistory interface {
	// LastSentNotification returns the sent_at of the most recent sent
	// notification for mmsi. found is false when there is none.
	LastSentNotification(ctx context.Context, mmsi int64) (sentAt time.Time, found bool, err error)
}

// DedupGuard suppresses repeat SMS for the same vessel within a cooldown.
type DedupGuard struct {
	history  NotificationHistory
	cooldown time.Duration
	now      func() time.Time
}

// NewDedupGuard creates a guard.
func NewDedupGuard(history NotificationHistory, cooldown time.Duration) *DedupGuard {
	return &DedupGuard{history: history, cooldown: cooldown, now: time.Now}
}

// ShouldSend reports whether a notification for mmsi may go out now.
// Lookup failures allow the send.
func (g *DedupGuard) ShouldSend(ctx context.Context, mmsi int64) bool {
	sentAt, found, err := g.history.LastSentNotification(ctx, mmsi)
	if err != nil {
		logging.Warn().Err(err).Int64("mmsi", mmsi).Msg("Notification history unavailable, allowing send")
		return true
	}
	if !found {
		return true
	}
	return g.now().Sub(sentAt) >= g.cooldown
}
