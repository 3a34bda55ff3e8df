// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/seawatch/internal/models"
)

type fixedHistory struct {
	sentAt time.Time
	found  bool
	err    error
}

func (h fixedHistory) LastSentNotification(context.Context, int64) (time.Time, bool, error) {
	return h.sentAt, h.found, h.err
}

func TestDedupGuard(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		history fixedHistory
		want    bool
	}{
		{name: "never notified", history: fixedHistory{}, want: true},
		{name: "notified 10 minutes ago", history: fixedHistory{sentAt: now.Add(-10 * time.Minute), found: true}, want: false},
		{name: "notified exactly one hour ago", history: fixedHistory{sentAt: now.Add(-time.Hour), found: true}, want: true},
		{name: "notified two hours ago", history: fixedHistory{sentAt: now.Add(-2 * time.Hour), found: true}, want: true},
		{name: "history unavailable fails open", history: fixedHistory{err: errors.New("db locked")}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewDedupGuard(tt.history, time.Hour)
			g.now = func() time.Time { return now }
			if got := g.ShouldSend(context.Background(), 265517000); got != tt.want {
				t.Errorf("ShouldSend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommercialTraffic(t *testing.T) {
	eligible := CommercialTraffic([]string{"Cargo", " tanker ", "", "passenger"})

	tests := []struct {
		shipType string
		want     bool
	}{
		{"Cargo", true},
		{"Cargo - Hazard A", true},
		{"TANKER", true},
		{"Passenger", true},
		{"Fishing", false},
		{"Unknown", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.shipType, func(t *testing.T) {
			if got := eligible(models.VesselRecord{ShipType: tt.shipType}); got != tt.want {
				t.Errorf("eligible(%q) = %v, want %v", tt.shipType, got, tt.want)
			}
		})
	}
}

func TestFormatMessage(t *testing.T) {
	c := cargoCrossing()
	want := `Commercial vessel "NORDIC STAR" (MMSI: 265517000, Cargo) just entered Baltic Sea (Östersjön).`
	if got := FormatMessage(c); got != want {
		t.Errorf("FormatMessage() = %q, want %q", got, want)
	}

	c.Vessel.Name = ""
	c.Vessel.ShipType = "Unknown"
	want = `Commercial vessel "Unknown" (MMSI: 265517000) just entered Baltic Sea (Östersjön).`
	if got := FormatMessage(c); got != want {
		t.Errorf("FormatMessage() = %q, want %q", got, want)
	}
}
