// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/seawatch/internal/models"
)

// memoryStore is an in-memory Store.
type memoryStore struct {
	mu            sync.Mutex
	events        []*models.AlertEvent
	notifications map[string]*models.NotificationRecord
	order         []string

	insertErr  error
	historyErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{notifications: make(map[string]*models.NotificationRecord)}
}

func (s *memoryStore) InsertAlertEvent(_ context.Context, event *models.AlertEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.events = append(s.events, event)
	return nil
}

func (s *memoryStore) CreateNotification(_ context.Context, n *models.NotificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notifications[n.ID] = &cp
	s.order = append(s.order, n.ID)
	return nil
}

func (s *memoryStore) MarkNotificationSent(_ context.Context, id string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return errors.New("unknown notification")
	}
	n.Status = models.NotificationSent
	n.SentAt = &sentAt
	return nil
}

func (s *memoryStore) MarkNotificationFailed(_ context.Context, id, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return errors.New("unknown notification")
	}
	n.Status = models.NotificationFailed
	n.ErrorMessage = errMsg
	return nil
}

func (s *memoryStore) LastSentNotification(_ context.Context, mmsi int64) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyErr != nil {
		return time.Time{}, false, s.historyErr
	}
	var last time.Time
	found := false
	for _, n := range s.notifications {
		if n.MMSI != mmsi || n.Status != models.NotificationSent || n.SentAt == nil {
			continue
		}
		if !found || n.SentAt.After(last) {
			last = *n.SentAt
			found = true
		}
	}
	return last, found, nil
}

func (s *memoryStore) records() []models.NotificationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.NotificationRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.notifications[id])
	}
	return out
}

type recordingTransport struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (t *recordingTransport) Name() string { return "recording" }

func (t *recordingTransport) Send(_ context.Context, _, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.messages = append(t.messages, message)
	return nil
}

func (t *recordingTransport) sent() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

type recordingFeed struct {
	mu     sync.Mutex
	events []*models.AlertEvent
}

func (f *recordingFeed) PublishAlert(event *models.AlertEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type recordingEvents struct {
	calls int
	err   error
}

func (e *recordingEvents) PublishAlert(context.Context, *models.AlertEvent) error {
	e.calls++
	return e.err
}

func cargoCrossing() models.Crossing {
	sog := 12.3
	return models.Crossing{
		Rule:     models.AlertRule{ID: "rule-1", Name: "Entering Baltic Sea (Östersjön)", GeofenceID: "fence-1", Active: true},
		Geofence: models.Geofence{ID: "fence-1", Name: "Baltic Sea (Östersjön)"},
		Vessel: models.VesselRecord{
			MMSI:     265517000,
			Name:     "NORDIC STAR",
			ShipType: "Cargo",
			Lat:      59.0,
			Lng:      18.0,
			SOG:      &sog,
		},
		OccurredAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}
