// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// Store persists alerts and notification records. Satisfied by *database.DB.
type Store interface {
	NotificationHistory
	InsertAlertEvent(ctx context.Context, event *models.AlertEvent) error
	CreateNotification(ctx context.Context, n *models.NotificationRecord) error
	MarkNotificationSent(ctx context.Context, id string, sentAt time.Time) error
	MarkNotificationFailed(ctx context.Context, id, errMsg string) error
}

// Feed pushes alerts to live subscribers. Satisfied by *broadcast.Hub.
type Feed interface {
	PublishAlert(event *models.AlertEvent)
}

// EventPublisher forwards alerts to the event bus. Satisfied by *events.Publisher.
type EventPublisher interface {
	PublishAlert(ctx context.Context, event *models.AlertEvent) error
}

// DispatcherConfig wires a Dispatcher. Feed and Events may be nil.
type DispatcherConfig struct {
	Store       Store
	Feed        Feed
	Events      EventPublisher
	Transport   Transport
	Eligibility Eligibility
	Recipient   string
	Cooldown    time.Duration
}

// Dispatcher persists alert events and sends SMS notifications.
type Dispatcher struct {
	store       Store
	feed        Feed
	events      EventPublisher
	transport   Transport
	eligibility Eligibility
	guard       *DedupGuard
	recipient   string
	now         func() time.Time

	// notifyMu makes the dedup check and the send one step.
	notifyMu sync.Mutex
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	transport := cfg.Transport
	if transport == nil {
		transport = NewLogTransport()
	}
	eligibility := cfg.Eligibility
	if eligibility == nil {
		eligibility = CommercialTraffic(DefaultCommercialKeywords)
	}
	return &Dispatcher{
		store:       cfg.Store,
		feed:        cfg.Feed,
		events:      cfg.Events,
		transport:   transport,
		eligibility: eligibility,
		guard:       NewDedupGuard(cfg.Store, cfg.Cooldown),
		recipient:   cfg.Recipient,
		now:         time.Now,
	}
}

// Dispatch records the alert for a crossing, then fans it out and notifies.
// Only a persistence failure is returned; delivery problems are logged.
func (d *Dispatcher) Dispatch(ctx context.Context, c models.Crossing) (*models.AlertEvent, error) {
	occurred := c.OccurredAt
	if occurred.IsZero() {
		occurred = d.now()
	}

	event := &models.AlertEvent{
		ID:         uuid.New().String(),
		RuleID:     c.Rule.ID,
		MMSI:       c.Vessel.MMSI,
		VesselName: c.Vessel.DisplayName(),
		EventType:  models.EventTypeEnter,
		OccurredAt: occurred.UTC(),
		Details: models.AlertDetails{
			GeofenceName: c.Geofence.Name,
			Lat:          c.Vessel.Lat,
			Lng:          c.Vessel.Lng,
			SOG:          c.Vessel.SOG,
			COG:          c.Vessel.COG,
		},
	}

	if err := d.store.InsertAlertEvent(ctx, event); err != nil {
		metrics.AlertPersistErrors.Inc()
		return nil, fmt.Errorf("persist alert event: %w", err)
	}
	metrics.AlertsCreated.Inc()

	logging.Info().
		Str("alert_id", event.ID).
		Str("rule_id", event.RuleID).
		Int64("mmsi", event.MMSI).
		Str("vessel", event.VesselName).
		Str("geofence", c.Geofence.Name).
		Msg("Alert created")

	if d.feed != nil {
		d.feed.PublishAlert(event)
	}
	d.publish(ctx, event)
	d.notify(ctx, c, event)

	return event, nil
}

func (d *Dispatcher) publish(ctx context.Context, event *models.AlertEvent) {
	if d.events == nil {
		return
	}
	if err := d.events.PublishAlert(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		logging.Warn().Err(err).Str("alert_id", event.ID).Msg("Failed to publish alert event")
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}

func (d *Dispatcher) notify(ctx context.Context, c models.Crossing, event *models.AlertEvent) {
	if d.recipient == "" {
		return
	}
	if !d.eligibility(c.Vessel) {
		metrics.Notifications.WithLabelValues("ineligible").Inc()
		logging.Debug().
			Int64("mmsi", c.Vessel.MMSI).
			Str("ship_type", c.Vessel.ShipType).
			Msg("Vessel not eligible for SMS")
		return
	}

	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()

	if !d.guard.ShouldSend(ctx, c.Vessel.MMSI) {
		metrics.Notifications.WithLabelValues("deduplicated").Inc()
		logging.Info().Int64("mmsi", c.Vessel.MMSI).Msg("SMS suppressed, vessel notified recently")
		return
	}

	record := &models.NotificationRecord{
		ID:           uuid.New().String(),
		AlertEventID: event.ID,
		Recipient:    d.recipient,
		MMSI:         c.Vessel.MMSI,
		Message:      FormatMessage(c),
		Status:       models.NotificationPending,
		CreatedAt:    d.now().UTC(),
	}
	if err := d.store.CreateNotification(ctx, record); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		logging.Error().Err(err).Int64("mmsi", record.MMSI).Msg("Failed to record notification, not sending")
		return
	}

	if err := d.transport.Send(ctx, record.Recipient, record.Message); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		logging.Error().Err(err).
			Str("notification_id", record.ID).
			Str("transport", d.transport.Name()).
			Msg("SMS delivery failed")
		if merr := d.store.MarkNotificationFailed(ctx, record.ID, err.Error()); merr != nil {
			logging.Error().Err(merr).Str("notification_id", record.ID).Msg("Failed to mark notification failed")
		}
		return
	}

	if err := d.store.MarkNotificationSent(ctx, record.ID, d.now().UTC()); err != nil {
		logging.Error().Err(err).Str("notification_id", record.ID).Msg("Failed to mark notification sent")
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	logging.Info().
		Str("notification_id", record.ID).
		Int64("mmsi", record.MMSI).
		Str("transport", d.transport.Name()).
		Msg("SMS sent")
}
