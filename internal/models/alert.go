// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package models

import "time"

// EventType is the kind of geofence crossing recorded by an alert.
type EventType string

// EventTypeEnter is the only alerting edge: outside at the previous check, inside now.
const EventTypeEnter EventType = "enter"

// AlertDetails is the context captured with an alert event.
type AlertDetails struct {
	GeofenceName string   `json:"geofence_name"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	SOG          *float64 `json:"sog"`
	COG          *float64 `json:"cog"`
}

// AlertEvent records one entry edge. Alert events are append-only.
type AlertEvent struct {
	ID         string       `json:"id"`
	RuleID     string       `json:"rule_id"`
	MMSI       int64        `json:"mmsi"`
	VesselName string       `json:"vessel_name"`
	EventType  EventType    `json:"event_type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Details    AlertDetails `json:"details"`
}

// Crossing is one detected entry edge for a single rule.
type Crossing struct {
	Rule       AlertRule    `json:"rule"`
	Geofence   Geofence     `json:"geofence"`
	Vessel     VesselRecord `json:"vessel"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NotificationStatus tracks the lifecycle of a notification: pending, then sent or failed.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationRecord is a single outbound SMS attempt. Failed records are never retried.
type NotificationRecord struct {
	ID           string             `json:"id"`
	AlertEventID string             `json:"alert_event_id,omitempty"`
	Recipient    string             `json:"recipient"`
	MMSI         int64              `json:"mmsi"`
	Message      string             `json:"message"`
	Status       NotificationStatus `json:"status"`
	SentAt       *time.Time         `json:"sent_at,omitempty"`
	ErrorMessage string             `json:"error_message,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
