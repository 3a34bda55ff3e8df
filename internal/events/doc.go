// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package events publishes alert events to a message bus so other services can
react to geofence entries without polling the database.

Messages are JSON encoded models.AlertEvent values published through a
Watermill publisher. In production that publisher is NATS JetStream, either an
external server or one embedded in the process. Each message carries the alert
ID as its Watermill UUID and as the Nats-Msg-Id header, so JetStream drops
duplicates on redelivery.

Metadata set on every message:

	mmsi        vessel MMSI
	rule_id     triggering rule
	event_type  always "enter"
*/
package events
