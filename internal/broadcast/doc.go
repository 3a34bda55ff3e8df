// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package broadcast fans live vessel updates out to connected clients.

The Hub keeps one buffered channel per subscriber. Publishing never blocks:
a subscriber whose channel is full is removed and its channel closed, so one
slow client cannot stall the others. A heartbeat frame goes out on a fixed
interval independently of data.

Two transports read from a subscription:

  - Server-Sent Events (ServeSSE): each position is written as "data: <json>",
    alerts as "event: alert" plus data, heartbeats as the ": heartbeat" comment.
  - WebSocket (ServeWebSocket): each frame is wrapped as {"type": ..., "data": ...}.

Message types:

  - position: one accepted models.Position
  - alert: one persisted models.AlertEvent
  - heartbeat: keep-alive, no data

Usage:

	hub := broadcast.NewHub(64, 30*time.Second)
	tree.AddMessagingService(services.NewHubService(hub))

	r.Get("/api/v1/ais/stream", hub.ServeSSE)
*/
package broadcast
