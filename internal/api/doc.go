// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package api provides the HTTP layer for Seawatch.

Routes are served by a Chi router with go-chi/cors, go-chi/httprate and a
Prometheus request middleware:

	GET  /api/v1/ais/stream                 live feed, Server-Sent Events
	GET  /api/v1/ais/ws                     live feed, WebSocket
	GET  /api/v1/tasks/check-geofences      run one geofence check
	POST /api/v1/tasks/check-geofences      same, for schedulers that only POST
	GET  /api/v1/vessels?bbox=...           latest vessel positions
	GET  /api/v1/vessels/{mmsi}/registry    registry enrichment record
	GET  /api/v1/alerts                     active rules and recent alert events
	GET  /api/v1/rules                      all rules, active or not
	GET  /api/v1/notifications?status=...   notification records
	POST /api/v1/geofences                  create a geofence
	POST /api/v1/rules                      create an alert rule
	PATCH /api/v1/rules/{id}                activate or deactivate a rule
	GET  /health/live, /health/ready        probes
	GET  /metrics                           Prometheus

Read endpoints return their payload as the JSON body. Errors use the
models.APIResponse envelope with a machine-readable code:

	{"status":"error","error":{"code":"VALIDATION_ERROR","message":"..."},"metadata":{...}}

The check trigger returns {"vesselsChecked":n,"rulesChecked":n,"alertsCreated":n}.
When security.task_token is set, the check trigger and the write endpoints
require "Authorization: Bearer <token>".
*/
package api
