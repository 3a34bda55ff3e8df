// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package alerting turns geofence entry edges into alert events and SMS.

Dispatch always persists the AlertEvent first. It then pushes the event to the
live feed and the event bus, both best effort. When a recipient is configured
and the vessel is eligible (by default: ship type contains "cargo" or
"tanker"), the DedupGuard decides whether to send:

	sent notification for this MMSI within cooldown -> skip
	no such notification                            -> send
	history lookup failed                           -> send (fail-open)

A notification is recorded as pending, sent through the Transport, then
marked sent or failed. Failed notifications are never retried.

Transports:

  - TwilioTransport: Twilio Messages REST API behind a circuit breaker and a
    send rate limiter
  - LogTransport: logs the message; used when Twilio is not configured
*/
package alerting
