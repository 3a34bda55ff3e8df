// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

// Package logging provides the process-wide zerolog logger used by every
// Seawatch component.
//
// Initialize once from main:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
// Then log with structured fields:
//
//	logging.Info().Int64("mmsi", mmsi).Str("geofence", name).Msg("entry edge detected")
//
// Request-scoped logging picks up request and correlation IDs:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("geofence check failed")
//
// Components that want a fixed field on every line use WithComponent:
//
//	log := logging.WithComponent("ais-ingestor")
//
// Libraries that require log/slog (sutureslog, watermill) are bridged through
// NewSlogLogger so all output goes through the same zerolog writer.
//
// Environment variables (read by the config package):
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  true, false (default: false)
package logging
