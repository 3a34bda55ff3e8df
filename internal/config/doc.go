// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package config provides centralized configuration management for Seawatch.

Configuration is layered with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, or config.yaml in the working directory,
    or /etc/seawatch/config.yaml)
 3. Environment variables (highest priority)

Environment variable names are flat and mapped explicitly to nested paths by
envTransformFunc. Unknown variables are ignored.

# Environment Variables

AIS stream:
  - AISSTREAM_API_KEY: aisstream.io API key (empty disables ingestion)
  - AISSTREAM_URL: upstream WebSocket URL (default: wss://stream.aisstream.io/v0/stream)
  - AIS_MIN_LAT, AIS_MAX_LAT, AIS_MIN_LNG, AIS_MAX_LNG: region bounding box (default: Baltic Sea)
  - AIS_MESSAGE_TYPES: comma-separated message types to subscribe to
  - AIS_RECONNECT_DELAY: fixed delay between reconnect attempts (default: 5s)

Positions and live feed:
  - POSITION_FLUSH_INTERVAL: cache flush period (default: 60s)
  - SSE_HEARTBEAT_INTERVAL: live feed heartbeat period (default: 30s)
  - BROADCAST_SUBSCRIBER_BUFFER: per-subscriber queue length (default: 64)

Geofencing:
  - GEOFENCE_CHECK_INTERVAL: internal check period, 0 disables (default: 1m)
  - GEOFENCE_RECENT_WINDOW: vessels seen within this window are checked (default: 2m)
  - GEOFENCE_COLD_START: alert or suppress (default: alert)
  - CROSSING_STORE: memory, badger or redis (default: memory)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: Redis crossing store connection

Notifications:
  - ALERT_RECIPIENT: phone number receiving SMS alerts
  - NOTIFICATION_COOLDOWN: per-vessel SMS dedup window (default: 1h)
  - TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER: Twilio credentials;
    when unset, messages are logged instead of sent

Enrichment:
  - ENRICHMENT_ENABLED, MARINETRAFFIC_API_KEY, ENRICHMENT_CACHE_TTL (default: 168h)

Infrastructure:
  - HTTP_HOST, HTTP_PORT, DUCKDB_PATH, LOG_LEVEL, LOG_FORMAT
  - NATS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_ALERT_TOPIC
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, TASK_TOKEN
*/
package config
