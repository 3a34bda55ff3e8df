// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package config

import (
	"fmt"
	"time"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateDatabase,
		c.validateAIS,
		c.validateCache,
		c.validateBroadcast,
		c.validateGeofence,
		c.validateCrossing,
		c.validateNotification,
		c.validateEnrichment,
		c.validateNATS,
		c.validateSecurity,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateDatabase validates DuckDB settings
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

// validateAIS validates the upstream stream settings. The API key is optional:
// without it the ingestor stays idle.
func (c *Config) validateAIS() error {
	if err := validateWebSocketURL(c.AIS.URL, "AISSTREAM_URL"); err != nil {
		return err
	}
	if err := c.validateRegion(); err != nil {
		return err
	}
	if c.AIS.ReconnectDelay <= 0 {
		return fmt.Errorf("AIS_RECONNECT_DELAY must be positive")
	}
	if c.AIS.HandshakeTimeout <= 0 || c.AIS.ReadTimeout <= 0 {
		return fmt.Errorf("AIS_HANDSHAKE_TIMEOUT and AIS_READ_TIMEOUT must be positive")
	}
	return nil
}

// validateRegion validates the region bounding box
func (c *Config) validateRegion() error {
	a := c.AIS
	if a.MinLat < -90 || a.MaxLat > 90 {
		return fmt.Errorf("AIS region latitude must be within -90..90")
	}
	if a.MinLng < -180 || a.MaxLng > 180 {
		return fmt.Errorf("AIS region longitude must be within -180..180")
	}
	if a.MinLat >= a.MaxLat {
		return fmt.Errorf("AIS_MIN_LAT (%v) must be less than AIS_MAX_LAT (%v)", a.MinLat, a.MaxLat)
	}
	if a.MinLng >= a.MaxLng {
		return fmt.Errorf("AIS_MIN_LNG (%v) must be less than AIS_MAX_LNG (%v)", a.MinLng, a.MaxLng)
	}
	return nil
}

// validateCache validates flush settings
func (c *Config) validateCache() error {
	if c.Cache.FlushInterval < time.Second {
		return fmt.Errorf("POSITION_FLUSH_INTERVAL must be at least 1s")
	}
	if c.Cache.FlushTimeout <= 0 {
		return fmt.Errorf("POSITION_FLUSH_TIMEOUT must be positive")
	}
	return nil
}

// validateBroadcast validates live feed settings
func (c *Config) validateBroadcast() error {
	if c.Broadcast.HeartbeatInterval < time.Second {
		return fmt.Errorf("SSE_HEARTBEAT_INTERVAL must be at least 1s")
	}
	if c.Broadcast.SubscriberBuffer < 1 {
		return fmt.Errorf("BROADCAST_SUBSCRIBER_BUFFER must be at least 1")
	}
	return nil
}

// validateGeofence validates crossing detection settings
func (c *Config) validateGeofence() error {
	if c.Geofence.CheckInterval < 0 {
		return fmt.Errorf("GEOFENCE_CHECK_INTERVAL must not be negative")
	}
	if c.Geofence.RecentWindow <= 0 {
		return fmt.Errorf("GEOFENCE_RECENT_WINDOW must be positive")
	}
	if c.Geofence.ColdStart != ColdStartAlert && c.Geofence.ColdStart != ColdStartSuppress {
		return fmt.Errorf("GEOFENCE_COLD_START must be one of: alert, suppress")
	}
	if c.Geofence.Workers < 1 {
		return fmt.Errorf("GEOFENCE_WORKERS must be at least 1")
	}
	return nil
}

// validateCrossing validates the crossing state backend
func (c *Config) validateCrossing() error {
	switch c.Crossing.Store {
	case CrossingStoreMemory:
		return nil
	case CrossingStoreBadger:
		if c.Crossing.BadgerPath == "" {
			return fmt.Errorf("CROSSING_BADGER_PATH is required when CROSSING_STORE=badger")
		}
	case CrossingStoreRedis:
		if c.Crossing.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CROSSING_STORE=redis")
		}
	default:
		return fmt.Errorf("CROSSING_STORE must be one of: memory, badger, redis")
	}
	if c.Crossing.TTL < 0 {
		return fmt.Errorf("CROSSING_TTL must not be negative")
	}
	return nil
}

// validateNotification validates SMS settings. Partial Twilio credentials
// are rejected so a typo does not silently fall back to log-only delivery.
func (c *Config) validateNotification() error {
	n := c.Notification
	if n.Cooldown <= 0 {
		return fmt.Errorf("NOTIFICATION_COOLDOWN must be positive")
	}
	if len(n.CommercialKeywords) == 0 {
		return fmt.Errorf("COMMERCIAL_KEYWORDS must contain at least one keyword")
	}
	if n.SendInterval < 0 {
		return fmt.Errorf("SMS_SEND_INTERVAL must not be negative")
	}

	t := n.Twilio
	anySet := t.AccountSID != "" || t.AuthToken != "" || t.From != ""
	if anySet && !t.Configured() {
		return fmt.Errorf("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER must be set together")
	}
	if t.Configured() {
		if n.Recipient == "" {
			return fmt.Errorf("ALERT_RECIPIENT is required when Twilio is configured")
		}
		if err := validateHTTPURL(t.BaseURL, "TWILIO_BASE_URL"); err != nil {
			return err
		}
	}
	return nil
}

// validateEnrichment validates registry lookup settings (only if enabled)
func (c *Config) validateEnrichment() error {
	if !c.Enrichment.Enabled {
		return nil
	}
	if c.Enrichment.APIKey == "" {
		return fmt.Errorf("MARINETRAFFIC_API_KEY is required when ENRICHMENT_ENABLED=true")
	}
	if err := validateHTTPURL(c.Enrichment.BaseURL, "MARINETRAFFIC_BASE_URL"); err != nil {
		return err
	}
	if c.Enrichment.CacheTTL <= 0 {
		return fmt.Errorf("ENRICHMENT_CACHE_TTL must be positive")
	}
	return nil
}

// NATS limit constants
const (
	natsMinMemory = 16 * 1024 * 1024 // 16MB
	natsMinStore  = 64 * 1024 * 1024 // 64MB
)

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.Topic == "" {
		return fmt.Errorf("NATS_ALERT_TOPIC is required when NATS_ENABLED=true")
	}
	if c.NATS.EmbeddedServer {
		if c.NATS.MaxMemory < natsMinMemory {
			return fmt.Errorf("NATS_MAX_MEMORY must be at least 16MB (16777216 bytes)")
		}
		if c.NATS.MaxStore < natsMinStore {
			return fmt.Errorf("NATS_MAX_STORE must be at least 64MB (67108864 bytes)")
		}
	}
	return nil
}

// validateSecurity validates CORS and rate limit settings
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must contain at least one origin (use * to allow all)")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow < time.Second {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
	}
	return nil
}
