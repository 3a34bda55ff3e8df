// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/seawatch/config.yaml",
	"/etc/seawatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Baltic Sea bounding box used when no region is configured.
const (
	BalticMinLat = 53.5
	BalticMaxLat = 66.0
	BalticMinLng = 10.5
	BalticMaxLng = 30.0
)

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Path:         "/data/seawatch.duckdb",
			MaxMemory:    "1GB",
			Threads:      0,
			SeedDefaults: true,
		},
		AIS: AISConfig{
			APIKey:           "",
			URL:              "wss://stream.aisstream.io/v0/stream",
			MinLat:           BalticMinLat,
			MaxLat:           BalticMaxLat,
			MinLng:           BalticMinLng,
			MaxLng:           BalticMaxLng,
			MessageTypes:     []string{"PositionReport", "ShipStaticData"},
			ReconnectDelay:   5 * time.Second,
			HandshakeTimeout: 10 * time.Second,
			ReadTimeout:      60 * time.Second,
		},
		Cache: CacheConfig{
			FlushInterval: 60 * time.Second,
			FlushTimeout:  30 * time.Second,
		},
		Broadcast: BroadcastConfig{
			HeartbeatInterval: 30 * time.Second,
			SubscriberBuffer:  64,
		},
		Geofence: GeofenceConfig{
			CheckInterval: time.Minute,
			RecentWindow:  2 * time.Minute,
			ColdStart:     ColdStartAlert,
			Workers:       8,
		},
		Crossing: CrossingConfig{
			Store:      CrossingStoreMemory,
			BadgerPath: "/data/crossings",
			TTL:        24 * time.Hour,
			Redis: RedisConfig{
				Addr:      "127.0.0.1:6379",
				DB:        0,
				KeyPrefix: "seawatch:crossing:",
			},
		},
		Notification: NotificationConfig{
			Recipient:          "",
			Cooldown:           time.Hour,
			CommercialKeywords: []string{"cargo", "tanker"},
			SendInterval:       time.Second,
			Twilio: TwilioConfig{
				BaseURL: "https://api.twilio.com",
				Timeout: 10 * time.Second,
			},
		},
		Enrichment: EnrichmentConfig{
			Enabled:         false,
			BaseURL:         "https://services.marinetraffic.com",
			CacheTTL:        7 * 24 * time.Hour,
			Timeout:         15 * time.Second,
			RequestInterval: 2 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
			MaxMemory:      256 << 20, // 256MB
			MaxStore:       1 << 30,   // 1GB
			Topic:          "vessel_alerts",
			MaxReconnects:  -1,
			ReconnectWait:  2 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			TaskToken:         "",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"ais.message_types",
	"notification.commercial_keywords",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_defaults":     "database.seed_defaults",

	// AIS stream mappings
	"aisstream_api_key":     "ais.api_key",
	"aisstream_url":         "ais.url",
	"ais_min_lat":           "ais.min_lat",
	"ais_max_lat":           "ais.max_lat",
	"ais_min_lng":           "ais.min_lng",
	"ais_max_lng":           "ais.max_lng",
	"ais_message_types":     "ais.message_types",
	"ais_reconnect_delay":   "ais.reconnect_delay",
	"ais_handshake_timeout": "ais.handshake_timeout",
	"ais_read_timeout":      "ais.read_timeout",

	// Position cache mappings
	"position_flush_interval": "cache.flush_interval",
	"position_flush_timeout":  "cache.flush_timeout",

	// Live feed mappings
	"sse_heartbeat_interval":      "broadcast.heartbeat_interval",
	"broadcast_subscriber_buffer": "broadcast.subscriber_buffer",

	// Geofence mappings
	"geofence_check_interval": "geofence.check_interval",
	"geofence_recent_window":  "geofence.recent_window",
	"geofence_cold_start":     "geofence.cold_start",
	"geofence_workers":        "geofence.workers",

	// Crossing store mappings
	"crossing_store":       "crossing.store",
	"crossing_badger_path": "crossing.badger_path",
	"crossing_ttl":         "crossing.ttl",
	"redis_addr":           "crossing.redis.addr",
	"redis_password":       "crossing.redis.password",
	"redis_db":             "crossing.redis.db",
	"redis_key_prefix":     "crossing.redis.key_prefix",

	// Notification mappings
	"alert_recipient":       "notification.recipient",
	"notification_cooldown": "notification.cooldown",
	"commercial_keywords":   "notification.commercial_keywords",
	"sms_send_interval":     "notification.send_interval",
	"twilio_account_sid":    "notification.twilio.account_sid",
	"twilio_auth_token":     "notification.twilio.auth_token",
	"twilio_phone_number":   "notification.twilio.from",
	"twilio_base_url":       "notification.twilio.base_url",
	"twilio_timeout":        "notification.twilio.timeout",

	// Enrichment mappings
	"enrichment_enabled":          "enrichment.enabled",
	"marinetraffic_api_key":       "enrichment.api_key",
	"marinetraffic_base_url":      "enrichment.base_url",
	"enrichment_cache_ttl":        "enrichment.cache_ttl",
	"enrichment_timeout":          "enrichment.timeout",
	"enrichment_request_interval": "enrichment.request_interval",

	// NATS mappings
	"nats_enabled":        "nats.enabled",
	"nats_url":            "nats.url",
	"nats_embedded":       "nats.embedded_server",
	"nats_store_dir":      "nats.store_dir",
	"nats_max_memory":     "nats.max_memory",
	"nats_max_store":      "nats.max_store",
	"nats_alert_topic":    "nats.topic",
	"nats_max_reconnects": "nats.max_reconnects",
	"nats_reconnect_wait": "nats.reconnect_wait",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"task_token":          "security.task_token",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - AISSTREAM_API_KEY -> ais.api_key
//   - TWILIO_ACCOUNT_SID -> notification.twilio.account_sid
//   - HTTP_PORT -> server.port
//
// Unmapped variables return an empty string and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
