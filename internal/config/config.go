// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package config

import "time"

// Config holds all application configuration.
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Logging      LoggingConfig      `koanf:"logging"`
	Database     DatabaseConfig     `koanf:"database"`
	AIS          AISConfig          `koanf:"ais"`
	Cache        CacheConfig        `koanf:"cache"`
	Broadcast    BroadcastConfig    `koanf:"broadcast"`
	Geofence     GeofenceConfig     `koanf:"geofence"`
	Crossing     CrossingConfig     `koanf:"crossing"`
	Notification NotificationConfig `koanf:"notification"`
	Enrichment   EnrichmentConfig   `koanf:"enrichment"`
	NATS         NATSConfig         `koanf:"nats"`
	Security     SecurityConfig     `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
// There is no write timeout: the live feed endpoints hold responses open.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default

	// SeedDefaults inserts the Baltic Sea geofence and its entry rule when
	// the geofences table is empty.
	SeedDefaults bool `koanf:"seed_defaults"`
}

// AISConfig holds the upstream AIS stream settings.
type AISConfig struct {
	// APIKey is the aisstream.io key. Empty disables ingestion.
	APIKey string `koanf:"api_key"`
	URL    string `koanf:"url"`

	// Region bounding box. Sent upstream and enforced locally.
	MinLat float64 `koanf:"min_lat"`
	MaxLat float64 `koanf:"max_lat"`
	MinLng float64 `koanf:"min_lng"`
	MaxLng float64 `koanf:"max_lng"`

	MessageTypes     []string      `koanf:"message_types"`
	ReconnectDelay   time.Duration `koanf:"reconnect_delay"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
	ReadTimeout      time.Duration `koanf:"read_timeout"`
}

// CacheConfig holds position cache flush settings.
type CacheConfig struct {
	FlushInterval time.Duration `koanf:"flush_interval"`
	FlushTimeout  time.Duration `koanf:"flush_timeout"`
}

// BroadcastConfig holds live feed settings.
type BroadcastConfig struct {
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`
	SubscriberBuffer  int           `koanf:"subscriber_buffer"`
}

// Cold start policies for vessels with no recorded crossing state.
const (
	ColdStartAlert    = "alert"
	ColdStartSuppress = "suppress"
)

// GeofenceConfig holds crossing detection settings.
type GeofenceConfig struct {
	// CheckInterval is the internal scheduler period. 0 disables the
	// scheduler; checks can still be triggered over HTTP.
	CheckInterval time.Duration `koanf:"check_interval"`
	RecentWindow  time.Duration `koanf:"recent_window"`
	ColdStart     string        `koanf:"cold_start"`
	Workers       int           `koanf:"workers"`
}

// Crossing store backends.
const (
	CrossingStoreMemory = "memory"
	CrossingStoreBadger = "badger"
	CrossingStoreRedis  = "redis"
)

// CrossingConfig selects where per-vessel crossing state is kept.
type CrossingConfig struct {
	Store      string        `koanf:"store"`
	BadgerPath string        `koanf:"badger_path"`
	TTL        time.Duration `koanf:"ttl"`
	Redis      RedisConfig   `koanf:"redis"`
}

// RedisConfig holds the Redis connection used by the redis crossing store.
type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// NotificationConfig holds alert SMS settings.
type NotificationConfig struct {
	// Recipient is the phone number that receives alert SMS. Empty disables SMS.
	Recipient string        `koanf:"recipient"`
	Cooldown  time.Duration `koanf:"cooldown"`

	// CommercialKeywords select eligible vessels by ship type label
	// (case-insensitive substring match).
	CommercialKeywords []string      `koanf:"commercial_keywords"`
	SendInterval       time.Duration `koanf:"send_interval"`
	Twilio             TwilioConfig  `koanf:"twilio"`
}

// TwilioConfig holds Twilio REST credentials.
type TwilioConfig struct {
	AccountSID string        `koanf:"account_sid"`
	AuthToken  string        `koanf:"auth_token"`
	From       string        `koanf:"from"`
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
}

// Configured reports whether all Twilio credentials are present.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != ""
}

// EnrichmentConfig holds vessel registry lookup settings.
type EnrichmentConfig struct {
	Enabled         bool          `koanf:"enabled"`
	APIKey          string        `koanf:"api_key"`
	BaseURL         string        `koanf:"base_url"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	Timeout         time.Duration `koanf:"timeout"`
	RequestInterval time.Duration `koanf:"request_interval"`
}

// NATSConfig holds alert event bus settings.
type NATSConfig struct {
	Enabled        bool          `koanf:"enabled"`
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	StoreDir       string        `koanf:"store_dir"`
	MaxMemory      int64         `koanf:"max_memory"`
	MaxStore       int64         `koanf:"max_store"`
	Topic          string        `koanf:"topic"`
	MaxReconnects  int           `koanf:"max_reconnects"`
	ReconnectWait  time.Duration `koanf:"reconnect_wait"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// TaskToken, when set, is required as a bearer token on the
	// geofence check trigger and on geofence and rule writes.
	TaskToken string `koanf:"task_token"`
}

// Load reads configuration from defaults, an optional config file and
// environment variables, in that order of precedence.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
