// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.AIS.APIKey != "" {
		t.Errorf("AIS.APIKey should be empty by default, got %q", cfg.AIS.APIKey)
	}
	if cfg.AIS.URL != "wss://stream.aisstream.io/v0/stream" {
		t.Errorf("AIS.URL = %q, want wss://stream.aisstream.io/v0/stream", cfg.AIS.URL)
	}
	if cfg.AIS.MinLat != 53.5 || cfg.AIS.MaxLat != 66.0 || cfg.AIS.MinLng != 10.5 || cfg.AIS.MaxLng != 30.0 {
		t.Errorf("AIS region = %v..%v / %v..%v, want Baltic box", cfg.AIS.MinLat, cfg.AIS.MaxLat, cfg.AIS.MinLng, cfg.AIS.MaxLng)
	}
	if cfg.AIS.ReconnectDelay != 5*time.Second {
		t.Errorf("AIS.ReconnectDelay = %v, want 5s", cfg.AIS.ReconnectDelay)
	}
	if cfg.Cache.FlushInterval != 60*time.Second {
		t.Errorf("Cache.FlushInterval = %v, want 60s", cfg.Cache.FlushInterval)
	}
	if cfg.Broadcast.HeartbeatInterval != 30*time.Second {
		t.Errorf("Broadcast.HeartbeatInterval = %v, want 30s", cfg.Broadcast.HeartbeatInterval)
	}
	if cfg.Geofence.RecentWindow != 2*time.Minute {
		t.Errorf("Geofence.RecentWindow = %v, want 2m", cfg.Geofence.RecentWindow)
	}
	if cfg.Geofence.ColdStart != ColdStartAlert {
		t.Errorf("Geofence.ColdStart = %q, want alert", cfg.Geofence.ColdStart)
	}
	if cfg.Crossing.Store != CrossingStoreMemory {
		t.Errorf("Crossing.Store = %q, want memory", cfg.Crossing.Store)
	}
	if cfg.Notification.Cooldown != time.Hour {
		t.Errorf("Notification.Cooldown = %v, want 1h", cfg.Notification.Cooldown)
	}
	if !reflect.DeepEqual(cfg.Notification.CommercialKeywords, []string{"cargo", "tanker"}) {
		t.Errorf("Notification.CommercialKeywords = %v, want [cargo tanker]", cfg.Notification.CommercialKeywords)
	}
	if cfg.Enrichment.CacheTTL != 7*24*time.Hour {
		t.Errorf("Enrichment.CacheTTL = %v, want 168h", cfg.Enrichment.CacheTTL)
	}
	if cfg.NATS.Enabled {
		t.Error("NATS.Enabled should be false by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable to koanf path mapping
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AISSTREAM_API_KEY", "ais.api_key"},
		{"AIS_MIN_LAT", "ais.min_lat"},
		{"POSITION_FLUSH_INTERVAL", "cache.flush_interval"},
		{"SSE_HEARTBEAT_INTERVAL", "broadcast.heartbeat_interval"},
		{"GEOFENCE_COLD_START", "geofence.cold_start"},
		{"REDIS_ADDR", "crossing.redis.addr"},
		{"TWILIO_ACCOUNT_SID", "notification.twilio.account_sid"},
		{"TWILIO_PHONE_NUMBER", "notification.twilio.from"},
		{"MARINETRAFFIC_API_KEY", "enrichment.api_key"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"log_level", "logging.level"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := envTransformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("server:\n  port: 9000\n"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("server:\n  port: 9000\n"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("AISSTREAM_API_KEY", "test-key")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("POSITION_FLUSH_INTERVAL", "15s")
	t.Setenv("AIS_MIN_LAT", "54.25")
	t.Setenv("COMMERCIAL_KEYWORDS", "cargo, tanker ,passenger")
	t.Setenv("CROSSING_STORE", "badger")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.AIS.APIKey != "test-key" {
		t.Errorf("AIS.APIKey = %q, want test-key", cfg.AIS.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Cache.FlushInterval != 15*time.Second {
		t.Errorf("Cache.FlushInterval = %v, want 15s", cfg.Cache.FlushInterval)
	}
	if cfg.AIS.MinLat != 54.25 {
		t.Errorf("AIS.MinLat = %v, want 54.25", cfg.AIS.MinLat)
	}
	want := []string{"cargo", "tanker", "passenger"}
	if !reflect.DeepEqual(cfg.Notification.CommercialKeywords, want) {
		t.Errorf("CommercialKeywords = %v, want %v", cfg.Notification.CommercialKeywords, want)
	}
	if cfg.Crossing.Store != CrossingStoreBadger {
		t.Errorf("Crossing.Store = %q, want badger", cfg.Crossing.Store)
	}
	// Untouched defaults survive
	if cfg.Broadcast.HeartbeatInterval != 30*time.Second {
		t.Errorf("Broadcast.HeartbeatInterval = %v, want 30s", cfg.Broadcast.HeartbeatInterval)
	}
}

// TestLoadWithKoanfEnvOverridesFile verifies ENV > File > Defaults precedence
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	configContent := `
server:
  port: 7000
logging:
  level: warn
geofence:
  cold_start: suppress
  workers: 2
ais:
  message_types:
    - PositionReport
`
	configPath := filepath.Join(tmpDir, "seawatch.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (from file)", cfg.Logging.Level)
	}
	if cfg.Geofence.ColdStart != ColdStartSuppress {
		t.Errorf("Geofence.ColdStart = %q, want suppress", cfg.Geofence.ColdStart)
	}
	if cfg.Geofence.Workers != 2 {
		t.Errorf("Geofence.Workers = %d, want 2", cfg.Geofence.Workers)
	}
	if !reflect.DeepEqual(cfg.AIS.MessageTypes, []string{"PositionReport"}) {
		t.Errorf("AIS.MessageTypes = %v, want [PositionReport]", cfg.AIS.MessageTypes)
	}
	if cfg.Cache.FlushInterval != 60*time.Second {
		t.Errorf("Cache.FlushInterval = %v, want 60s (default)", cfg.Cache.FlushInterval)
	}
}

// TestLoadWithKoanfValidation verifies invalid settings are rejected at load time
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid cold start", map[string]string{"GEOFENCE_COLD_START": "maybe"}},
		{"invalid crossing store", map[string]string{"CROSSING_STORE": "etcd"}},
		{"inverted bbox", map[string]string{"AIS_MIN_LAT": "70"}},
		{"partial twilio", map[string]string{"TWILIO_ACCOUNT_SID": "AC123"}},
		{"enrichment without key", map[string]string{"ENRICHMENT_ENABLED": "true"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"non websocket upstream", map[string]string{"AISSTREAM_URL": "https://stream.aisstream.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadWithKoanf(); err == nil {
				t.Errorf("LoadWithKoanf() expected error for %s", tt.name)
			}
		})
	}
}
