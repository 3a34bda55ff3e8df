// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package geofence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/models"
)

// RedisCrossingStore shares crossing state between processes.
type RedisCrossingStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// OpenRedisCrossingStore connects and pings the configured server.
func OpenRedisCrossingStore(ctx context.Context, cfg *config.RedisConfig, ttl time.Duration) (*RedisCrossingStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisCrossingStore(client, cfg.KeyPrefix, ttl), nil
}

// NewRedisCrossingStore wraps an existing client. Close closes the client.
func NewRedisCrossingStore(client *redis.Client, prefix string, ttl time.Duration) *RedisCrossingStore {
	return &RedisCrossingStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisCrossingStore) key(key CrossingKey) string {
	return s.prefix + key.String()
}

// Get implements CrossingStore.
func (s *RedisCrossingStore) Get(ctx context.Context, key CrossingKey) (models.CrossingState, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.CrossingState{}, false, nil
	}
	if err != nil {
		return models.CrossingState{}, false, fmt.Errorf("redis GET %s: %w", s.key(key), err)
	}

	var state models.CrossingState
	if err := json.Unmarshal(val, &state); err != nil {
		return models.CrossingState{}, false, fmt.Errorf("decode crossing state: %w", err)
	}
	return state, true, nil
}

// Put implements CrossingStore. A zero TTL stores the key without expiry.
func (s *RedisCrossingStore) Put(ctx context.Context, key CrossingKey, state models.CrossingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal crossing state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", s.key(key), err)
	}
	return nil
}

// Close implements CrossingStore.
func (s *RedisCrossingStore) Close() error {
	return s.client.Close()
}
