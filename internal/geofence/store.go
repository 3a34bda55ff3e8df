// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package geofence

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/models"
)

// CrossingKey identifies one (vessel, geofence) pair.
type CrossingKey struct {
	MMSI       int64
	GeofenceID string
}

// String returns "<mmsi>:<geofenceID>".
func (k CrossingKey) String() string {
	return strconv.FormatInt(k.MMSI, 10) + ":" + k.GeofenceID
}

// CrossingStore remembers the last inside/outside result per pair.
type CrossingStore interface {
	// Get returns the stored state. found is false when no state exists.
	Get(ctx context.Context, key CrossingKey) (state models.CrossingState, found bool, err error)
	Put(ctx context.Context, key CrossingKey, state models.CrossingState) error
	Close() error
}

// MemoryCrossingStore keeps state in process memory.
type MemoryCrossingStore struct {
	mu     sync.RWMutex
	states map[CrossingKey]models.CrossingState
	ttl    time.Duration
}

// NewMemoryCrossingStore creates an in-memory store. Entries not checked
// within ttl are treated as absent; zero keeps them forever.
func NewMemoryCrossingStore(ttl time.Duration) *MemoryCrossingStore {
	return &MemoryCrossingStore{
		states: make(map[CrossingKey]models.CrossingState),
		ttl:    ttl,
	}
}

// Get implements CrossingStore.
func (s *MemoryCrossingStore) Get(_ context.Context, key CrossingKey) (models.CrossingState, bool, error) {
	s.mu.RLock()
	state, ok := s.states[key]
	s.mu.RUnlock()

	if ok && s.ttl > 0 && time.Since(state.LastCheckedAt) > s.ttl {
		return models.CrossingState{}, false, nil
	}
	return state, ok, nil
}

// Put implements CrossingStore.
func (s *MemoryCrossingStore) Put(_ context.Context, key CrossingKey, state models.CrossingState) error {
	s.mu.Lock()
	s.states[key] = state
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored pairs.
func (s *MemoryCrossingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Pruner is implemented by stores that must be swept for expired entries.
// Backends with native expiry do not need it.
type Pruner interface {
	Prune(now time.Time) int
}

// Prune drops entries older than the TTL and returns how many were removed.
func (s *MemoryCrossingStore) Prune(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, st := range s.states {
		if now.Sub(st.LastCheckedAt) > s.ttl {
			delete(s.states, k)
			removed++
		}
	}
	return removed
}

// Close implements CrossingStore.
func (s *MemoryCrossingStore) Close() error {
	return nil
}

// OpenCrossingStore creates the backend selected in cfg.
func OpenCrossingStore(ctx context.Context, cfg *config.CrossingConfig) (CrossingStore, error) {
	switch cfg.Store {
	case config.CrossingStoreBadger:
		return OpenBadgerCrossingStore(cfg.BadgerPath, cfg.TTL)
	case config.CrossingStoreRedis:
		return OpenRedisCrossingStore(ctx, &cfg.Redis, cfg.TTL)
	case config.CrossingStoreMemory, "":
		return NewMemoryCrossingStore(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown crossing store %q", cfg.Store)
	}
}
