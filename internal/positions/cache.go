// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package positions

import (
	"sync"

	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// Cache holds the most recent position for each vessel.
type Cache struct {
	mu      sync.Mutex
	entries map[int64]models.Position
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[int64]models.Position)}
}

// Put stores pos, replacing any earlier position for the same MMSI.
func (c *Cache) Put(pos models.Position) {
	c.mu.Lock()
	c.entries[pos.MMSI] = pos
	n := len(c.entries)
	c.mu.Unlock()

	metrics.PositionCacheSize.Set(float64(n))
}

// Len returns the number of buffered vessels.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Drain returns every buffered position and empties the cache in one step.
func (c *Cache) Drain() []models.Position {
	c.mu.Lock()
	if len(c.entries) == 0 {
		c.mu.Unlock()
		return nil
	}
	batch := make([]models.Position, 0, len(c.entries))
	for _, p := range c.entries {
		batch = append(batch, p)
	}
	c.entries = make(map[int64]models.Position, len(batch))
	c.mu.Unlock()

	metrics.PositionCacheSize.Set(0)
	return batch
}

// Restore puts back positions that failed to persist.
// Entries that were replaced since the drain are left alone.
func (c *Cache) Restore(batch []models.Position) {
	c.mu.Lock()
	for _, p := range batch {
		if _, newer := c.entries[p.MMSI]; newer {
			continue
		}
		c.entries[p.MMSI] = p
	}
	n := len(c.entries)
	c.mu.Unlock()

	metrics.PositionCacheSize.Set(float64(n))
}
