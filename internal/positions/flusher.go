// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package positions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// Store persists position batches. Upserts are idempotent per MMSI.
// Satisfied by *database.DB.
type Store interface {
	UpsertPositions(ctx context.Context, batch []models.Position) error
}

// Flusher moves cached positions into the store.
type Flusher struct {
	cache    *Cache
	store    Store
	interval time.Duration
	timeout  time.Duration

	// mu keeps two flushes from interleaving a drain and a restore.
	mu sync.Mutex
}

// NewFlusher creates a flusher that runs every interval.
// timeout bounds each store call; zero means no extra bound.
func NewFlusher(cache *Cache, store Store, interval, timeout time.Duration) *Flusher {
	return &Flusher{
		cache:    cache,
		store:    store,
		interval: interval,
		timeout:  timeout,
	}
}

// Flush writes the current cache contents. An empty cache is a no-op.
// On error the batch is restored into the cache and the error returned.
func (f *Flusher) Flush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := f.cache.Drain()
	if len(batch) == 0 {
		return nil
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	err := f.store.UpsertPositions(ctx, batch)
	metrics.RecordFlush(time.Since(start), len(batch), err)

	if err != nil {
		f.cache.Restore(batch)
		return fmt.Errorf("upsert %d positions: %w", len(batch), err)
	}

	logging.Debug().Int("vessels", len(batch)).Dur("duration", time.Since(start)).Msg("Flushed position cache")
	return nil
}

// RunWithContext flushes on every tick and once more when ctx is canceled.
// Returns ctx.Err() on shutdown.
func (f *Flusher) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.finalFlush(ctx)
			return ctx.Err()
		case <-ticker.C:
			if err := f.Flush(ctx); err != nil {
				logging.Error().Err(err).Msg("Position flush failed")
			}
		}
	}
}

func (f *Flusher) finalFlush(ctx context.Context) {
	timeout := f.timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := f.Flush(flushCtx); err != nil {
		logging.Error().Err(err).Msg("Final position flush failed")
		return
	}
	logging.Info().Msg("Position cache flushed on shutdown")
}
