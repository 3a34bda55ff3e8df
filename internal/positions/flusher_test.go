// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package positions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/seawatch/internal/models"
)

type mockStore struct {
	mu      sync.Mutex
	batches [][]models.Position
	err     error
}

func (m *mockStore) UpsertPositions(_ context.Context, batch []models.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, append([]models.Position(nil), batch...))
	return m.err
}

func (m *mockStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

func TestFlusher_EmptyCacheIsNoop(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	f := NewFlusher(NewCache(), store, time.Minute, time.Second)

	if err := f.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if store.calls() != 0 {
		t.Errorf("store called %d times for an empty cache", store.calls())
	}
}

func TestFlusher_WritesLatestPerVessel(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	store := &mockStore{}
	f := NewFlusher(cache, store, time.Minute, time.Second)

	t0 := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.Put(pos(265517000, 59.0, 18.0, t0))
	cache.Put(pos(265517000, 59.2, 18.2, t0.Add(30*time.Second)))

	if err := f.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if store.calls() != 1 {
		t.Fatalf("store called %d times, want 1", store.calls())
	}
	batch := store.batches[0]
	if len(batch) != 1 || batch[0].Lat != 59.2 {
		t.Errorf("batch = %+v, want only the latest position", batch)
	}
	if cache.Len() != 0 {
		t.Errorf("cache not emptied after successful flush")
	}
}

func TestFlusher_FailureRestoresBatch(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	store := &mockStore{err: errors.New("database is locked")}
	f := NewFlusher(cache, store, time.Minute, time.Second)

	cache.Put(pos(265517000, 59.0, 18.0, time.Now()))

	if err := f.Flush(context.Background()); err == nil {
		t.Fatal("Flush() expected error")
	}
	if cache.Len() != 1 {
		t.Errorf("cache Len() = %d after failed flush, want 1", cache.Len())
	}

	store.mu.Lock()
	store.err = nil
	store.mu.Unlock()

	if err := f.Flush(context.Background()); err != nil {
		t.Fatalf("second Flush() error = %v", err)
	}
	if store.calls() != 2 || cache.Len() != 0 {
		t.Errorf("retry on next flush did not persist the batch")
	}
}

func TestFlusher_RunFlushesOnTickAndShutdown(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	store := &mockStore{}
	f := NewFlusher(cache, store, 20*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- f.RunWithContext(ctx) }()

	cache.Put(pos(265517000, 59.0, 18.0, time.Now()))

	deadline := time.Now().Add(2 * time.Second)
	for store.calls() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if store.calls() == 0 {
		t.Fatal("ticker flush did not run")
	}

	cache.Put(pos(230000001, 60.0, 20.0, time.Now()))
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("flusher did not stop")
	}

	if cache.Len() != 0 {
		t.Errorf("shutdown flush left %d positions in the cache", cache.Len())
	}
}
