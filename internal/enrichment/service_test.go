// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package enrichment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/seawatch/internal/models"
)

type memoryCache struct {
	mu      sync.Mutex
	records map[int64]*models.EnrichmentRecord
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{records: make(map[int64]*models.EnrichmentRecord)}
}

func (c *memoryCache) GetRegistryRecord(_ context.Context, mmsi int64) (*models.EnrichmentRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records[mmsi], nil
}

func (c *memoryCache) PutRegistryRecord(_ context.Context, rec *models.EnrichmentRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[rec.MMSI] = rec
	c.puts++
	return nil
}

type stubFetcher struct {
	calls int
	rec   *models.EnrichmentRecord
	err   error
}

func (f *stubFetcher) Fetch(_ context.Context, mmsi int64) (*models.EnrichmentRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rec := *f.rec
	rec.MMSI = mmsi
	return &rec, nil
}

func TestLookup_FetchesThenServesFromCache(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCache()
	fetcher := &stubFetcher{rec: &models.EnrichmentRecord{Name: "NORDIC STAR", Source: SourceMarineTraffic, FetchedAt: now}}
	svc := NewServiceWithFetcher(cache, fetcher, 7*24*time.Hour, 0)
	svc.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		rec, err := svc.Lookup(context.Background(), 265517000)
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if rec.Name != "NORDIC STAR" {
			t.Errorf("Name = %q", rec.Name)
		}
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
}

func TestLookup_StaleRecordIsRefreshed(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCache()
	cache.records[265517000] = &models.EnrichmentRecord{MMSI: 265517000, Name: "OLD NAME", FetchedAt: now.Add(-8 * 24 * time.Hour)}
	fetcher := &stubFetcher{rec: &models.EnrichmentRecord{Name: "NEW NAME", FetchedAt: now}}

	svc := NewServiceWithFetcher(cache, fetcher, 7*24*time.Hour, 0)
	svc.now = func() time.Time { return now }

	rec, err := svc.Lookup(context.Background(), 265517000)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if rec.Name != "NEW NAME" || fetcher.calls != 1 {
		t.Errorf("stale record not refreshed: %q after %d calls", rec.Name, fetcher.calls)
	}
}

func TestLookup_StaleRecordServedWhenUpstreamFails(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := newMemoryCache()
	cache.records[265517000] = &models.EnrichmentRecord{MMSI: 265517000, Name: "OLD NAME", FetchedAt: now.Add(-8 * 24 * time.Hour)}
	fetcher := &stubFetcher{err: errors.New("registry returned 503")}

	svc := NewServiceWithFetcher(cache, fetcher, 7*24*time.Hour, 0)
	svc.now = func() time.Time { return now }

	rec, err := svc.Lookup(context.Background(), 265517000)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if rec.Name != "OLD NAME" {
		t.Errorf("Name = %q, want stale record", rec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	t.Parallel()

	cache := newMemoryCache()
	svc := NewServiceWithFetcher(cache, &stubFetcher{err: ErrNotFound}, time.Hour, 0)

	if _, err := svc.Lookup(context.Background(), 265517000); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup() error = %v, want ErrNotFound", err)
	}
	if cache.puts != 0 {
		t.Error("a missing vessel must not be cached")
	}
}

func TestLookup_UpstreamErrorWithoutCache(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithFetcher(newMemoryCache(), &stubFetcher{err: errors.New("timeout")}, time.Hour, 0)

	_, err := svc.Lookup(context.Background(), 265517000)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup() error = %v, want upstream failure", err)
	}
}
