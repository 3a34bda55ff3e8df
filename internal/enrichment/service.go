// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/seawatch/internal/breaker"
	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// Cache stores registry records. Satisfied by *database.DB.
type Cache interface {
	// GetRegistryRecord returns nil, nil when no record exists.
	GetRegistryRecord(ctx context.Context, mmsi int64) (*models.EnrichmentRecord, error)
	PutRegistryRecord(ctx context.Context, rec *models.EnrichmentRecord) error
}

// Fetcher retrieves registry data from an upstream source.
type Fetcher interface {
	Fetch(ctx context.Context, mmsi int64) (*models.EnrichmentRecord, error)
}

// Service is a cached, rate-limited registry lookup.
type Service struct {
	cache   Cache
	fetcher Fetcher
	ttl     time.Duration
	limiter *rate.Limiter
	breaker *breaker.Breaker
	now     func() time.Time
}

// NewService builds a Service from configuration.
func NewService(cfg *config.EnrichmentConfig, cache Cache) *Service {
	return NewServiceWithFetcher(cache, NewClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout), cfg.CacheTTL, cfg.RequestInterval)
}

// NewServiceWithFetcher builds a Service around any Fetcher.
func NewServiceWithFetcher(cache Cache, fetcher Fetcher, ttl, interval time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Service{
		cache:   cache,
		fetcher: fetcher,
		ttl:     ttl,
		limiter: rate.NewLimiter(limit, 1),
		breaker: breaker.New("marinetraffic", breaker.LowVolumeOptions()),
		now:     time.Now,
	}
}

// Lookup returns registry data for mmsi, fetching when the cache is cold.
func (s *Service) Lookup(ctx context.Context, mmsi int64) (*models.EnrichmentRecord, error) {
	cached, err := s.cache.GetRegistryRecord(ctx, mmsi)
	if err != nil {
		logging.Warn().Err(err).Int64("mmsi", mmsi).Msg("Registry cache read failed")
	}
	if cached != nil && cached.Fresh(s.now(), s.ttl) {
		metrics.EnrichmentLookups.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.EnrichmentLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("registry rate limiter: %w", err)
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		rec, ferr := s.fetcher.Fetch(ctx, mmsi)
		if errors.Is(ferr, ErrNotFound) {
			// A missing vessel is an answer, not an upstream fault.
			return nil, nil
		}
		return rec, ferr
	})
	if err != nil {
		metrics.EnrichmentLookups.WithLabelValues("error").Inc()
		if cached != nil {
			logging.Debug().Err(err).Int64("mmsi", mmsi).Msg("Registry fetch failed, serving stale record")
			return cached, nil
		}
		return nil, fmt.Errorf("registry lookup for %d: %w", mmsi, err)
	}

	if result == nil {
		metrics.EnrichmentLookups.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}
	rec, err := breaker.CastResult[models.EnrichmentRecord](result, nil)
	if err != nil {
		metrics.EnrichmentLookups.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.EnrichmentLookups.WithLabelValues("fetched").Inc()
	if err := s.cache.PutRegistryRecord(ctx, rec); err != nil {
		logging.Warn().Err(err).Int64("mmsi", mmsi).Msg("Failed to cache registry record")
	}
	logging.Info().
		Int64("mmsi", mmsi).
		Str("name", rec.Name).
		Str("flag", rec.Flag).
		Str("type", rec.TypeName).
		Msg("Vessel registry data fetched")
	return rec, nil
}
