// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package geofence

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// Store supplies the inputs of a check. Satisfied by *database.DB.
type Store interface {
	RecentVessels(ctx context.Context, since time.Time) ([]models.VesselRecord, error)
	ActiveRules(ctx context.Context) ([]models.ActiveRule, error)
}

// Dispatcher turns an entry edge into an alert. Satisfied by *alerting.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, crossing models.Crossing) (*models.AlertEvent, error)
}

// Enricher looks up registry data for a vessel. Satisfied by *enrichment.Service.
type Enricher interface {
	Lookup(ctx context.Context, mmsi int64) (*models.EnrichmentRecord, error)
}

// CheckResult summarizes one check.
type CheckResult struct {
	VesselsChecked int `json:"vesselsChecked"`
	RulesChecked   int `json:"rulesChecked"`
	AlertsCreated  int `json:"alertsCreated"`
}

const (
	// enrichTimeout bounds one background enrichment lookup.
	enrichTimeout = 30 * time.Second
	// pairTimeout bounds the evaluation of one (vessel, geofence) pair once
	// a worker has taken it.
	pairTimeout = 30 * time.Second
)

// Engine evaluates geofence crossings.
type Engine struct {
	store      Store
	crossings  CrossingStore
	dispatcher Dispatcher
	enricher   Enricher

	window    time.Duration
	workers   int
	coldStart   string
	pairTimeout time.Duration
	now         func() time.Time

	// checkMu serializes checks.
	checkMu sync.Mutex
	// inflight tracks running checks and background enrichment.
	inflight sync.WaitGroup

	attemptedMu sync.Mutex
	attempted   map[int64]struct{}
}

// NewEngine creates an engine. enricher may be nil.
func NewEngine(cfg *config.GeofenceConfig, store Store, crossings CrossingStore, dispatcher Dispatcher, enricher Enricher) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	window := cfg.RecentWindow
	if window <= 0 {
		window = 2 * time.Minute
	}
	coldStart := cfg.ColdStart
	if coldStart == "" {
		coldStart = config.ColdStartAlert
	}

	return &Engine{
		store:      store,
		crossings:  crossings,
		dispatcher: dispatcher,
		enricher:   enricher,
		window:      window,
		workers:     workers,
		coldStart:   coldStart,
		pairTimeout: pairTimeout,
		now:         time.Now,
		attempted:   make(map[int64]struct{}),
	}
}

// fence is one compiled geofence with every active rule that targets it.
type fence struct {
	geofence models.Geofence
	region   *Region
	rules    []models.AlertRule
}

type pairJob struct {
	vessel models.VesselRecord
	fence  *fence
}

// Check evaluates every recent vessel against every active geofence.
//
// Canceling ctx stops handing out new pairs. Pairs already taken by a worker
// run to completion on a detached context so an entry edge is never recorded
// without its alert.
func (e *Engine) Check(ctx context.Context) (CheckResult, error) {
	e.inflight.Add(1)
	defer e.inflight.Done()

	e.checkMu.Lock()
	defer e.checkMu.Unlock()

	now := e.now().UTC()
	defer e.pruneCrossings(now)

	vessels, err := e.store.RecentVessels(ctx, now.Add(-e.window))
	if err != nil {
		return CheckResult{}, fmt.Errorf("load recent vessels: %w", err)
	}
	rules, err := e.store.ActiveRules(ctx)
	if err != nil {
		return CheckResult{}, fmt.Errorf("load active rules: %w", err)
	}

	result := CheckResult{VesselsChecked: len(vessels), RulesChecked: len(rules)}
	if len(vessels) == 0 || len(rules) == 0 {
		return result, nil
	}

	fences := compileFences(rules)

	jobs := make(chan pairJob)
	var alerts atomic.Int64
	var wg sync.WaitGroup

	workers := e.workers
	if n := len(vessels) * len(fences); n < workers {
		workers = n
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				alerts.Add(int64(e.evaluate(ctx, job, now)))
			}
		}()
	}

feed:
	for _, v := range vessels {
		for _, f := range fences {
			select {
			case jobs <- pairJob{vessel: v, fence: f}:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()

	result.AlertsCreated = int(alerts.Load())
	logging.Info().
		Int("vessels", result.VesselsChecked).
		Int("rules", result.RulesChecked).
		Int("alerts", result.AlertsCreated).
		Msg("Geofence check completed")

	return result, ctx.Err()
}

// compileFences groups rules by geofence and compiles each region once.
// Geofences with unusable regions are skipped.
func compileFences(rules []models.ActiveRule) []*fence {
	byID := make(map[string]*fence)
	var ordered []*fence

	for _, ar := range rules {
		f, ok := byID[ar.Geofence.ID]
		if !ok {
			region, err := CompileRegion(ar.Geofence.Region)
			if err != nil {
				logging.Warn().Err(err).
					Str("geofence_id", ar.Geofence.ID).
					Str("geofence", ar.Geofence.Name).
					Msg("Skipping geofence with invalid region")
				byID[ar.Geofence.ID] = nil
				continue
			}
			f = &fence{geofence: ar.Geofence, region: region}
			byID[ar.Geofence.ID] = f
			ordered = append(ordered, f)
		}
		if f == nil {
			continue
		}
		f.rules = append(f.rules, ar.Rule)
	}
	return ordered
}

// pruneCrossings drops expired pairs from stores that keep them in process.
func (e *Engine) pruneCrossings(now time.Time) {
	p, ok := e.crossings.(Pruner)
	if !ok {
		return
	}
	if removed := p.Prune(now); removed > 0 {
		logging.Debug().Int("removed", removed).Msg("Pruned expired crossing states")
	}
}

// evaluate handles one (vessel, geofence) pair and returns the alerts created.
func (e *Engine) evaluate(parent context.Context, job pairJob, now time.Time) int {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), e.pairTimeout)
	defer cancel()

	v := job.vessel
	key := CrossingKey{MMSI: v.MMSI, GeofenceID: job.fence.geofence.ID}

	inside := job.fence.region.Contains(v.Lat, v.Lng)

	prev, found, err := e.crossings.Get(ctx, key)
	if err != nil {
		// Leave state untouched so the next check sees the same transition.
		logging.Warn().Err(err).Str("key", key.String()).Msg("Crossing state unavailable, skipping pair")
		return 0
	}
	wasInside := found && prev.IsInside

	created := 0
	switch {
	case inside && !wasInside:
		if !found && e.coldStart == config.ColdStartSuppress {
			logging.Debug().Str("key", key.String()).Msg("Seeding crossing state without alert")
			break
		}
		metrics.GeofenceEdges.WithLabelValues("enter").Inc()
		logging.Info().
			Int64("mmsi", v.MMSI).
			Str("vessel", v.DisplayName()).
			Str("geofence", job.fence.geofence.Name).
			Msg("Vessel entering geofence")

		e.triggerEnrichment(ctx, v.MMSI)
		created = e.dispatch(ctx, v, job.fence, now)
		if created == 0 && ctx.Err() != nil {
			// Leave state untouched so the next check retries the entry.
			logging.Warn().Err(ctx.Err()).
				Str("key", key.String()).
				Msg("Alert dispatch timed out, crossing state not updated")
			return created
		}

	case !inside && wasInside:
		metrics.GeofenceEdges.WithLabelValues("exit").Inc()
		logging.Debug().
			Int64("mmsi", v.MMSI).
			Str("geofence", job.fence.geofence.Name).
			Msg("Vessel left geofence")
	}

	if err := e.crossings.Put(ctx, key, models.CrossingState{IsInside: inside, LastCheckedAt: now}); err != nil {
		logging.Error().Err(err).Str("key", key.String()).Msg("Failed to store crossing state")
	}
	return created
}

// dispatch creates one alert per rule attached to the geofence.
func (e *Engine) dispatch(ctx context.Context, v models.VesselRecord, f *fence, now time.Time) int {
	created := 0
	for _, rule := range f.rules {
		_, err := e.dispatcher.Dispatch(ctx, models.Crossing{
			Rule:       rule,
			Geofence:   f.geofence,
			Vessel:     v,
			OccurredAt: now,
		})
		if err != nil {
			logging.Error().Err(err).
				Int64("mmsi", v.MMSI).
				Str("rule_id", rule.ID).
				Msg("Failed to dispatch alert")
			continue
		}
		created++
	}
	return created
}

// triggerEnrichment starts at most one background lookup per vessel per process.
func (e *Engine) triggerEnrichment(ctx context.Context, mmsi int64) {
	if e.enricher == nil {
		return
	}

	e.attemptedMu.Lock()
	if _, done := e.attempted[mmsi]; done {
		e.attemptedMu.Unlock()
		return
	}
	e.attempted[mmsi] = struct{}{}
	e.attemptedMu.Unlock()

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()

		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enrichTimeout)
		defer cancel()

		if _, err := e.enricher.Lookup(lookupCtx, mmsi); err != nil {
			logging.Debug().Err(err).Int64("mmsi", mmsi).Msg("Vessel enrichment failed")
		}
	}()
}

// Wait blocks until running checks and background lookups finish.
func (e *Engine) Wait() {
	e.inflight.Wait()
}
