// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package geofence

import (
	"context"
	"time"

	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/metrics"
)

// Checker runs one geofence check. Satisfied by *Engine.
type Checker interface {
	Check(ctx context.Context) (CheckResult, error)
}

// Scheduler runs checks on a fixed interval.
type Scheduler struct {
	checker  Checker
	interval time.Duration
}

// NewScheduler creates a scheduler.
func NewScheduler(checker Checker, interval time.Duration) *Scheduler {
	return &Scheduler{checker: checker, interval: interval}
}

// RunWithContext checks on every tick until ctx is canceled.
// A zero interval disables the scheduler and it just waits for shutdown.
func (s *Scheduler) RunWithContext(ctx context.Context) error {
	if s.interval <= 0 {
		logging.Info().Msg("Geofence scheduler disabled, checks run on HTTP trigger only")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			RunCheck(ctx, s.checker, "scheduler")
		}
	}
}

// RunCheck runs one check and records its metrics under trigger.
func RunCheck(ctx context.Context, checker Checker, trigger string) (CheckResult, error) {
	start := time.Now()
	result, err := checker.Check(ctx)
	metrics.RecordGeofenceCheck(trigger, time.Since(start), err)
	if err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Str("trigger", trigger).Msg("Geofence check failed")
	}
	return result, err
}
