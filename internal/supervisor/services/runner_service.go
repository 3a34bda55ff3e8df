// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package services

import (
	"context"

	"github.com/thejerf/suture/v4"
)

// ContextRunner is implemented by every component that owns a loop:
// *ais.Ingestor, *positions.Flusher, *broadcast.Hub and *geofence.Scheduler.
// RunWithContext returns ctx.Err() on shutdown.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService wraps a ContextRunner as a supervised service.
type RunnerService struct {
	runner ContextRunner
	name   string
}

var _ suture.Service = (*RunnerService)(nil)

// NewRunnerService wraps runner under the given service name.
func NewRunnerService(name string, runner ContextRunner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// NewIngestorService wraps the AIS ingestor.
func NewIngestorService(ingestor ContextRunner) *RunnerService {
	return NewRunnerService("ais-ingestor", ingestor)
}

// NewFlusherService wraps the periodic position flusher.
func NewFlusherService(flusher ContextRunner) *RunnerService {
	return NewRunnerService("position-flusher", flusher)
}

// NewHubService wraps the live feed hub.
func NewHubService(hub ContextRunner) *RunnerService {
	return NewRunnerService("broadcast-hub", hub)
}

// NewSchedulerService wraps the geofence check scheduler.
func NewSchedulerService(scheduler ContextRunner) *RunnerService {
	return NewRunnerService("geofence-scheduler", scheduler)
}

// Serve implements suture.Service by delegating to RunWithContext.
func (r *RunnerService) Serve(ctx context.Context) error {
	return r.runner.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture log messages.
func (r *RunnerService) String() string {
	return r.name
}
