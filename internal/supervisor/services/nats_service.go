// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package services

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/seawatch/internal/logging"
)

// EventBusServer is the lifecycle subset of *events.EmbeddedServer.
type EventBusServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// EventBusPublisher is the lifecycle subset of *events.Publisher.
type EventBusPublisher interface {
	Close() error
}

// EventBusService owns the alert event bus for the lifetime of the process.
//
// Both the publisher and the embedded server (when present) are created
// before the tree starts, because the dispatcher needs the publisher at
// construction. This service only watches the embedded server and tears both
// down in order on shutdown: publisher first, then server.
//
// An embedded server that dies cannot be revived by a restart, so the
// service reports suture.ErrDoNotRestart. Alerts keep flowing to the live
// feed and SMS; only event bus publishing degrades.
type EventBusService struct {
	publisher       EventBusPublisher
	server          EventBusServer
	healthInterval  time.Duration
	shutdownTimeout time.Duration
	name            string
}

var _ suture.Service = (*EventBusService)(nil)

// NewEventBusService creates the service. server may be nil when an
// external NATS server is used.
func NewEventBusService(publisher EventBusPublisher, server EventBusServer) *EventBusService {
	return &EventBusService{
		publisher:       publisher,
		server:          server,
		healthInterval:  5 * time.Second,
		shutdownTimeout: 10 * time.Second,
		name:            "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	var health <-chan time.Time
	if s.server != nil {
		ticker := time.NewTicker(s.healthInterval)
		defer ticker.Stop()
		health = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		case <-health:
			if !s.server.IsRunning() {
				logging.Error().Msg("Embedded NATS server stopped unexpectedly, alert events disabled")
				s.shutdown()
				return suture.ErrDoNotRestart
			}
		}
	}
}

func (s *EventBusService) shutdown() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close event publisher")
		}
	}
	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("Embedded NATS server did not stop cleanly")
	}
}

// String implements fmt.Stringer for suture log messages.
func (s *EventBusService) String() string {
	return s.name
}
