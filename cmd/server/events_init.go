// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/events"
	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/supervisor/services"
)

// eventBus holds the alert event bus components.
// server is nil when an external NATS server is used.
type eventBus struct {
	publisher *events.Publisher
	server    *events.EmbeddedServer
}

// serverOrNil avoids handing the supervisor a typed nil.
func (b *eventBus) serverOrNil() services.EventBusServer {
	if b.server == nil {
		return nil
	}
	return b.server
}

// initEventBus starts the embedded NATS server when configured and connects
// the alert publisher. It returns nil when NATS is disabled.
func initEventBus(cfg *config.NATSConfig) (*eventBus, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Alert event bus disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	bus := &eventBus{}
	url := cfg.URL

	if cfg.EmbeddedServer {
		srv, err := events.NewEmbeddedServer(events.EmbeddedOptions{
			Listen:    cfg.URL,
			StoreDir:  cfg.StoreDir,
			MaxMemory: cfg.MaxMemory,
			MaxStore:  cfg.MaxStore,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		bus.server = srv
		url = srv.ClientURL()
		logging.Info().Str("url", url).Msg("Embedded NATS server started")
	} else {
		logging.Info().Str("url", url).Msg("Using external NATS server")
	}

	pub, err := events.NewNATSPublisher(cfg, url)
	if err != nil {
		if bus.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if shutdownErr := bus.server.Shutdown(ctx); shutdownErr != nil {
				logging.Error().Err(shutdownErr).Msg("Error shutting down embedded NATS server")
			}
		}
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}
	bus.publisher = pub

	logging.Info().Str("topic", pub.Topic()).Msg("Alert event publisher connected")
	return bus, nil
}
