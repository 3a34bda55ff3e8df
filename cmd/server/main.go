// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/seawatch/internal/ais"
	"github.com/tomtom215/seawatch/internal/alerting"
	"github.com/tomtom215/seawatch/internal/api"
	"github.com/tomtom215/seawatch/internal/broadcast"
	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/database"
	"github.com/tomtom215/seawatch/internal/enrichment"
	"github.com/tomtom215/seawatch/internal/geofence"
	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/positions"
	"github.com/tomtom215/seawatch/internal/supervisor"
	"github.com/tomtom215/seawatch/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("ais_enabled", cfg.AIS.APIKey != "").
		Str("crossing_store", cfg.Crossing.Store).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Bool("enrichment_enabled", cfg.Enrichment.Enabled).
		Msg("Starting Seawatch with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live path: ingestor -> cache -> flusher, ingestor -> hub.
	cache := positions.NewCache()
	flusher := positions.NewFlusher(cache, db, cfg.Cache.FlushInterval, cfg.Cache.FlushTimeout)
	hub := broadcast.NewHub(cfg.Broadcast.SubscriberBuffer, cfg.Broadcast.HeartbeatInterval)
	ingestor := ais.NewIngestor(&cfg.AIS, cache, hub, flusher)
	if !ingestor.Configured() {
		logging.Warn().Msg("AISSTREAM_API_KEY is not set, live ingestion disabled")
	}

	crossings, err := geofence.OpenCrossingStore(ctx, &cfg.Crossing)
	if err != nil {
		logging.Fatal().Err(err).Str("store", cfg.Crossing.Store).Msg("Failed to open crossing state store")
	}
	defer func() {
		if err := crossings.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing crossing state store")
		}
	}()

	// Interfaces stay nil when a feature is off.
	var engineEnricher geofence.Enricher
	var apiEnricher api.Enricher
	if cfg.Enrichment.Enabled {
		svc := enrichment.NewService(&cfg.Enrichment, db)
		engineEnricher, apiEnricher = svc, svc
		logging.Info().Dur("cache_ttl", cfg.Enrichment.CacheTTL).Msg("Registry enrichment enabled")
	}

	bus, err := initEventBus(&cfg.NATS)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	var alertEvents alerting.EventPublisher
	if bus != nil {
		alertEvents = bus.publisher
	}

	transport := alerting.NewTransport(&cfg.Notification)
	if cfg.Notification.Recipient == "" {
		logging.Warn().Msg("ALERT_RECIPIENT is not set, SMS notifications disabled")
	}
	dispatcher := alerting.NewDispatcher(alerting.DispatcherConfig{
		Store:       db,
		Feed:        hub,
		Events:      alertEvents,
		Transport:   transport,
		Eligibility: alerting.CommercialTraffic(cfg.Notification.CommercialKeywords),
		Recipient:   cfg.Notification.Recipient,
		Cooldown:    cfg.Notification.Cooldown,
	})

	engine := geofence.NewEngine(&cfg.Geofence, db, crossings, dispatcher, engineEnricher)
	scheduler := geofence.NewScheduler(engine, cfg.Geofence.CheckInterval)

	handler := api.NewHandler(api.HandlerDeps{
		Store:          db,
		Hub:            hub,
		Checker:        engine,
		Enricher:       apiEnricher,
		Ingestor:       ingestor,
		AllowedOrigins: cfg.Security.CORSOrigins,
	})
	router := api.NewRouter(handler, &cfg.Security)

	if cfg.Security.TaskToken == "" {
		logging.Warn().Msg("TASK_TOKEN is not set, the check trigger and write endpoints are open")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	// No WriteTimeout: the live feed holds responses open and sets
	// per-write deadlines instead.
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Ingest layer
	tree.AddIngestService(services.NewIngestorService(ingestor))
	tree.AddIngestService(services.NewFlusherService(flusher))

	// Messaging layer
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddMessagingService(services.NewSchedulerService(scheduler))
	if bus != nil {
		tree.AddMessagingService(services.NewEventBusService(bus.publisher, bus.serverOrNil()))
		logging.Info().Str("topic", bus.publisher.Topic()).Msg("Event bus added to supervisor tree")
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// Checks started over HTTP outlive their request; let them finish
	// before the stores close.
	engine.Wait()

	// The ingestor and flusher stop concurrently, so positions accepted
	// after the flusher's own final pass are written here.
	flushCtx, flushCancel := context.WithTimeout(context.Background(), cfg.Cache.FlushTimeout)
	if err := flusher.Flush(flushCtx); err != nil {
		logging.Error().Err(err).Msg("Final position flush failed")
	}
	flushCancel()

	logging.Info().Msg("Application stopped gracefully")
}
