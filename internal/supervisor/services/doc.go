// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package services provides suture.Service wrappers for Seawatch components.

Each wrapper translates a component lifecycle into suture's Serve pattern
and names the service for supervisor log messages.

# Available Services

RunnerService wraps any component with RunWithContext(ctx) error:

	tree.AddIngestService(services.NewIngestorService(ingestor))
	tree.AddIngestService(services.NewFlusherService(flusher))
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddMessagingService(services.NewSchedulerService(scheduler))

HTTPServerService wraps *http.Server with graceful shutdown:

	srv := &http.Server{Addr: ":8080", Handler: router}
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, 10*time.Second))

EventBusService owns the NATS publisher and the optional embedded server,
closing them in order on shutdown:

	tree.AddMessagingService(services.NewEventBusService(publisher, embedded))
*/
package services
