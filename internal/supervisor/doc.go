// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package supervisor provides process supervision for Seawatch using suture v4.

Every long-running component is a suture.Service placed in one of three
layers so a failing upstream cannot take the API down with it:

	RootSupervisor ("seawatch")
	├── IngestSupervisor ("ingest-layer")
	│   ├── IngestorService ("ais-ingestor")
	│   └── FlusherService ("position-flusher")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── HubService ("broadcast-hub")
	│   ├── SchedulerService ("geofence-scheduler")
	│   └── EventBusService ("event-bus", if NATS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService ("http-server")

The AIS ingestor already reconnects on its own after five seconds; the
supervisor only restarts it when RunWithContext returns something other than
a context error.

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog using the slog adapter from the logging package.

# Service Interface

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return an error: service crashed, will be restarted
  - Return suture.ErrDoNotRestart: service is finished for good
  - Context canceled: shutdown requested, return promptly

DuckDB is not supervised. It is an embedded library whose connection pool
lives in the database package.

# See Also

  - internal/supervisor/services: Service wrappers
  - github.com/thejerf/suture/v4: Underlying library
*/
package supervisor
