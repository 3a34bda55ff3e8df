// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package main is the entry point for the Seawatch server.

Seawatch ingests a live AIS position stream for one region, keeps the latest
position of every vessel, fans positions out to browsers over SSE and
WebSocket, and raises alerts when vessels enter configured geofences.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("seawatch")
	├── IngestSupervisor ("ingest-layer")
	│   ├── AIS ingestor (aisstream.io WebSocket)
	│   └── Position flusher (cache to DuckDB)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Broadcast hub heartbeat
	│   ├── Geofence scheduler (optional)
	│   └── Event bus (optional, NATS JetStream)
	└── APISupervisor ("api-layer")
	    └── HTTP server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB, optionally seeded with the default geofence
 4. Position cache, flusher and broadcast hub
 5. Crossing state store: memory, BadgerDB or Redis
 6. Registry enrichment (optional)
 7. Event bus: embedded or external NATS (optional)
 8. Alert dispatcher and geofence engine
 9. Supervisor tree and HTTP server

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server and the ingestor, the flusher writes the final batch, running
geofence checks are awaited and the database is closed.

# Example Usage

	export AISSTREAM_API_KEY=your-aisstream-key
	export DUCKDB_PATH=/data/seawatch.duckdb
	export SEED_DEFAULTS=true
	./seawatch
*/
package main
