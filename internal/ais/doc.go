// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

/*
Package ais consumes the aisstream.io WebSocket feed.

The Ingestor owns one upstream connection at a time. It moves through
Disconnected, Connecting, Subscribed and Streaming; any failure returns it to
Disconnected, at which point buffered positions are flushed and the connection
is retried after a fixed delay. There is no backoff and no retry cap.

Each frame is decoded by ParsePosition and checked against the configured
RegionFilter before the position is handed to the cache and the live feed.
Frames that are not position reports, fail validation, or fall outside the
region are counted and dropped.

Wire format of an accepted frame:

	{
	  "MessageType": "PositionReport",
	  "Message": {"PositionReport": {"Latitude": 59.0, "Longitude": 18.0, "Sog": 12.1, "Cog": 87.5}},
	  "MetaData": {"MMSI": 265517000, "ShipName": "ATLANTIC  ", "ShipType": 70, "time_utc": "..."}
	}
*/
package ais
