// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

// Package metrics holds the Prometheus collectors for Seawatch. Collectors are
// registered with the default registry through promauto and served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AIS Stream Metrics
	AISConnectionState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ais_connection_state",
			Help: "Upstream AIS connection state (0=disconnected, 1=connecting, 2=subscribed, 3=streaming)",
		},
	)

	AISReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ais_reconnects_total",
			Help: "Total number of upstream AIS reconnect attempts",
		},
	)

	AISFramesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ais_frames_received_total",
			Help: "Total number of frames read from the upstream AIS stream",
		},
	)

	AISFramesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ais_frames_rejected_total",
			Help: "Total number of AIS frames rejected before caching",
		},
		[]string{"reason"}, // "not_position", "invalid", "out_of_region"
	)

	AISPositionsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ais_positions_accepted_total",
			Help: "Total number of positions accepted into the cache",
		},
	)

	// Position Cache Metrics
	PositionCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "position_cache_size",
			Help: "Number of vessels waiting in the position cache",
		},
	)

	PositionFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "position_flush_duration_seconds",
			Help:    "Duration of position cache flushes in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PositionFlushRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "position_flush_rows_total",
			Help: "Total number of positions handed to the store",
		},
		[]string{"result"}, // "success", "error"
	)

	// Live Feed Metrics
	BroadcastSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcast_subscribers",
			Help: "Current number of live feed subscribers",
		},
	)

	BroadcastMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Total number of live feed messages published",
		},
		[]string{"type"},
	)

	BroadcastDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_subscribers_dropped_total",
			Help: "Total number of subscribers removed for falling behind",
		},
	)

	// Geofence Metrics
	GeofenceCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geofence_check_duration_seconds",
			Help:    "Duration of geofence checks in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	GeofenceChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofence_checks_total",
			Help: "Total number of geofence checks",
		},
		[]string{"trigger", "result"}, // trigger: "scheduler", "http"
	)

	GeofenceEdges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geofence_edges_total",
			Help: "Total number of geofence state transitions observed",
		},
		[]string{"edge"}, // "enter", "exit"
	)

	// Alerting Metrics
	AlertsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Total number of alert events persisted",
		},
	)

	AlertPersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_persist_errors_total",
			Help: "Total number of alert events that failed to persist",
		},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Total number of notification outcomes",
		},
		[]string{"status"}, // "sent", "failed", "deduplicated", "ineligible"
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_events_published_total",
			Help: "Total number of alert events published to the event bus",
		},
		[]string{"result"},
	)

	// Enrichment Metrics
	EnrichmentLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_lookups_total",
			Help: "Total number of vessel registry lookups",
		},
		[]string{"result"}, // "cache_hit", "fetched", "not_found", "error"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordFlush records the outcome of one position cache flush
func RecordFlush(duration time.Duration, rows int, err error) {
	PositionFlushDuration.Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	PositionFlushRows.WithLabelValues(result).Add(float64(rows))
}

// RecordGeofenceCheck records the outcome of one geofence check
func RecordGeofenceCheck(trigger string, duration time.Duration, err error) {
	GeofenceCheckDuration.Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	GeofenceChecks.WithLabelValues(trigger, result).Inc()
}
