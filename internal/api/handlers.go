// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/seawatch/internal/ais"
	"github.com/tomtom215/seawatch/internal/broadcast"
	"github.com/tomtom215/seawatch/internal/geofence"
	"github.com/tomtom215/seawatch/internal/models"
)

// Store is the durable store used by the handlers. Satisfied by *database.DB.
type Store interface {
	Ping(ctx context.Context) error
	ListVessels(ctx context.Context, box *models.BoundingBox, limit int) ([]models.VesselRecord, error)
	CountVessels(ctx context.Context) (int64, error)
	ActiveRules(ctx context.Context) ([]models.ActiveRule, error)
	ListRules(ctx context.Context) ([]models.ActiveRule, error)
	ListAlertEvents(ctx context.Context, limit int) ([]models.AlertEvent, error)
	ListNotifications(ctx context.Context, status models.NotificationStatus, limit int) ([]models.NotificationRecord, error)
	GetRegistryRecord(ctx context.Context, mmsi int64) (*models.EnrichmentRecord, error)
	CreateGeofence(ctx context.Context, g *models.Geofence) error
	GetGeofence(ctx context.Context, id string) (*models.Geofence, error)
	CreateRule(ctx context.Context, r *models.AlertRule) error
	SetRuleActive(ctx context.Context, id string, active bool) error
}

// Enricher looks up registry data. Satisfied by *enrichment.Service.
type Enricher interface {
	Lookup(ctx context.Context, mmsi int64) (*models.EnrichmentRecord, error)
}

// IngestorStatus reports the upstream connection. Satisfied by *ais.Ingestor.
type IngestorStatus interface {
	State() ais.State
	Configured() bool
}

// HandlerDeps wires a Handler. Enricher and Ingestor may be nil.
type HandlerDeps struct {
	Store    Store
	Hub      *broadcast.Hub
	Checker  geofence.Checker
	Enricher Enricher
	Ingestor IngestorStatus

	// AllowedOrigins are accepted on WebSocket upgrades in addition to
	// same-host requests. "*" accepts any origin.
	AllowedOrigins []string
}

// Handler serves the API endpoints.
type Handler struct {
	store     Store
	hub       *broadcast.Hub
	checker   geofence.Checker
	enricher  Enricher
	ingestor  IngestorStatus
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		store:     deps.Store,
		hub:       deps.Hub,
		checker:   deps.Checker,
		enricher:  deps.Enricher,
		ingestor:  deps.Ingestor,
		upgrader:  newUpgrader(deps.AllowedOrigins),
		startTime: time.Now(),
	}
}
