// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seawatch/internal/ais"
	"github.com/tomtom215/seawatch/internal/broadcast"
	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/database"
	"github.com/tomtom215/seawatch/internal/enrichment"
	"github.com/tomtom215/seawatch/internal/geofence"
	"github.com/tomtom215/seawatch/internal/models"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu sync.Mutex

	pingErr  error
	queryErr error

	vessels       []models.VesselRecord
	extraVessels  int64
	rules         []models.ActiveRule
	events        []models.AlertEvent
	notifications []models.NotificationRecord
	registry      map[int64]*models.EnrichmentRecord
	geofences     map[string]*models.Geofence
	created       []*models.AlertRule
	ruleActive    map[string]bool

	lastBox    *models.BoundingBox
	lastLimit  int
	lastStatus models.NotificationStatus
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		registry:   make(map[int64]*models.EnrichmentRecord),
		geofences:  make(map[string]*models.Geofence),
		ruleActive: make(map[string]bool),
	}
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) ListVessels(_ context.Context, box *models.BoundingBox, limit int) ([]models.VesselRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBox, s.lastLimit = box, limit
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.vessels, nil
}

func (s *fakeStore) CountVessels(context.Context) (int64, error) {
	return int64(len(s.vessels)) + s.extraVessels, s.queryErr
}

func (s *fakeStore) ActiveRules(context.Context) ([]models.ActiveRule, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var active []models.ActiveRule
	for _, r := range s.rules {
		if r.Rule.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

func (s *fakeStore) ListRules(context.Context) ([]models.ActiveRule, error) {
	return s.rules, s.queryErr
}

func (s *fakeStore) ListAlertEvents(_ context.Context, limit int) ([]models.AlertEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	return s.events, s.queryErr
}

func (s *fakeStore) ListNotifications(_ context.Context, status models.NotificationStatus, limit int) ([]models.NotificationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStatus, s.lastLimit = status, limit
	return s.notifications, s.queryErr
}

func (s *fakeStore) GetRegistryRecord(_ context.Context, mmsi int64) (*models.EnrichmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry[mmsi], s.queryErr
}

func (s *fakeStore) CreateGeofence(_ context.Context, g *models.Geofence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = "gf-new"
	}
	s.geofences[g.ID] = g
	return nil
}

func (s *fakeStore) GetGeofence(_ context.Context, id string) (*models.Geofence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geofences[id], nil
}

func (s *fakeStore) CreateRule(_ context.Context, r *models.AlertRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = "rule-new"
	}
	s.created = append(s.created, r)
	s.ruleActive[r.ID] = r.Active
	return nil
}

func (s *fakeStore) SetRuleActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ruleActive[id]; !ok {
		return database.ErrNotFound
	}
	s.ruleActive[id] = active
	return nil
}

type fakeChecker struct {
	result geofence.CheckResult
	err    error
	calls  int
}

func (c *fakeChecker) Check(context.Context) (geofence.CheckResult, error) {
	c.calls++
	return c.result, c.err
}

type fakeEnricher struct {
	rec *models.EnrichmentRecord
	err error
}

func (e *fakeEnricher) Lookup(context.Context, int64) (*models.EnrichmentRecord, error) {
	return e.rec, e.err
}

type fakeIngestor struct {
	state ais.State
}

func (f fakeIngestor) State() ais.State { return f.state }
func (f fakeIngestor) Configured() bool { return true }

var (
	_ Store          = (*database.DB)(nil)
	_ Enricher       = (*enrichment.Service)(nil)
	_ IngestorStatus = (*ais.Ingestor)(nil)
)

// testEnv bundles a router with its fakes.
type testEnv struct {
	store   *fakeStore
	checker *fakeChecker
	hub     *broadcast.Hub
	handler http.Handler
}

func newTestEnv(t *testing.T, security config.SecurityConfig, mutate func(*HandlerDeps)) *testEnv {
	t.Helper()

	env := &testEnv{
		store:   newFakeStore(),
		checker: &fakeChecker{},
		hub:     broadcast.NewHub(16, time.Minute),
	}
	deps := HandlerDeps{
		Store:          env.store,
		Hub:            env.hub,
		Checker:        env.checker,
		Ingestor:       fakeIngestor{state: ais.StateStreaming},
		AllowedOrigins: security.CORSOrigins,
	}
	if mutate != nil {
		mutate(&deps)
	}
	env.handler = NewRouter(NewHandler(deps), &security).SetupChi()
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.APIResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "error" || resp.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return resp.Error.Code
}

var errBoom = errors.New("boom")
