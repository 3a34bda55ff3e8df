// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/database"
	"github.com/tomtom215/seawatch/internal/enrichment"
	"github.com/tomtom215/seawatch/internal/geofence"
	"github.com/tomtom215/seawatch/internal/models"
)

const gulfRegion = `{"type":"Polygon","coordinates":[[[22,59],[30,59],[30,61],[22,61],[22,59]]]}`

func TestVessels(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{}, nil)
	env.store.vessels = []models.VesselRecord{
		{MMSI: 265517000, Name: "NORDIC STAR", Lat: 59, Lng: 18, LastSeen: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	env.store.extraVessels = 41

	t.Run("no bbox lists everything", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/vessels", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp VesselsResponse
		decodeBody(t, rec, &resp)
		if resp.Count != 1 || resp.Total != 42 || resp.Vessels[0].MMSI != 265517000 {
			t.Errorf("response = %+v", resp)
		}
		if env.store.lastBox != nil || env.store.lastLimit != database.MaxVesselListing {
			t.Errorf("store called with box %+v limit %d", env.store.lastBox, env.store.lastLimit)
		}
	})

	t.Run("bbox is minLng,minLat,maxLng,maxLat", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/vessels?bbox=10.5,53.5,30,66", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		want := models.BoundingBox{MinLat: 53.5, MaxLat: 66, MinLng: 10.5, MaxLng: 30}
		if env.store.lastBox == nil || *env.store.lastBox != want {
			t.Errorf("box = %+v, want %+v", env.store.lastBox, want)
		}
	})

	tests := []struct {
		name  string
		query string
	}{
		{"three values", "?bbox=1,2,3"},
		{"not numbers", "?bbox=a,b,c,d"},
		{"inverted", "?bbox=30,66,10.5,53.5"},
		{"limit too large", "?limit=501"},
		{"limit zero", "?limit=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/v1/vessels"+tt.query, "", nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if code := errorCode(t, rec); code != ErrCodeValidation {
				t.Errorf("code = %s", code)
			}
		})
	}
}

func TestVessels_StoreError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{}, nil)
	env.store.queryErr = errBoom

	rec := env.do(t, http.MethodGet, "/api/v1/vessels", "", nil)
	if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != ErrCodeDatabaseError {
		t.Errorf("status = %d body %s", rec.Code, rec.Body.String())
	}
}

func TestCheckGeofences(t *testing.T) {
	t.Parallel()

	t.Run("returns summary on GET and POST", func(t *testing.T) {
		env := newTestEnv(t, config.SecurityConfig{}, nil)
		env.checker.result = geofence.CheckResult{VesselsChecked: 12, RulesChecked: 1, AlertsCreated: 2}

		for _, method := range []string{http.MethodGet, http.MethodPost} {
			rec := env.do(t, method, "/api/v1/tasks/check-geofences", "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("%s status = %d", method, rec.Code)
			}
			var body map[string]int
			decodeBody(t, rec, &body)
			if body["vesselsChecked"] != 12 || body["rulesChecked"] != 1 || body["alertsCreated"] != 2 {
				t.Errorf("%s body = %s", method, rec.Body.String())
			}
		}
		if env.checker.calls != 2 {
			t.Errorf("checker called %d times, want 2", env.checker.calls)
		}
	})

	t.Run("bearer token enforced when configured", func(t *testing.T) {
		env := newTestEnv(t, config.SecurityConfig{TaskToken: "s3cret"}, nil)

		rec := env.do(t, http.MethodPost, "/api/v1/tasks/check-geofences", "", nil)
		if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != ErrCodeUnauthorized {
			t.Errorf("no token: status = %d", rec.Code)
		}
		rec = env.do(t, http.MethodPost, "/api/v1/tasks/check-geofences", "", map[string]string{"Authorization": "Bearer wrong"})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("wrong token: status = %d", rec.Code)
		}
		rec = env.do(t, http.MethodPost, "/api/v1/tasks/check-geofences", "", map[string]string{"Authorization": "Bearer s3cret"})
		if rec.Code != http.StatusOK {
			t.Errorf("valid token: status = %d", rec.Code)
		}
		if env.checker.calls != 1 {
			t.Errorf("checker called %d times, want 1", env.checker.calls)
		}
	})

	t.Run("check failure is a 500", func(t *testing.T) {
		env := newTestEnv(t, config.SecurityConfig{}, nil)
		env.checker.err = errBoom

		rec := env.do(t, http.MethodGet, "/api/v1/tasks/check-geofences", "", nil)
		if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != ErrCodeCheckFailed {
			t.Errorf("status = %d body %s", rec.Code, rec.Body.String())
		}
	})
}

func TestAlerts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{}, nil)
	env.store.rules = []models.ActiveRule{{
		Rule:     models.AlertRule{ID: "r1", Name: "Entering Gulf", GeofenceID: "g1", Active: true},
		Geofence: models.Geofence{ID: "g1", Name: "Gulf of Finland", Region: []byte(gulfRegion)},
	}}
	env.store.events = []models.AlertEvent{{ID: "e1", RuleID: "r1", MMSI: 265517000, EventType: models.EventTypeEnter}}

	rec := env.do(t, http.MethodGet, "/api/v1/alerts", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp AlertsResponse
	decodeBody(t, rec, &resp)
	if len(resp.Rules) != 1 || len(resp.Events) != 1 || resp.Events[0].ID != "e1" {
		t.Errorf("response = %+v", resp)
	}
	if env.store.lastLimit != database.MaxAlertListing {
		t.Errorf("events limit = %d, want %d", env.store.lastLimit, database.MaxAlertListing)
	}
}

func TestRules_IncludesInactive(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{}, nil)
	gulf := models.Geofence{ID: "g1", Name: "Gulf of Finland", Region: []byte(gulfRegion)}
	env.store.rules = []models.ActiveRule{
		{Rule: models.AlertRule{ID: "r1", GeofenceID: "g1", Active: true}, Geofence: gulf},
		{Rule: models.AlertRule{ID: "r2", GeofenceID: "g1", Active: false}, Geofence: gulf},
	}

	rec := env.do(t, http.MethodGet, "/api/v1/rules", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rules RulesResponse
	decodeBody(t, rec, &rules)
	if rules.Count != 2 {
		t.Errorf("rules count = %d, want 2", rules.Count)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/alerts", "", nil)
	var alerts AlertsResponse
	decodeBody(t, rec, &alerts)
	if len(alerts.Rules) != 1 || alerts.Rules[0].Rule.ID != "r1" {
		t.Errorf("alerts should list active rules only: %+v", alerts.Rules)
	}
}

func TestNotifications(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{}, nil)
	env.store.notifications = []models.NotificationRecord{{ID: "n1", Status: models.NotificationFailed}}

	rec := env.do(t, http.MethodGet, "/api/v1/notifications?status=failed", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp NotificationsResponse
	decodeBody(t, rec, &resp)
	if resp.Count != 1 || env.store.lastStatus != models.NotificationFailed {
		t.Errorf("response = %+v, status filter %q", resp, env.store.lastStatus)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/notifications?status=lost", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: code = %d", rec.Code)
	}
}

func TestVesselRegistry(t *testing.T) {
	t.Parallel()

	rec := &models.EnrichmentRecord{MMSI: 265517000, IMO: "9319466", Name: "NORDIC STAR", Source: enrichment.SourceMarineTraffic}

	t.Run("invalid mmsi", func(t *testing.T) {
		env := newTestEnv(t, config.SecurityConfig{}, nil)
		resp := env.do(t, http.MethodGet, "/api/v1/vessels/12345/registry", "", nil)
		if resp.Code != http.StatusBadRequest {
			t.Errorf("status = %d", resp.Code)
		}
	})

	t.Run("cache only without enricher", func(t *testing.T) {
		env := newTestEnv(t, config.SecurityConfig{}, nil)
		resp := env.do(t, http.MethodGet, "/api/v1/vessels/265517000/registry", "", nil)
		if resp.Code != http.StatusNotFound {
			t.Errorf("miss: status = %d", resp.Code)
		}

		env.store.registry[265517000] = rec
		resp = env.do(t, http.MethodGet, "/api/v1/vessels/265517000/registry", "", nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("hit: status = %d", resp.Code)
		}
		var got models.EnrichmentRecord
		decodeBody(t, resp, &got)
		if got.IMO != "9319466" {
			t.Errorf("record = %+v", got)
		}
	})

	tests := []struct {
		name     string
		enricher *fakeEnricher
		want     int
	}{
		{"found", &fakeEnricher{rec: rec}, http.StatusOK},
		{"not in registry", &fakeEnricher{err: enrichment.ErrNotFound}, http.StatusNotFound},
		{"upstream failure", &fakeEnricher{err: errBoom}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, config.SecurityConfig{}, func(d *HandlerDeps) { d.Enricher = tt.enricher })
			resp := env.do(t, http.MethodGet, "/api/v1/vessels/265517000/registry", "", nil)
			if resp.Code != tt.want {
				t.Errorf("status = %d, want %d", resp.Code, tt.want)
			}
		})
	}
}

func TestCreateGeofenceAndRule(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{}, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/geofences",
		`{"name":"Gulf of Finland","region_geojson":{"type":"Point","coordinates":[25,60]}}`, nil)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != ErrCodeValidation {
		t.Errorf("point region: status = %d body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/geofences", `{"name":"","region_geojson":`+gulfRegion+`}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/geofences", `{"name":"Gulf","extra":1}`, nil)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != ErrCodeBadRequest {
		t.Errorf("unknown field: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/geofences", `{"name":"Gulf of Finland","region_geojson":`+gulfRegion+`}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create geofence: status = %d body %s", rec.Code, rec.Body.String())
	}
	var g models.Geofence
	decodeBody(t, rec, &g)
	if g.ID != "gf-new" || g.Name != "Gulf of Finland" {
		t.Errorf("geofence = %+v", g)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/rules", `{"name":"Enter","owner":"ops","geofence_id":"missing"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("rule for unknown geofence: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/rules", `{"name":"Enter","owner":"ops","geofence_id":"gf-new"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create rule: status = %d body %s", rec.Code, rec.Body.String())
	}
	if len(env.store.created) != 1 || !env.store.created[0].Active {
		t.Errorf("rule should default to active: %+v", env.store.created)
	}

	rec = env.do(t, http.MethodPatch, "/api/v1/rules/rule-new", `{"is_active":false}`, nil)
	if rec.Code != http.StatusOK || env.store.ruleActive["rule-new"] {
		t.Errorf("deactivate: status = %d active %v", rec.Code, env.store.ruleActive["rule-new"])
	}

	rec = env.do(t, http.MethodPatch, "/api/v1/rules/nope", `{"is_active":true}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown rule: status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, "/api/v1/rules/rule-new", `{}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing is_active: status = %d", rec.Code)
	}
}

func TestWriteEndpointsRequireToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{TaskToken: "s3cret"}, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/geofences", `{"name":"Gulf","region_geojson":`+gulfRegion+`}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/alerts", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("reads stay open: status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.SecurityConfig{}, nil)

	if rec := env.do(t, http.MethodGet, "/health/live", "", nil); rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}
	var resp struct {
		Data ReadinessStatus `json:"data"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Data.Ready || resp.Data.AISStream != "streaming" {
		t.Errorf("readiness = %+v", resp.Data)
	}

	env.store.pingErr = errBoom
	rec = env.do(t, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with DB down = %d, want 503", rec.Code)
	}
}
