// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/seawatch/internal/config"
)

func twilioConfig(baseURL string) *config.TwilioConfig {
	return &config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+15550001111",
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
	}
}

func TestTwilioTransport_Send(t *testing.T) {
	t.Parallel()

	var gotPath, gotTo, gotFrom, gotBody, gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	t.Cleanup(srv.Close)

	tr := NewTwilioTransport(twilioConfig(srv.URL+"/"), 0)
	if err := tr.Send(context.Background(), "+46700000000", "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUser != "AC123" || gotPass != "secret" {
		t.Errorf("basic auth = %q/%q", gotUser, gotPass)
	}
	if gotTo != "+46700000000" || gotFrom != "+15550001111" || gotBody != "hello" {
		t.Errorf("form = To %q From %q Body %q", gotTo, gotFrom, gotBody)
	}
}

func TestTwilioTransport_ErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
	}))
	t.Cleanup(srv.Close)

	tr := NewTwilioTransport(twilioConfig(srv.URL), 0)
	err := tr.Send(context.Background(), "bogus", "hello")
	if err == nil {
		t.Fatal("Send() expected error")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "21211") {
		t.Errorf("error = %v, want status and code", err)
	}
}

func TestTwilioTransport_RateLimiterHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	tr := NewTwilioTransport(twilioConfig(srv.URL), time.Hour)
	if err := tr.Send(context.Background(), "+46700000000", "first"); err != nil {
		t.Fatalf("first Send() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := tr.Send(ctx, "+46700000000", "second"); err == nil {
		t.Error("second Send() inside the pacing interval should fail on context")
	}
}

func TestNewTransport(t *testing.T) {
	t.Parallel()

	cfg := &config.NotificationConfig{}
	if NewTransport(cfg).Name() != "log" {
		t.Error("unconfigured Twilio should select the log transport")
	}

	cfg.Twilio = *twilioConfig("https://api.twilio.com")
	if NewTransport(cfg).Name() != "twilio" {
		t.Error("complete Twilio credentials should select the twilio transport")
	}

	if err := NewLogTransport().Send(context.Background(), "+4670", "msg"); err != nil {
		t.Errorf("log transport Send() error = %v", err)
	}
}
