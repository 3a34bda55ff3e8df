// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

//go:build integration

package events

import (
	"context"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/seawatch/internal/config"
)

func TestEmbeddedServer_PublishRoundTrip(t *testing.T) {
	srv, err := NewEmbeddedServer(EmbeddedOptions{StoreDir: t.TempDir(), MaxMemory: 64 << 20, MaxStore: 256 << 20})
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	if !srv.IsRunning() {
		t.Fatal("embedded server not running")
	}

	nc, err := natsgo.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(nc.Close)

	received := make(chan *natsgo.Msg, 1)
	sub, err := nc.ChanSubscribe(DefaultTopic, received)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	t.Cleanup(func() { _ = sub.Unsubscribe() })

	pub, err := NewNATSPublisher(&config.NATSConfig{Topic: DefaultTopic, MaxReconnects: 5, ReconnectWait: time.Second}, srv.ClientURL())
	if err != nil {
		t.Fatalf("NewNATSPublisher() error = %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })

	alert := testAlert()
	if err := pub.PublishAlert(context.Background(), alert); err != nil {
		t.Fatalf("PublishAlert() error = %v", err)
	}

	select {
	case msg := <-received:
		if msg.Header.Get(natsgo.MsgIdHdr) != alert.ID {
			t.Errorf("Nats-Msg-Id = %q, want %q", msg.Header.Get(natsgo.MsgIdHdr), alert.ID)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("alert not delivered")
	}
}
