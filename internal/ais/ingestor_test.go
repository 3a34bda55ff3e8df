// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package ais

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/seawatch/internal/models"
)

type recordingSink struct {
	mu        sync.Mutex
	positions []models.Position
}

func (s *recordingSink) Put(pos models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append(s.positions, pos)
}

func (s *recordingSink) snapshot() []models.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Position(nil), s.positions...)
}

type recordingFeed struct {
	count atomic.Int32
}

func (f *recordingFeed) PublishPosition(models.Position) {
	f.count.Add(1)
}

type countingFlusher struct {
	calls atomic.Int32
}

func (f *countingFlusher) Flush(context.Context) error {
	f.calls.Add(1)
	return nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

// newUpstream serves one scripted session per connection and records subscriptions.
func newUpstream(t *testing.T, frames []string) (*httptest.Server, <-chan Subscription) {
	t.Helper()

	subs := make(chan Subscription, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub Subscription
		if err := json.Unmarshal(data, &sub); err == nil {
			subs <- sub
		}

		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	}))
	t.Cleanup(srv.Close)

	return srv, subs
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestIngestor_StreamsFiltersAndReconnects(t *testing.T) {
	outside := `{"MessageType":"PositionReport","Message":{"PositionReport":{"Latitude":50.0,"Longitude":5.0}},"MetaData":{"MMSI":244000001,"time_utc":"2026-05-01T12:00:00Z"}}`
	static := `{"MessageType":"ShipStaticData","Message":{"ShipStaticData":{}},"MetaData":{"MMSI":265517000}}`

	srv, subs := newUpstream(t, []string{outside, "garbage", static, balticFrame})

	cfg := balticConfig()
	cfg.URL = wsURL(srv)
	cfg.ReconnectDelay = 20 * time.Millisecond
	cfg.HandshakeTimeout = time.Second
	cfg.ReadTimeout = time.Second

	sink := &recordingSink{}
	feed := &recordingFeed{}
	flusher := &countingFlusher{}
	ing := NewIngestor(cfg, sink, feed, flusher)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- ing.RunWithContext(ctx) }()

	// Two sessions prove the reconnect loop; each session flushes on disconnect.
	waitFor(t, 5*time.Second, func() bool { return flusher.calls.Load() >= 2 })
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ingestor did not stop")
	}

	sub := <-subs
	if sub.APIKey != "test-key" {
		t.Errorf("subscription APIKey = %q", sub.APIKey)
	}
	if len(sub.BoundingBoxes) != 1 || sub.BoundingBoxes[0][0] != [2]float64{10.5, 53.5} {
		t.Errorf("subscription box = %v", sub.BoundingBoxes)
	}

	got := sink.snapshot()
	if len(got) < 2 {
		t.Fatalf("expected the Baltic position once per session, got %d", len(got))
	}
	for _, p := range got {
		if p.MMSI != 265517000 {
			t.Errorf("unexpected position accepted: %+v", p)
		}
	}
	if int(feed.count.Load()) != len(got) {
		t.Errorf("feed got %d positions, sink got %d", feed.count.Load(), len(got))
	}
	if ing.State() != StateDisconnected {
		t.Errorf("State() = %v after shutdown, want disconnected", ing.State())
	}
}

func TestIngestor_NoAPIKeyIsNoop(t *testing.T) {
	t.Parallel()

	cfg := balticConfig()
	cfg.APIKey = ""
	cfg.URL = "ws://127.0.0.1:1"
	flusher := &countingFlusher{}
	ing := NewIngestor(cfg, &recordingSink{}, nil, flusher)

	if ing.Configured() {
		t.Fatal("Configured() = true without API key")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := ing.RunWithContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("RunWithContext() = %v, want deadline exceeded", err)
	}
	if flusher.calls.Load() != 0 {
		t.Error("no-op ingestor should never flush")
	}
}

func TestIngestor_DialFailureDoesNotFlush(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	cfg := balticConfig()
	cfg.URL = wsURL(srv)
	cfg.ReconnectDelay = 10 * time.Millisecond
	cfg.HandshakeTimeout = time.Second
	flusher := &countingFlusher{}
	ing := NewIngestor(cfg, &recordingSink{}, nil, flusher)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = ing.RunWithContext(ctx)

	if flusher.calls.Load() != 0 {
		t.Errorf("flush called %d times without a subscribed session", flusher.calls.Load())
	}
}

func TestIngestor_HandleFrame(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	feed := &recordingFeed{}
	ing := NewIngestor(balticConfig(), sink, feed, nil)

	north := `{"MessageType":"PositionReport","Message":{"PositionReport":{"Latitude":50.0,"Longitude":5.0}},"MetaData":{"MMSI":265517000}}`
	ing.handleFrame([]byte(north))
	if len(sink.snapshot()) != 0 || feed.count.Load() != 0 {
		t.Fatal("position at 50.0,5.0 must not reach cache or feed")
	}

	ing.handleFrame([]byte(balticFrame))
	if len(sink.snapshot()) != 1 || feed.count.Load() != 1 {
		t.Fatal("position at 59.0,18.0 must reach cache and feed")
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	want := map[State]string{
		StateDisconnected: "disconnected",
		StateConnecting:   "connecting",
		StateSubscribed:   "subscribed",
		StateStreaming:    "streaming",
	}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), name)
		}
	}
}
