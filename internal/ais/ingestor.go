// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package ais

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// State is the upstream connection state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateStreaming
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateStreaming:
		return "streaming"
	default:
		return "disconnected"
	}
}

// PositionSink receives accepted positions. Satisfied by *positions.Cache.
type PositionSink interface {
	Put(pos models.Position)
}

// PositionPublisher fans accepted positions out to live subscribers.
// Satisfied by *broadcast.Hub.
type PositionPublisher interface {
	PublishPosition(pos models.Position)
}

// Flusher persists whatever the cache holds. Satisfied by *positions.Flusher.
type Flusher interface {
	Flush(ctx context.Context) error
}

// frameBuffer bounds the frames queued between the reader and the owning loop.
const frameBuffer = 256

// Ingestor maintains the upstream AIS connection.
type Ingestor struct {
	cfg     config.AISConfig
	filter  *RegionFilter
	sink    PositionSink
	feed    PositionPublisher
	flusher Flusher

	flushTimeout time.Duration
	dialer       *websocket.Dialer
	state        atomic.Int32
}

// NewIngestor creates an ingestor. feed and flusher may be nil.
func NewIngestor(cfg *config.AISConfig, sink PositionSink, feed PositionPublisher, flusher Flusher) *Ingestor {
	return &Ingestor{
		cfg:          *cfg,
		filter:       NewRegionFilter(RegionFromConfig(cfg)),
		sink:         sink,
		feed:         feed,
		flusher:      flusher,
		flushTimeout: 30 * time.Second,
		dialer: &websocket.Dialer{
			HandshakeTimeout:  cfg.HandshakeTimeout,
			EnableCompression: true,
		},
	}
}

// SetFlushTimeout bounds the flush performed after a disconnect.
func (i *Ingestor) SetFlushTimeout(d time.Duration) {
	if d > 0 {
		i.flushTimeout = d
	}
}

// State returns the current connection state.
func (i *Ingestor) State() State {
	return State(i.state.Load())
}

// Configured reports whether a feed credential is present.
func (i *Ingestor) Configured() bool {
	return i.cfg.APIKey != ""
}

func (i *Ingestor) setState(s State) {
	i.state.Store(int32(s))
	metrics.AISConnectionState.Set(float64(s))
}

// RunWithContext connects, streams and reconnects until ctx is canceled.
// Without an API key it logs once and blocks until cancellation.
// Returns ctx.Err() on shutdown.
func (i *Ingestor) RunWithContext(ctx context.Context) error {
	if !i.Configured() {
		logging.Warn().Msg("AISSTREAM_API_KEY not set, AIS ingestor disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		reached, err := i.session(ctx)
		i.setState(StateDisconnected)

		if reached {
			i.flushAfterDisconnect(ctx)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		logging.Warn().Err(err).Dur("delay", i.cfg.ReconnectDelay).Msg("AIS stream disconnected, reconnecting")
		metrics.AISReconnects.Inc()

		select {
		case <-time.After(i.cfg.ReconnectDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// session runs one connection. reached is true once the subscription was sent.
func (i *Ingestor) session(ctx context.Context) (reached bool, err error) {
	i.setState(StateConnecting)
	logging.Info().Str("url", i.cfg.URL).Msg("Connecting to AIS stream")

	conn, resp, err := i.dialer.DialContext(ctx, i.cfg.URL, nil)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close AIS connection")
		}
	}()

	sub := NewSubscription(i.cfg.APIKey, i.filter.Box(), i.cfg.MessageTypes)
	payload, err := sub.Encode()
	if err != nil {
		return false, fmt.Errorf("encode subscription: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return false, fmt.Errorf("send subscription: %w", err)
	}
	i.setState(StateSubscribed)
	logging.Info().
		Float64("min_lat", i.cfg.MinLat).Float64("max_lat", i.cfg.MaxLat).
		Float64("min_lng", i.cfg.MinLng).Float64("max_lng", i.cfg.MaxLng).
		Strs("message_types", i.cfg.MessageTypes).
		Msg("Subscribed to AIS stream")

	frames := make(chan []byte, frameBuffer)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go i.readLoop(conn, frames, readErr, done)

	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(time.Second)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if werr := conn.WriteControl(websocket.CloseMessage, msg, deadline); werr != nil {
				logging.Debug().Err(werr).Msg("Failed to send close frame")
			}
			return true, ctx.Err()

		case err := <-readErr:
			// The reader queues every frame before reporting its error.
			i.drain(frames)
			return true, err

		case frame := <-frames:
			if i.State() == StateSubscribed {
				i.setState(StateStreaming)
			}
			i.handleFrame(frame)
		}
	}
}

// readLoop is the only reader of conn. It exits on the first read error.
func (i *Ingestor) readLoop(conn *websocket.Conn, frames chan<- []byte, readErr chan<- error, done <-chan struct{}) {
	for {
		if i.cfg.ReadTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(i.cfg.ReadTimeout)); err != nil {
				readErr <- fmt.Errorf("set read deadline: %w", err)
				return
			}
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = fmt.Errorf("upstream closed connection: %w", err)
			}
			readErr <- err
			return
		}

		select {
		case frames <- data:
		case <-done:
			return
		}
	}
}

func (i *Ingestor) drain(frames <-chan []byte) {
	for {
		select {
		case frame := <-frames:
			i.handleFrame(frame)
		default:
			return
		}
	}
}

// handleFrame parses, filters and forwards one frame.
func (i *Ingestor) handleFrame(data []byte) {
	metrics.AISFramesReceived.Inc()

	pos, err := ParsePosition(data)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, ErrNotPositionReport) {
			reason = "not_position"
		}
		metrics.AISFramesRejected.WithLabelValues(reason).Inc()
		logging.Debug().Err(err).Msg("Dropped AIS frame")
		return
	}

	if !i.filter.Accept(pos) {
		metrics.AISFramesRejected.WithLabelValues("out_of_region").Inc()
		logging.Debug().
			Int64("mmsi", pos.MMSI).
			Float64("lat", pos.Lat).
			Float64("lng", pos.Lng).
			Msg("Dropped position outside region")
		return
	}

	i.sink.Put(*pos)
	if i.feed != nil {
		i.feed.PublishPosition(*pos)
	}
	metrics.AISPositionsAccepted.Inc()
}

// flushAfterDisconnect persists buffered positions before any reconnect attempt.
// It runs on a detached context so shutdown does not skip it.
func (i *Ingestor) flushAfterDisconnect(ctx context.Context) {
	if i.flusher == nil {
		return
	}
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.flushTimeout)
	defer cancel()

	if err := i.flusher.Flush(flushCtx); err != nil {
		logging.Error().Err(err).Msg("Flush after AIS disconnect failed")
	}
}
