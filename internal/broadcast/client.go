// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package broadcast

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/seawatch/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// client message types
const (
	messageTypePing = "ping"
	messageTypePong = "pong"
)

// envelope is the WebSocket wire form of a frame.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client bridges one WebSocket connection to a hub subscription.
type Client struct {
	hub  *Hub
	sub  *Subscriber
	conn *websocket.Conn

	// pong carries replies to client pings; the write pump is the only writer.
	pong chan struct{}
}

// ServeWebSocket attaches an upgraded connection to the live feed.
// It returns immediately; the connection is served by two goroutines.
func (h *Hub) ServeWebSocket(conn *websocket.Conn) *Client {
	c := &Client{
		hub:  h,
		sub:  h.Subscribe(),
		conn: conn,
		pong: make(chan struct{}, 1),
	}
	go c.writePump()
	go c.readPump()
	return c
}

// readPump consumes client messages so control frames are processed.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unsubscribe(c.sub)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Msg("unexpected websocket close error")
			}
			return
		}

		var msg envelope
		if json.Unmarshal(data, &msg) == nil && msg.Type == messageTypePing {
			select {
			case c.pong <- struct{}{}:
			default:
			}
		}
	}
}

// writePump is the only writer on the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.sub.C():
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Dropped by the hub or shutting down.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeEnvelope(envelope{Type: frame.Type, Data: frame.Payload}); err != nil {
				logging.Debug().Err(err).Uint64("subscriber", c.sub.ID()).Msg("websocket write failed")
				return
			}

		case <-c.pong:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.writeEnvelope(envelope{Type: messageTypePong}); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeEnvelope(env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
