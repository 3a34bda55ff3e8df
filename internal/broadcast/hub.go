// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package broadcast

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/metrics"
	"github.com/tomtom215/seawatch/internal/models"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types on the live feed.
const (
	MessageTypePosition  = "position"
	MessageTypeAlert     = "alert"
	MessageTypeHeartbeat = "heartbeat"
)

// Frame is one serialized message. Payload is nil for heartbeats.
type Frame struct {
	Type    string
	Payload []byte
}

// subscriberIDCounter gives subscribers a stable delivery order.
var subscriberIDCounter atomic.Uint64

// Subscriber is one live client's outbound queue.
type Subscriber struct {
	id   uint64
	send chan Frame
}

// ID returns the subscriber's identifier.
func (s *Subscriber) ID() uint64 {
	return s.id
}

// C returns the frame channel. It is closed when the hub drops the subscriber.
func (s *Subscriber) C() <-chan Frame {
	return s.send
}

// Hub maintains the subscriber set.
type Hub struct {
	mu sync.Mutex
	// subscribers is kept in ID order; IDs are assigned under mu.
	subscribers []*Subscriber

	buffer    int
	heartbeat time.Duration
}

// NewHub creates a hub. buffer is the per-subscriber queue length.
func NewHub(buffer int, heartbeat time.Duration) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &Hub{
		buffer:      buffer,
		heartbeat:   heartbeat,
	}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{send: make(chan Frame, h.buffer)}

	h.mu.Lock()
	sub.id = subscriberIDCounter.Add(1)
	h.subscribers = append(h.subscribers, sub)
	n := len(h.subscribers)
	h.mu.Unlock()

	metrics.BroadcastSubscribers.Set(float64(n))
	logging.Debug().Uint64("subscriber", sub.id).Int("total_subscribers", n).Msg("live feed subscriber connected")
	return sub
}

// Unsubscribe removes sub. It is safe to call after the hub already dropped it.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if i := slices.Index(h.subscribers, sub); i >= 0 {
		h.subscribers = slices.Delete(h.subscribers, i, i+1)
		close(sub.send)
	}
	n := len(h.subscribers)
	h.mu.Unlock()

	metrics.BroadcastSubscribers.Set(float64(n))
	logging.Debug().Uint64("subscriber", sub.id).Int("total_subscribers", n).Msg("live feed subscriber disconnected")
}

// Count returns the number of subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// PublishPosition sends an accepted position to every subscriber.
func (h *Hub) PublishPosition(pos models.Position) {
	h.PublishJSON(MessageTypePosition, pos)
}

// PublishAlert sends a persisted alert event to every subscriber.
func (h *Hub) PublishAlert(event *models.AlertEvent) {
	h.PublishJSON(MessageTypeAlert, event)
}

// PublishJSON serializes data once and delivers it to every subscriber.
func (h *Hub) PublishJSON(msgType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		logging.Warn().Err(err).Str("message_type", msgType).Msg("failed to encode live feed message")
		return
	}
	h.publish(Frame{Type: msgType, Payload: payload})
}

// publish delivers frame without blocking. Full subscribers are dropped.
func (h *Hub) publish(frame Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	h.subscribers = slices.DeleteFunc(h.subscribers, func(sub *Subscriber) bool {
		select {
		case sub.send <- frame:
			return false
		default:
		}
		close(sub.send)
		dropped++
		metrics.BroadcastDropped.Inc()
		logging.Warn().Uint64("subscriber", sub.id).Msg("dropped slow live feed subscriber")
		return true
	})

	metrics.BroadcastMessages.WithLabelValues(frame.Type).Inc()
	if dropped > 0 {
		metrics.BroadcastSubscribers.Set(float64(len(h.subscribers)))
	}
}

// RunWithContext sends heartbeats until ctx is canceled, then closes every
// subscriber. Returns ctx.Err().
func (h *Hub) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case <-ticker.C:
			h.publish(Frame{Type: MessageTypeHeartbeat})
		}
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	n := h.closeAll()

	logging.Info().
		Str("component", "broadcast-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("subscribers_closed", n).
		Msg("broadcast hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

func (h *Hub) closeAll() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.subscribers)
	for _, sub := range h.subscribers {
		close(sub.send)
	}
	h.subscribers = nil
	metrics.BroadcastSubscribers.Set(0)
	return n
}
