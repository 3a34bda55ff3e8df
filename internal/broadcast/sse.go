// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package broadcast

import (
	"bufio"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/seawatch/internal/logging"
)

// sseWriteWait bounds each write to an SSE client.
const sseWriteWait = 10 * time.Second

// ServeSSE streams the live feed as text/event-stream until the client goes
// away or the hub drops it.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		logging.Warn().Err(err).Msg("SSE flush not supported")
		return
	}

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	bw := bufio.NewWriter(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case frame, ok := <-sub.C():
			if !ok {
				return
			}
			if err := setWriteDeadline(rc, time.Now().Add(sseWriteWait)); err != nil {
				return
			}
			if err := writeSSEFrame(bw, frame); err != nil {
				logging.Debug().Err(err).Uint64("subscriber", sub.ID()).Msg("SSE write failed")
				return
			}
			if err := bw.Flush(); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func setWriteDeadline(rc *http.ResponseController, t time.Time) error {
	if err := rc.SetWriteDeadline(t); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// writeSSEFrame renders one frame in event-stream format.
func writeSSEFrame(bw *bufio.Writer, frame Frame) error {
	var err error
	switch frame.Type {
	case MessageTypeHeartbeat:
		_, err = bw.WriteString(": heartbeat\n\n")
		return err
	case MessageTypePosition:
	default:
		if _, err = bw.WriteString("event: " + frame.Type + "\n"); err != nil {
			return err
		}
	}

	if _, err = bw.WriteString("data: "); err != nil {
		return err
	}
	if _, err = bw.Write(frame.Payload); err != nil {
		return err
	}
	_, err = bw.WriteString("\n\n")
	return err
}
