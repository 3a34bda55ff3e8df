// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/seawatch/internal/logging"
)

// newUpgrader builds a WebSocket upgrader that accepts requests without an
// Origin header, same-host origins and the configured origins.
func newUpgrader(allowed []string) websocket.Upgrader {
	allowAny := false
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAny = true
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   4096,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAny {
				return true
			}
			if _, ok := set[strings.ToLower(origin)]; ok {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			return strings.EqualFold(u.Host, r.Host)
		},
	}
}

// StreamSSE serves the live feed as Server-Sent Events.
func (h *Handler) StreamSSE(w http.ResponseWriter, r *http.Request) {
	logging.Ctx(r.Context()).Debug().Str("remote", r.RemoteAddr).Msg("SSE subscriber connected")
	h.hub.ServeSSE(w, r)
}

// StreamWebSocket upgrades the request and attaches it to the live feed.
func (h *Handler) StreamWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.hub.ServeWebSocket(conn)
	logging.Ctx(r.Context()).Debug().Str("remote", r.RemoteAddr).Msg("WebSocket subscriber connected")
}
