// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"context"

	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/logging"
)

// Transport delivers one SMS.
type Transport interface {
	Name() string
	Send(ctx context.Context, recipient, message string) error
}

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct{}

// NewLogTransport creates a log-only transport.
func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

// Name implements Transport.
func (t *LogTransport) Name() string {
	return "log"
}

// Send implements Transport. It never fails.
func (t *LogTransport) Send(_ context.Context, recipient, message string) error {
	logging.Info().
		Str("recipient", recipient).
		Str("message", message).
		Msg("SMS transport not configured, message logged only")
	return nil
}

// NewTransport returns a Twilio transport when credentials are complete,
// otherwise the log transport.
func NewTransport(cfg *config.NotificationConfig) Transport {
	if cfg.Twilio.Configured() {
		return NewTwilioTransport(&cfg.Twilio, cfg.SendInterval)
	}
	return NewLogTransport()
}
