// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/seawatch/internal/breaker"
	"github.com/tomtom215/seawatch/internal/config"
	"github.com/tomtom215/seawatch/internal/logging"
	"github.com/tomtom215/seawatch/internal/models"
)

// DefaultTopic is the subject alert events are published on.
const DefaultTopic = "vessel_alerts"

// ErrClosed is returned when publishing after Close.
var ErrClosed = errors.New("publisher is closed")

// Publisher sends alert events through a Watermill publisher.
type Publisher struct {
	publisher message.Publisher
	topic     string
	breaker   *breaker.Breaker

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps any Watermill publisher.
func NewPublisher(pub message.Publisher, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		publisher: pub,
		topic:     topic,
		breaker:   breaker.New("nats", breaker.DefaultOptions()),
	}
}

// NewLoggerAdapter returns a Watermill logger that writes through zerolog.
func NewLoggerAdapter() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

// NewNATSPublisher connects to NATS JetStream at url and returns a Publisher.
// The stream for the topic is provisioned on first publish.
func NewNATSPublisher(cfg *config.NATSConfig, url string) (*Publisher, error) {
	logger := NewLoggerAdapter()

	natsOpts := []natsgo.Option{
		natsgo.Name("seawatch"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return NewPublisher(pub, cfg.Topic), nil
}

// Topic returns the subject events are published on.
func (p *Publisher) Topic() string {
	return p.topic
}

// PublishAlert encodes and publishes one alert event.
func (p *Publisher) PublishAlert(ctx context.Context, event *models.AlertEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize alert event: %w", err)
	}

	msg := message.NewMessage(event.ID, data)
	msg.SetContext(ctx)
	msg.Metadata.Set(natsgo.MsgIdHdr, event.ID)
	msg.Metadata.Set("mmsi", strconv.FormatInt(event.MMSI, 10))
	msg.Metadata.Set("rule_id", event.RuleID)
	msg.Metadata.Set("event_type", string(event.EventType))

	if err := p.breaker.Do(func() error {
		return p.publisher.Publish(p.topic, msg)
	}); err != nil {
		return fmt.Errorf("publish alert %s: %w", event.ID, err)
	}
	return nil
}

// Close shuts down the underlying publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// DecodeAlert parses the payload of a published alert message.
func DecodeAlert(msg *message.Message) (*models.AlertEvent, error) {
	var event models.AlertEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("decode alert event %s: %w", msg.UUID, err)
	}
	return &event, nil
}
