// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package ais

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/seawatch/internal/models"
)

// Subscription is the single request sent after the upstream handshake.
// Bounding boxes are pairs of [lng, lat] corners.
type Subscription struct {
	APIKey             string         `json:"APIKey"`
	BoundingBoxes      [][][2]float64 `json:"BoundingBoxes"`
	FilterMessageTypes []string       `json:"FilterMessageTypes,omitempty"`
}

// NewSubscription builds a subscription for one bounding box.
func NewSubscription(apiKey string, box models.BoundingBox, messageTypes []string) Subscription {
	return Subscription{
		APIKey: apiKey,
		BoundingBoxes: [][][2]float64{
			{
				{box.MinLng, box.MinLat},
				{box.MaxLng, box.MaxLat},
			},
		},
		FilterMessageTypes: messageTypes,
	}
}

// Encode serializes the subscription.
func (s Subscription) Encode() ([]byte, error) {
	return json.Marshal(s)
}
