// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package ais

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seawatch/internal/models"
	"github.com/tomtom215/seawatch/internal/validation"
)

// Message types carried by the feed.
const (
	MessageTypePositionReport = "PositionReport"
	MessageTypeShipStaticData = "ShipStaticData"
)

var (
	// ErrNotPositionReport is returned for well-formed frames that carry no position.
	ErrNotPositionReport = errors.New("not a position report")

	// ErrInvalidPosition is returned for malformed frames or out of range values.
	ErrInvalidPosition = errors.New("invalid position report")
)

// timeLayouts are tried in order for MetaData.time_utc.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700",
}

type streamFrame struct {
	MessageType string `json:"MessageType"`
	Message     struct {
		PositionReport *positionReport `json:"PositionReport"`
	} `json:"Message"`
	MetaData *frameMetadata `json:"MetaData"`
}

type positionReport struct {
	Latitude    *float64 `json:"Latitude"`
	Longitude   *float64 `json:"Longitude"`
	Sog         *float64 `json:"Sog"`
	Cog         *float64 `json:"Cog"`
	TrueHeading *float64 `json:"TrueHeading"`
}

type frameMetadata struct {
	MMSI     *int64 `json:"MMSI"`
	ShipName string `json:"ShipName"`
	ShipType *int   `json:"ShipType"`
	TimeUTC  string `json:"time_utc"`
}

// ParsePosition decodes one raw frame into a validated Position.
//
// ShipStaticData and other message types return ErrNotPositionReport.
// Schema mismatches and out of range values return an error wrapping
// ErrInvalidPosition. An unparseable timestamp falls back to the receive time.
func ParsePosition(data []byte) (*models.Position, error) {
	var frame streamFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}

	if frame.MessageType != MessageTypePositionReport {
		return nil, fmt.Errorf("%w: %q", ErrNotPositionReport, frame.MessageType)
	}

	report := frame.Message.PositionReport
	if report == nil || report.Latitude == nil || report.Longitude == nil {
		return nil, fmt.Errorf("%w: missing coordinates", ErrInvalidPosition)
	}
	meta := frame.MetaData
	if meta == nil || meta.MMSI == nil {
		return nil, fmt.Errorf("%w: missing MMSI", ErrInvalidPosition)
	}

	pos := &models.Position{
		MMSI:       *meta.MMSI,
		Name:       strings.TrimSpace(meta.ShipName),
		Lat:        *report.Latitude,
		Lng:        *report.Longitude,
		SOG:        report.Sog,
		COG:        report.Cog,
		ObservedAt: parseTimestamp(meta.TimeUTC),
	}
	if meta.ShipType != nil {
		pos.ShipType = ShipTypeLabel(*meta.ShipType)
	}

	if verr := validation.ValidateStruct(pos); verr != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPosition, verr.Error())
	}

	return pos, nil
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}
