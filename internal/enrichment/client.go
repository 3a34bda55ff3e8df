// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package enrichment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/seawatch/internal/models"
)

// ErrNotFound is returned when the registry has no entry for an MMSI.
var ErrNotFound = errors.New("vessel not found in registry")

// SourceMarineTraffic tags records fetched from MarineTraffic.
const SourceMarineTraffic = "marinetraffic"

// Client queries the MarineTraffic vessel master data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	now        func() time.Time
}

// NewClient creates a registry client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		now:        time.Now,
	}
}

// flexNumber accepts both JSON numbers and numeric strings.
// The registry API returns either depending on the field.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if string(data) == "null" {
		*n = ""
		return nil
	}
	*n = flexNumber(data)
	return nil
}

func (n flexNumber) Int() int {
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return int(v)
}

func (n flexNumber) Float() float64 {
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return v
}

// masterData is one row of the vesselmasterdata response.
type masterData struct {
	MMSI      flexNumber `json:"MMSI"`
	IMO       flexNumber `json:"IMO"`
	Name      string     `json:"NAME"`
	CallSign  string     `json:"CALLSIGN"`
	Flag      string     `json:"FLAG"`
	TypeName  string     `json:"TYPE_NAME"`
	GRT       flexNumber `json:"GRT"`
	DWT       flexNumber `json:"DWT"`
	Length    flexNumber `json:"LENGTH"`
	Breadth   flexNumber `json:"BREADTH"`
	YearBuilt flexNumber `json:"YEAR_BUILT"`
}

type masterDataResponse struct {
	Data   []masterData `json:"DATA"`
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Fetch retrieves registry data for one MMSI.
func (c *Client) Fetch(ctx context.Context, mmsi int64) (*models.EnrichmentRecord, error) {
	endpoint := fmt.Sprintf("%s/api/vesselmasterdata/%s?v=3&mmsi=%d&protocol=jsono",
		c.baseURL, url.PathEscape(c.apiKey), mmsi)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, rerr := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if rerr != nil {
			body = []byte("(failed to read response)")
		}
		return nil, fmt.Errorf("registry returned %d: %s", resp.StatusCode, string(body))
	}

	var payload masterDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}
	if len(payload.Errors) > 0 {
		return nil, fmt.Errorf("registry error %s: %s", payload.Errors[0].Code, payload.Errors[0].Detail)
	}
	if len(payload.Data) == 0 {
		return nil, ErrNotFound
	}

	row := payload.Data[0]
	rec := &models.EnrichmentRecord{
		MMSI:         mmsi,
		Name:         strings.TrimSpace(row.Name),
		CallSign:     strings.TrimSpace(row.CallSign),
		Flag:         strings.TrimSpace(row.Flag),
		TypeName:     strings.TrimSpace(row.TypeName),
		GrossTonnage: row.GRT.Int(),
		Deadweight:   row.DWT.Int(),
		Length:       row.Length.Float(),
		Width:        row.Breadth.Float(),
		YearBuilt:    row.YearBuilt.Int(),
		Source:       SourceMarineTraffic,
		FetchedAt:    c.now().UTC(),
	}
	if imo := row.IMO.Int(); imo > 0 {
		rec.IMO = strconv.Itoa(imo)
	}
	return rec, nil
}
