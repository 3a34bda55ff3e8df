// Seawatch - Live Vessel Tracking and Geofence Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seawatch

package alerting

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/seawatch/internal/breaker"
	"github.com/tomtom215/seawatch/internal/config"
)

// TwilioTransport sends SMS through the Twilio Messages API.
type TwilioTransport struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string

	limiter *rate.Limiter
	breaker *breaker.Breaker
}

// NewTwilioTransport creates a Twilio transport. Sends are spaced at least
// interval apart; zero disables pacing.
func NewTwilioTransport(cfg *config.TwilioConfig, interval time.Duration) *TwilioTransport {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TwilioTransport{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		limiter:    rate.NewLimiter(limit, 1),
		breaker:    breaker.New("twilio", breaker.LowVolumeOptions()),
	}
}

// Name implements Transport.
func (t *TwilioTransport) Name() string {
	return "twilio"
}

// twilioError is the error body returned by the Twilio API.
type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send implements Transport.
func (t *TwilioTransport) Send(ctx context.Context, recipient, message string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("sms rate limiter: %w", err)
	}
	return t.breaker.Do(func() error {
		return t.send(ctx, recipient, message)
	})
}

func (t *TwilioTransport) send(ctx context.Context, recipient, message string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.accountSID))

	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", t.from)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		body = []byte("(failed to read response)")
	}
	var apiErr twilioError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("twilio returned %d: %s (code %d)", resp.StatusCode, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(body))
}
