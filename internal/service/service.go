package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/weatherform/backend/internal/domain"
)

// ReportRepository is re-exported from domain for convenience
type ReportRepository = domain.ReportRepository

const (
	DefaultGeoURL     = "https://api.openweathermap.org/geo/1.0/direct"
	DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultTimeout    = 10 * time.Second
)

// OpenWeatherConfig carries the credential and endpoints shared by the
// geocoder and weather clients.
type OpenWeatherConfig struct {
	APIKey     string
	GeoURL     string
	WeatherURL string
	Timeout    time.Duration
}

func (c OpenWeatherConfig) withDefaults() OpenWeatherConfig {
	if c.GeoURL == "" {
		c.GeoURL = DefaultGeoURL
	}
	if c.WeatherURL == "" {
		c.WeatherURL = DefaultWeatherURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// get issues a GET to base with params merged into its query string.
func get(ctx context.Context, client *http.Client, base string, params url.Values) (*http.Response, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url %s: %w", base, err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return client.Do(req)
}

// upstreamDetail pulls the service's message out of an error body, falling
// back to the trimmed text.
func upstreamDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &msg) == nil && msg.Message != "" {
		return msg.Message
	}
	return strings.TrimSpace(string(raw))
}

func redact(err error, apiKey string) error {
	if err == nil || apiKey == "" {
		return err
	}
	if !strings.Contains(err.Error(), apiKey) {
		return err
	}
	return redactedError{msg: strings.ReplaceAll(err.Error(), apiKey, "REDACTED"), cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e redactedError) Error() string { return e.msg }
func (e redactedError) Unwrap() error { return e.cause }
