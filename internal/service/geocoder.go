package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/weatherform/backend/internal/domain"
)

// ErrNoGeocodingResults is returned when a place name matches nothing.
var ErrNoGeocodingResults = errors.New("no geocoding data found")

// GeocoderService turns place names into coordinates
type GeocoderService struct {
	cfg        OpenWeatherConfig
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewGeocoderService creates a new geocoder
func NewGeocoderService(cfg OpenWeatherConfig, logger *zap.SugaredLogger) *GeocoderService {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &GeocoderService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type geocodeResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// Locate returns the coordinates of the first match for city.
func (s *GeocoderService) Locate(ctx context.Context, city string) (domain.Coordinates, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.Coordinates{}, domain.ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", "1")
	params.Set("appid", s.cfg.APIKey)

	resp, err := get(ctx, s.httpClient, s.cfg.GeoURL, params)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: %w", redact(err, s.cfg.APIKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := &domain.UpstreamError{Service: "geocoder", StatusCode: resp.StatusCode, Detail: upstreamDetail(resp.Body)}
		s.logger.Warnw("geocoding request rejected", "city", city, "status", resp.StatusCode)
		return domain.Coordinates{}, upErr
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w for %s", ErrNoGeocodingResults, city)
	}

	first := results[0]
	s.logger.Debugw("geocoded", "city", city, "match", first.Name, "country", first.Country, "lat", first.Lat, "lon", first.Lon)
	return domain.Coordinates{Lat: first.Lat, Lon: first.Lon}, nil
}
