package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/weatherform/backend/internal/domain"
	"github.com/weatherform/backend/pkg/utils"
)

// WeatherService handles weather data fetching
type WeatherService struct {
	cfg        OpenWeatherConfig
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewWeatherService creates a new weather service
func NewWeatherService(cfg OpenWeatherConfig, logger *zap.SugaredLogger) *WeatherService {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WeatherService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ByCoordinates fetches current weather at a coordinate pair
func (s *WeatherService) ByCoordinates(ctx context.Context, c domain.Coordinates, units domain.Units) domain.WeatherResult {
	params := url.Values{}
	params.Set("lat", utils.FormatFloat(c.Lat))
	params.Set("lon", utils.FormatFloat(c.Lon))
	return s.fetch(ctx, params, units)
}

// ByPostalCode fetches current weather for a postal code
func (s *WeatherService) ByPostalCode(ctx context.Context, zip string, units domain.Units) domain.WeatherResult {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return domain.WeatherResult{Outcome: domain.OutcomeTransportFailure, Cause: domain.ErrEmptyQuery}
	}
	params := url.Values{}
	params.Set("zip", zip)
	return s.fetch(ctx, params, units)
}

func (s *WeatherService) fetch(ctx context.Context, params url.Values, units domain.Units) domain.WeatherResult {
	if units == "" {
		units = domain.UnitsMetric
	}
	params.Set("units", string(units))
	params.Set("appid", s.cfg.APIKey)

	resp, err := get(ctx, s.httpClient, s.cfg.WeatherURL, params)
	if err != nil {
		return domain.WeatherResult{
			Outcome: domain.OutcomeTransportFailure,
			Cause:   fmt.Errorf("weather: %w", redact(err, s.cfg.APIKey)),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := upstreamDetail(resp.Body)
		s.logger.Warnw("weather request rejected", "status", resp.StatusCode, "detail", detail)
		return domain.WeatherResult{
			Outcome:    domain.OutcomeUpstreamFailure,
			StatusCode: resp.StatusCode,
			Detail:     detail,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WeatherResult{
			Outcome: domain.OutcomeTransportFailure,
			Cause:   fmt.Errorf("weather: failed to read response: %w", err),
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload domain.Payload
	if err := dec.Decode(&payload); err != nil || payload == nil {
		if err == nil {
			err = errors.New("body is not a JSON object")
		}
		return domain.WeatherResult{
			Outcome: domain.OutcomeTransportFailure,
			Cause:   fmt.Errorf("weather: failed to decode response: %w", err),
		}
	}

	return domain.WeatherResult{
		Outcome:    domain.OutcomeOK,
		Payload:    payload,
		StatusCode: resp.StatusCode,
	}
}
