package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weatherform/backend/internal/domain"
	"github.com/weatherform/backend/pkg/utils"
)

const (
	ZipErrorMessage      = "Error retrieving weather data for the given zip code. Please check the zip code or try again later."
	LocationErrorMessage = "Error retrieving weather data for the given location. Please try again later."
	MaxHistory           = 100

	saveTimeout = 5 * time.Second
)

// ErrEmptyPayload is returned when the weather service answers 200 with an empty object.
var ErrEmptyPayload = errors.New("weather: empty payload")

// LookupRequest is one form submission
type LookupRequest struct {
	Mode  domain.Mode
	Query string
	Units domain.Units
}

// LookupService runs a lookup end to end: geocode, fetch, extract, record.
type LookupService struct {
	geocoder  *GeocoderService
	weather   *WeatherService
	presenter *Presenter
	repo      ReportRepository
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewLookupService creates a new lookup service
func NewLookupService(
	geocoder *GeocoderService,
	weather *WeatherService,
	presenter *Presenter,
	repo ReportRepository,
	logger *zap.SugaredLogger,
) *LookupService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LookupService{
		geocoder:  geocoder,
		weather:   weather,
		presenter: presenter,
		repo:      repo,
		logger:    logger,
		now:       time.Now,
	}
}

// Lookup returns the report for req or the error that stopped it.
func (s *LookupService) Lookup(ctx context.Context, req LookupRequest) (domain.Report, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return domain.Report{}, domain.ErrEmptyQuery
	}
	if req.Units == "" {
		req.Units = domain.UnitsMetric
	}

	var result domain.WeatherResult
	switch req.Mode {
	case domain.ModeZip:
		result = s.weather.ByPostalCode(ctx, query, req.Units)
	case domain.ModeCity, "":
		req.Mode = domain.ModeCity
		coords, err := s.geocoder.Locate(ctx, query)
		if err != nil {
			s.logger.Infow("geocoding failed", "city", query, "error", err)
			return domain.Report{}, err
		}
		result = s.weather.ByCoordinates(ctx, coords, req.Units)
	default:
		return domain.Report{}, fmt.Errorf("lookup: unknown mode %q", req.Mode)
	}

	if err := result.Err(); err != nil {
		s.logger.Infow("weather lookup failed",
			"mode", req.Mode, "query", query, "outcome", result.Outcome.String(), "error", err)
		return domain.Report{}, err
	}

	if len(result.Payload) == 0 {
		s.logger.Warnw("empty weather payload", "mode", req.Mode, "query", query)
		return domain.Report{}, ErrEmptyPayload
	}

	report, err := s.presenter.Extract(result.Payload)
	if err != nil {
		s.logger.Warnw("incomplete weather payload", "mode", req.Mode, "query", query, "error", err)
		return domain.Report{}, err
	}
	report.ID = uuid.New()
	report.Mode = req.Mode
	report.Query = strings.Clone(query)
	report.Units = req.Units
	report.CreatedAt = s.now().UTC()

	s.record(ctx, report)
	return report, nil
}

// record saves the report before Lookup returns. A failed save is logged
// and does not fail the lookup.
func (s *LookupService) record(ctx context.Context, report domain.Report) {
	if s.repo == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := s.repo.SaveReport(saveCtx, report); err != nil {
		s.logger.Errorw("failed to save report", "id", report.ID, "error", err)
	}
}

// History returns saved reports, newest first
func (s *LookupService) History(ctx context.Context, limit int) ([]domain.Report, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListReports(ctx, utils.Clamp(limit, 1, MaxHistory))
}

// Health checks the report repository
func (s *LookupService) Health(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Health(ctx)
}

// DisplayMessage maps a lookup failure to the single line shown to the user.
func DisplayMessage(mode domain.Mode, err error) string {
	var missing *domain.MissingFieldError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missing):
		return ProcessingErrorMessage
	case errors.Is(err, domain.ErrEmptyQuery):
		return "Please enter a location."
	case errors.Is(err, ErrEmptyPayload) && mode != domain.ModeZip:
		return LocationErrorMessage
	case mode == domain.ModeZip:
		return ZipErrorMessage
	default:
		return fmt.Sprintf("An error occurred: %v", err)
	}
}
