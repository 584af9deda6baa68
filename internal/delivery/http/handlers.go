package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/weatherform/backend/internal/domain"
	"github.com/weatherform/backend/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Handler contains all HTTP handlers
type Handler struct {
	lookupSvc *service.LookupService
	logger    *zap.SugaredLogger
}

// NewHandler creates a new handler
func NewHandler(lookupSvc *service.LookupService, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		lookupSvc: lookupSvc,
		logger:    logger,
	}
}

type unitOption struct {
	Value    string
	Label    string
	Selected bool
}

type indexView struct {
	Mode        string
	Query       string
	UnitOptions []unitOption
	Lines       []string
	Message     string
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	storage := "ok"
	if err := h.lookupSvc.Health(c.UserContext()); err != nil {
		h.logger.Warnw("repository health check failed", "error", err)
		storage = "unavailable"
	}
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "weatherform-backend",
		"version": "1.0.0",
		"storage": storage,
	})
}

// Index renders the form and, when a location was submitted, its report
func (h *Handler) Index(c *fiber.Ctx) error {
	view := indexView{Mode: string(domain.ModeCity), Query: utils.CopyString(c.Query("q"))}

	mode, modeErr := domain.ParseMode(c.Query("mode"))
	if modeErr == nil {
		view.Mode = string(mode)
	}
	// "shown" is the mode the form was rendered with; a different mode means
	// the radio was switched and the typed value belongs to the other input.
	if shown := c.Query("shown"); shown != "" && modeErr == nil && shown != view.Mode {
		view.Query = ""
	}
	units, unitsErr := domain.ParseUnits(c.Query("units"))
	if unitsErr != nil {
		units = domain.UnitsMetric
	}
	for _, u := range []domain.Units{domain.UnitsMetric, domain.UnitsImperial, domain.UnitsStandard} {
		view.UnitOptions = append(view.UnitOptions, unitOption{Value: string(u), Label: u.Label(), Selected: u == units})
	}

	switch {
	case modeErr != nil:
		view.Message = modeErr.Error()
	case unitsErr != nil:
		view.Message = unitsErr.Error()
	case view.Query != "":
		report, err := h.lookupSvc.Lookup(c.UserContext(), service.LookupRequest{Mode: mode, Query: view.Query, Units: units})
		if err != nil {
			view.Message = service.DisplayMessage(mode, err)
		} else {
			view.Lines = report.Lines()
		}
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view); err != nil {
		h.logger.Errorw("failed to render index", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// GetWeather runs a lookup and returns the report as JSON
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	mode, err := domain.ParseMode(c.Query("mode"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	units, err := domain.ParseUnits(c.Query("units"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	report, err := h.lookupSvc.Lookup(c.UserContext(), service.LookupRequest{Mode: mode, Query: utils.CopyString(c.Query("q")), Units: units})
	if err != nil {
		return fiber.NewError(statusFor(err), service.DisplayMessage(mode, err))
	}

	return c.JSON(domain.ReportResponse{
		Data:    report,
		Lines:   report.Lines(),
		Success: true,
	})
}

// GetHistory returns recently rendered reports
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	reports, err := h.lookupSvc.History(c.UserContext(), limit)
	if err != nil {
		h.logger.Errorw("failed to list reports", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch report history")
	}
	if reports == nil {
		reports = []domain.Report{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reports,
		"count":   len(reports),
	})
}

func statusFor(err error) int {
	var upErr *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNoGeocodingResults):
		return fiber.StatusNotFound
	case errors.As(err, &upErr) && upErr.StatusCode == fiber.StatusNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusBadGateway
}

// ErrorHandler renders every returned error as the JSON error envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
