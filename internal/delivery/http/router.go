package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/weatherform/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, lookupSvc *service.LookupService, logger *zap.SugaredLogger) {
	handler := NewHandler(lookupSvc, logger)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// Form page
	app.Get("/", handler.Index)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/weather", handler.GetWeather)
		api.Get("/history", handler.GetHistory)
	}
}
