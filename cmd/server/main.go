package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/weatherform/backend/internal/delivery/http"
	"github.com/weatherform/backend/internal/repository/memory"
	"github.com/weatherform/backend/internal/repository/postgres"
	"github.com/weatherform/backend/internal/service"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Configuration
	cfg := loadConfig()

	zl, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer zl.Sync() //nolint:errcheck
	sugar := zl.Sugar()

	if envErr != nil {
		sugar.Info("No .env file found, using system environment")
	}
	if cfg.OpenWeather.APIKey == "" {
		sugar.Warn("OPENWEATHER_API_KEY is not set, lookups will be rejected upstream")
	}

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo service.ReportRepository = memory.NewRepository()
	if cfg.DatabaseURL != "" {
		pool, err := connectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			sugar.Warnw("Could not connect to database, keeping history in memory", "error", err)
		} else {
			defer pool.Close()
			pgRepo := postgres.NewPostgresRepository(pool)
			if err := pgRepo.EnsureSchema(ctx); err != nil {
				sugar.Warnw("Could not prepare schema, keeping history in memory", "error", err)
			} else {
				repo = pgRepo
				sugar.Info("Connected to PostgreSQL")
			}
		}
	}

	// Dependency Injection: Services
	geocoder := service.NewGeocoderService(cfg.OpenWeather, sugar.Named("geocoder"))
	weatherSvc := service.NewWeatherService(cfg.OpenWeather, sugar.Named("weather"))
	lookupSvc := service.NewLookupService(geocoder, weatherSvc, service.NewPresenter(), repo, sugar.Named("lookup"))

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Weather Forecast Application",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.OpenWeather.Timeout + 5*time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, lookupSvc, sugar.Named("http"))

	// Graceful shutdown
	go func() {
		sugar.Infof("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			sugar.Fatalw("Server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugar.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		sugar.Warnw("Server forced to shutdown", "error", err)
	}
	sugar.Info("Server exited gracefully")
}

func connectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
