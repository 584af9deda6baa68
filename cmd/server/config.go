package main

import (
	"os"
	"time"

	"github.com/weatherform/backend/internal/service"
)

type Config struct {
	OpenWeather service.OpenWeatherConfig
	DatabaseURL string
	Port        string
	Env         string
}

func loadConfig() *Config {
	return &Config{
		OpenWeather: service.OpenWeatherConfig{
			APIKey:     getEnv("OPENWEATHER_API_KEY", ""),
			GeoURL:     getEnv("OPENWEATHER_GEO_URL", service.DefaultGeoURL),
			WeatherURL: getEnv("OPENWEATHER_WEATHER_URL", service.DefaultWeatherURL),
			Timeout:    getEnvDuration("HTTP_TIMEOUT", service.DefaultTimeout),
		},
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
