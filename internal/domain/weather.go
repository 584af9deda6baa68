package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Units is the measurement convention requested from the weather service.
// The service converts values server-side.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
	UnitsStandard Units = "standard"
)

// ParseUnits accepts either the wire value or the form label.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric", "celsius":
		return UnitsMetric, nil
	case "imperial", "fahrenheit":
		return UnitsImperial, nil
	case "standard", "kelvin":
		return UnitsStandard, nil
	}
	return "", fmt.Errorf("unknown unit system %q", s)
}

// Label returns the temperature scale shown on the form.
func (u Units) Label() string {
	switch u {
	case UnitsImperial:
		return "Fahrenheit"
	case UnitsStandard:
		return "Kelvin"
	default:
		return "Celsius"
	}
}

// Mode selects how the location is entered.
type Mode string

const (
	ModeCity Mode = "city"
	ModeZip  Mode = "zip"
)

// ParseMode accepts "city", "zip", "zip code" or "postal".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "city":
		return ModeCity, nil
	case "zip", "zip code", "zipcode", "postal", "postal code":
		return ModeZip, nil
	}
	return "", fmt.Errorf("unknown input mode %q", s)
}

// Coordinates is a latitude/longitude pair obtained from geocoding.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Payload is the decoded weather body, trusted as-is.
type Payload = map[string]any

// Report holds the fields read from a payload plus lookup metadata
type Report struct {
	ID          uuid.UUID `json:"id"`
	Mode        Mode      `json:"mode"`
	Query       string    `json:"query"`
	Units       Units     `json:"units"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Temperature string    `json:"temperature"`
	FeelsLike   string    `json:"feels_like"`
	TempMin     string    `json:"temp_min"`
	TempMax     string    `json:"temp_max"`
	Pressure    string    `json:"pressure"`
	Humidity    string    `json:"humidity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Lines renders the report one field per line. Description is expected
// to be capitalized already.
func (r Report) Lines() []string {
	return []string{
		fmt.Sprintf("Weather for %s,%s", r.Location, r.Country),
		fmt.Sprintf("  Current Temp: %s°", r.Temperature),
		fmt.Sprintf("  Feels Like: %s°", r.FeelsLike),
		fmt.Sprintf("  Low Temp: %s°", r.TempMin),
		fmt.Sprintf("  High Temp: %s°", r.TempMax),
		fmt.Sprintf("  Pressure: %s hPa", r.Pressure),
		fmt.Sprintf("  Humidity: %s%%", r.Humidity),
		fmt.Sprintf("  Description: %s", r.Description),
	}
}

// ReportResponse wraps a report for the JSON API
type ReportResponse struct {
	Data    Report   `json:"data"`
	Lines   []string `json:"lines"`
	Success bool     `json:"success"`
}
