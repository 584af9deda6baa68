package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when the location field is blank.
var ErrEmptyQuery = errors.New("location query is empty")

// UpstreamError reports a non-success status from a third-party service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: upstream returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: upstream returned status %d: %s", e.Service, e.StatusCode, e.Detail)
}

// MissingFieldError names the first payload field that was absent or of the wrong type.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("payload field %q is missing", e.Field)
}

// Outcome classifies a weather lookup.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeUpstreamFailure
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeUpstreamFailure:
		return "upstream_failure"
	case OutcomeTransportFailure:
		return "transport_failure"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// WeatherResult is returned by every weather lookup, whichever way the
// location was given. Payload is set only when Outcome is OutcomeOK.
type WeatherResult struct {
	Outcome    Outcome
	Payload    Payload
	StatusCode int
	Detail     string
	Cause      error
}

// OK reports whether the lookup produced a payload.
func (r WeatherResult) OK() bool {
	return r.Outcome == OutcomeOK && r.Payload != nil
}

// Err returns nil on success, an *UpstreamError on a non-success status,
// and the transport error otherwise.
func (r WeatherResult) Err() error {
	switch r.Outcome {
	case OutcomeOK:
		if r.Payload == nil {
			return errors.New("weather: empty payload")
		}
		return nil
	case OutcomeUpstreamFailure:
		return &UpstreamError{Service: "weather", StatusCode: r.StatusCode, Detail: r.Detail}
	default:
		if r.Cause == nil {
			return errors.New("weather: request failed")
		}
		return r.Cause
	}
}
