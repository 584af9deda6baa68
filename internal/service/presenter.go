package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/weatherform/backend/internal/domain"
	"github.com/weatherform/backend/pkg/utils"
)

// ProcessingErrorMessage is the only text shown when a payload is incomplete.
const ProcessingErrorMessage = "Error processing the weather data. Please try again later."

// Presenter reads the report fields out of a weather payload
type Presenter struct{}

// NewPresenter creates a new presenter
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Extract checks each field explicitly and returns a *domain.MissingFieldError
// for the first one that is absent. A key that is present with a null value
// is rendered as "null".
func (p *Presenter) Extract(payload domain.Payload) (domain.Report, error) {
	if payload == nil {
		return domain.Report{}, &domain.MissingFieldError{Field: "name"}
	}

	var (
		r   domain.Report
		err error
	)
	if r.Location, err = textAt(payload, "name"); err != nil {
		return domain.Report{}, err
	}
	if r.Country, err = textAt(payload, "sys", "country"); err != nil {
		return domain.Report{}, err
	}

	numbers := []struct {
		dst  *string
		path []string
	}{
		{&r.Temperature, []string{"main", "temp"}},
		{&r.FeelsLike, []string{"main", "feels_like"}},
		{&r.TempMin, []string{"main", "temp_min"}},
		{&r.TempMax, []string{"main", "temp_max"}},
		{&r.Pressure, []string{"main", "pressure"}},
		{&r.Humidity, []string{"main", "humidity"}},
	}
	for _, n := range numbers {
		if *n.dst, err = numberAt(payload, n.path...); err != nil {
			return domain.Report{}, err
		}
	}

	if r.Description, err = descriptionOf(payload); err != nil {
		return domain.Report{}, err
	}

	return r, nil
}

// Render writes the report lines, or ProcessingErrorMessage alone when the
// payload is incomplete. Only write failures are returned.
func (p *Presenter) Render(w io.Writer, payload domain.Payload) error {
	report, err := p.Extract(payload)
	if err != nil {
		_, werr := fmt.Fprintln(w, ProcessingErrorMessage)
		return werr
	}
	_, err = io.WriteString(w, strings.Join(report.Lines(), "\n")+"\n")
	return err
}

func lookup(payload domain.Payload, path ...string) (any, bool) {
	var cur any = payload
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// nullText is how a present but null field is rendered.
const nullText = "null"

func textAt(payload domain.Payload, path ...string) (string, error) {
	v, ok := lookup(payload, path...)
	if !ok {
		return "", &domain.MissingFieldError{Field: strings.Join(path, ".")}
	}
	if v == nil {
		return nullText, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &domain.MissingFieldError{Field: strings.Join(path, ".")}
	}
	return s, nil
}

func numberAt(payload domain.Payload, path ...string) (string, error) {
	v, ok := lookup(payload, path...)
	if ok {
		switch n := v.(type) {
		case nil:
			return nullText, nil
		case json.Number:
			return n.String(), nil
		case float64:
			return utils.FormatFloat(n), nil
		case int:
			return fmt.Sprint(n), nil
		}
	}
	return "", &domain.MissingFieldError{Field: strings.Join(path, ".")}
}

func descriptionOf(payload domain.Payload) (string, error) {
	missing := &domain.MissingFieldError{Field: "weather.0.description"}
	v, ok := lookup(payload, "weather")
	if !ok {
		return "", missing
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return "", missing
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return "", missing
	}
	v, ok = first["description"]
	if !ok {
		return "", missing
	}
	if v == nil {
		return nullText, nil
	}
	desc, ok := v.(string)
	if !ok {
		return "", missing
	}
	return utils.Capitalize(desc), nil
}
