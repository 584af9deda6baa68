package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	. "github.com/smartystreets/goconvey/convey"

	deliveryhttp "github.com/weatherform/backend/internal/delivery/http"
	"github.com/weatherform/backend/internal/repository/memory"
	"github.com/weatherform/backend/internal/service"
)

const (
	geoBody     = `[{"name":"Bellevue","lat":47.6101,"lon":-122.2015,"country":"US"}]`
	weatherBody = `{"weather":[{"description":"clear sky"}],"main":{"temp":64.4,"feels_like":63.1,"temp_min":60.8,"temp_max":68,"pressure":1021,"humidity":55},"name":"Bellevue","sys":{"country":"US"}}`
)

type testEnv struct {
	app      *fiber.App
	svc      *service.LookupService
	upstream *httptest.Server

	mu    sync.Mutex
	units []string
}

func (e *testEnv) sentUnits() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.units...)
}

func (e *testEnv) resetUnits() {
	e.mu.Lock()
	e.units = nil
	e.mu.Unlock()
}

func newTestEnv(weatherStatus int, weather string) *testEnv {
	env := &testEnv{}
	env.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/geo") {
			if r.URL.Query().Get("q") == "Nowhere" {
				_, _ = io.WriteString(w, `[]`)
				return
			}
			_, _ = io.WriteString(w, geoBody)
			return
		}
		env.mu.Lock()
		env.units = append(env.units, r.URL.Query().Get("units"))
		env.mu.Unlock()
		w.WriteHeader(weatherStatus)
		_, _ = io.WriteString(w, weather)
	}))

	cfg := service.OpenWeatherConfig{
		APIKey:     "test-key",
		GeoURL:     env.upstream.URL + "/geo",
		WeatherURL: env.upstream.URL + "/weather",
	}
	env.svc = service.NewLookupService(
		service.NewGeocoderService(cfg, nil),
		service.NewWeatherService(cfg, nil),
		service.NewPresenter(),
		memory.NewRepository(),
		nil,
	)

	env.app = fiber.New(fiber.Config{ErrorHandler: deliveryhttp.ErrorHandler})
	deliveryhttp.SetupRoutes(env.app, env.svc, nil)
	return env
}

func (e *testEnv) Close() {
	e.upstream.Close()
}

func (e *testEnv) get(target string) (int, string) {
	resp, err := e.app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	So(err, ShouldBeNil)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	So(err, ShouldBeNil)
	return resp.StatusCode, string(body)
}

func TestIndex(t *testing.T) {
	Convey("Given the form page", t, func() {
		env := newTestEnv(http.StatusOK, weatherBody)
		defer env.Close()

		Convey("without a query it renders only the form", func() {
			code, body := env.get("/")
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, "Enter city name:")
			So(body, ShouldContainSubstring, `value="metric" checked`)
			So(body, ShouldNotContainSubstring, "Weather for")
			So(env.sentUnits(), ShouldBeEmpty)
		})

		Convey("zip mode changes the prompt", func() {
			_, body := env.get("/?mode=zip")
			So(body, ShouldContainSubstring, "Enter zip code:")
		})

		Convey("a city query renders the report", func() {
			code, body := env.get("/?mode=city&units=imperial&q=" + url.QueryEscape("Bellevue"))
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, "Weather for Bellevue,US")
			So(body, ShouldContainSubstring, "  Pressure: 1021 hPa")
			So(body, ShouldContainSubstring, "  Description: Clear sky")
			So(body, ShouldContainSubstring, `value="imperial" checked`)
			So(env.sentUnits(), ShouldResemble, []string{"imperial"})
		})

		Convey("an unknown city renders the error line", func() {
			_, body := env.get("/?mode=city&q=Nowhere")
			So(body, ShouldContainSubstring, "An error occurred: no geocoding data found for Nowhere")
			So(body, ShouldNotContainSubstring, "Weather for")
		})

		Convey("the form labels map to unit systems", func() {
			for label, want := range map[string]string{"Celsius": "metric", "Fahrenheit": "imperial", "Kelvin": "standard"} {
				env.resetUnits()
				env.get("/?mode=zip&q=98004&units=" + label)
				So(env.sentUnits(), ShouldResemble, []string{want})
			}
		})
	})

	Convey("Given several lookups in a row", t, func() {
		env := newTestEnv(http.StatusOK, weatherBody)
		defer env.Close()

		zips := []string{"90000", "91111", "92222", "93333", "94444", "95555"}
		for _, zip := range zips {
			code, _ := env.get("/?mode=zip&q=" + zip)
			So(code, ShouldEqual, http.StatusOK)
		}

		Convey("each saved report keeps its own query", func() {
			hist, err := env.svc.History(context.Background(), 100)
			So(err, ShouldBeNil)
			So(len(hist), ShouldEqual, len(zips))
			for i, rep := range hist {
				So(rep.Query, ShouldEqual, zips[len(zips)-1-i])
			}
		})

		Convey("the JSON API keeps its queries too", func() {
			env.get("/api/v1/weather?mode=zip&q=10001")
			env.get("/api/v1/weather?mode=zip&q=20002")
			hist, _ := env.svc.History(context.Background(), 2)
			So(hist[0].Query, ShouldEqual, "20002")
			So(hist[1].Query, ShouldEqual, "10001")
		})
	})

	Convey("Given the mode radio was switched", t, func() {
		env := newTestEnv(http.StatusOK, weatherBody)
		defer env.Close()

		code, body := env.get("/?mode=zip&shown=city&q=Bellevue")
		So(code, ShouldEqual, http.StatusOK)

		Convey("the typed value is dropped and nothing is looked up", func() {
			So(body, ShouldContainSubstring, "Enter zip code:")
			So(body, ShouldContainSubstring, `name="q" value=""`)
			So(body, ShouldNotContainSubstring, "Weather for")
			So(env.sentUnits(), ShouldBeEmpty)
		})

		Convey("the same mode still looks up", func() {
			_, body := env.get("/?mode=zip&shown=zip&q=98004")
			So(body, ShouldContainSubstring, "Weather for Bellevue,US")
			So(body, ShouldContainSubstring, `name="shown" value="zip"`)
		})
	})

	Convey("Given an incomplete payload", t, func() {
		env := newTestEnv(http.StatusOK, `{"name":"Bellevue"}`)
		defer env.Close()

		_, body := env.get("/?mode=zip&q=98004")
		So(body, ShouldContainSubstring, service.ProcessingErrorMessage)
		So(body, ShouldNotContainSubstring, "Weather for")
	})

	Convey("Given an empty payload", t, func() {
		env := newTestEnv(http.StatusOK, `{}`)
		defer env.Close()

		_, body := env.get("/?mode=city&q=London")
		So(body, ShouldContainSubstring, service.LocationErrorMessage)

		_, body = env.get("/?mode=zip&q=98004")
		So(body, ShouldContainSubstring, service.ZipErrorMessage)
	})

	Convey("Given a rejected postal code", t, func() {
		env := newTestEnv(http.StatusNotFound, `{"cod":"404","message":"city not found"}`)
		defer env.Close()

		_, body := env.get("/?mode=zip&q=00000")
		So(body, ShouldContainSubstring, service.ZipErrorMessage)
	})
}

func TestWeatherAPI(t *testing.T) {
	Convey("Given the weather API", t, func() {
		env := newTestEnv(http.StatusOK, weatherBody)
		defer env.Close()

		Convey("a lookup returns the report and its lines", func() {
			code, body := env.get("/api/v1/weather?mode=city&q=Bellevue&units=standard")
			So(code, ShouldEqual, http.StatusOK)

			var out struct {
				Success bool     `json:"success"`
				Lines   []string `json:"lines"`
				Data    struct {
					Location string `json:"location"`
					Units    string `json:"units"`
				} `json:"data"`
			}
			So(json.Unmarshal([]byte(body), &out), ShouldBeNil)
			So(out.Success, ShouldBeTrue)
			So(out.Data.Location, ShouldEqual, "Bellevue")
			So(out.Data.Units, ShouldEqual, "standard")
			So(len(out.Lines), ShouldEqual, 8)

			code, body = env.get("/api/v1/history")
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, `"count":1`)
		})

		Convey("a missing query is a bad request", func() {
			code, body := env.get("/api/v1/weather?mode=city")
			So(code, ShouldEqual, http.StatusBadRequest)
			So(body, ShouldContainSubstring, `"error":true`)
		})

		Convey("bad units are a bad request", func() {
			code, _ := env.get("/api/v1/weather?q=Bellevue&units=rankine")
			So(code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("an unknown city is not found", func() {
			code, body := env.get("/api/v1/weather?q=Nowhere")
			So(code, ShouldEqual, http.StatusNotFound)
			So(body, ShouldContainSubstring, "no geocoding data found for Nowhere")
		})

		Convey("health reports storage", func() {
			code, body := env.get("/health")
			So(code, ShouldEqual, http.StatusOK)
			So(body, ShouldContainSubstring, `"storage":"ok"`)
		})
	})

	Convey("Given a failing weather upstream", t, func() {
		env := newTestEnv(http.StatusServiceUnavailable, `maintenance`)
		defer env.Close()

		code, body := env.get("/api/v1/weather?mode=zip&q=98004")
		So(code, ShouldEqual, http.StatusBadGateway)
		So(body, ShouldContainSubstring, "given zip code")
	})
}
