package service

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

const testAPIKey = "test-key"

// fakeUpstream records the query of every request it receives.
type fakeUpstream struct {
	*httptest.Server

	mu      sync.Mutex
	queries []url.Values
}

func newFakeUpstream(handler func(w http.ResponseWriter, r *http.Request)) *fakeUpstream {
	f := &fakeUpstream{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query())
		f.mu.Unlock()
		handler(w, r)
	}))
	return f
}

func (f *fakeUpstream) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeUpstream) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func respond(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

const londonWeather = `{
	"coord": {"lon": -0.1276, "lat": 51.5073},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
	"main": {"temp": 12.5, "feels_like": 11.9, "temp_min": 10, "temp_max": 14.2, "pressure": 1013, "humidity": 81},
	"name": "London",
	"sys": {"country": "GB"},
	"cod": 200
}`
