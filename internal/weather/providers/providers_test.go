package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-view/internal/weather"
)

const currentJSON = `{
	"name": "London",
	"sys": {"country": "GB"},
	"weather": [{"description": "light rain"}],
	"main": {"temp": 11.6, "humidity": 81},
	"wind": {"speed": 4.63}
}`

const forecastJSON = `{
	"list": [
		{"dt": 1705320000, "weather": [{"main": "Rain"}], "main": {"temp": 9.2}},
		{"dt": 1705406400, "weather": [], "main": {}},
		{"dt": 1705492800}
	]
}`

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, req.Method+" "+req.URL.RequestURI())
}

func TestSplitClientFetch(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		switch r.URL.Path {
		case "/current":
			_, _ = w.Write([]byte(currentJSON))
		case "/forecast":
			_, _ = w.Write([]byte(forecastJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewSplitClient(srv.Client(), srv.URL+"/")
	report, err := c.Fetch(context.Background(), "New York")
	require.NoError(t, err)

	require.Equal(t, []string{
		"GET /current?city=New+York",
		"GET /forecast?city=New+York",
	}, rec.paths)

	require.Equal(t, "London", report.Location)
	require.Equal(t, "GB", report.Current.Country)
	require.Equal(t, "light rain", report.Current.Description)
	require.InDelta(t, 11.6, *report.Current.Temperature, 1e-9)
	require.InDelta(t, 81, *report.Current.Humidity, 1e-9)
	require.InDelta(t, 4.63, *report.Current.WindSpeed, 1e-9)

	require.Len(t, report.Forecast, 3)
	require.Equal(t, time.Unix(1705320000, 0).UTC(), report.Forecast[0].Time)
	require.Equal(t, "Rain", report.Forecast[0].Condition)
	require.Empty(t, report.Forecast[1].Condition)
	require.Nil(t, report.Forecast[1].Temperature)
	require.Nil(t, report.Forecast[2].Temperature)
}

func TestSplitClientForecastFailureFailsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/current" {
			_, _ = w.Write([]byte(currentJSON))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewSplitClient(srv.Client(), srv.URL).Fetch(context.Background(), "London")
	require.ErrorIs(t, err, weather.ErrUpstream)
}

func TestSplitClientCurrentFailureSkipsForecast(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewSplitClient(srv.Client(), srv.URL).Fetch(context.Background(), "Nowhere")
	require.ErrorIs(t, err, weather.ErrNotFound)
	require.Len(t, rec.paths, 1, "no retry and no forecast call after a failed current call")
}

func TestSplitClientMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	_, err := NewSplitClient(srv.Client(), srv.URL).Fetch(context.Background(), "London")
	require.ErrorIs(t, err, weather.ErrDecode)
}

func TestCombinedClientMethods(t *testing.T) {
	const body = `{
		"location": "Paris",
		"current": {"temp": 18.4, "condition": "Partly Cloudy", "humidity": 60, "windSpeed": 3},
		"forecast": [
			{"date": "2024-01-15", "temp": 17, "condition": "Sunny"},
			{"date": "not a date", "condition": "Fog"}
		]
	}`

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			var gotMethod, gotPath, gotCT string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.EscapedPath()
				gotCT = r.Header.Get("Content-Type")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			c, err := NewCombinedClient(srv.Client(), srv.URL, method)
			require.NoError(t, err)

			report, err := c.Fetch(context.Background(), "São Paulo")
			require.NoError(t, err)

			require.Equal(t, method, gotMethod)
			require.Equal(t, "/api/weather/S%C3%A3o%20Paulo", gotPath)
			if method == http.MethodPost {
				require.Equal(t, "application/json", gotCT)
			}

			require.Equal(t, "Paris", report.Location)
			require.Equal(t, "Partly Cloudy", report.Current.Description)
			require.Len(t, report.Forecast, 2)
			require.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), report.Forecast[0].Time)
			require.True(t, report.Forecast[1].Time.IsZero())
			require.Equal(t, "not a date", report.Forecast[1].Date)
			require.Nil(t, report.Forecast[1].Temperature)
		})
	}
}

func TestCombinedRoundTripThroughReport(t *testing.T) {
	r := weather.Report{
		Location: "Oslo",
		Current:  weather.Snapshot{Name: "Oslo", Description: "Snow", Temperature: weather.Float(-3)},
		Forecast: []weather.ForecastEntry{{Date: "2024-01-16", Condition: "Snow", Temperature: weather.Float(-5)}},
	}
	back := CombinedToReport("Oslo", ReportToCombined(r))
	require.Equal(t, r.Current, back.Current)
	require.Equal(t, "2024-01-16", back.Forecast[0].Date)
}

func TestNewRejectsUnknownShape(t *testing.T) {
	_, err := New("graphql", http.DefaultClient, "http://localhost")
	require.Error(t, err)

	_, err = NewCombinedClient(http.DefaultClient, "http://localhost", http.MethodPut)
	require.Error(t, err)

	for _, shape := range []string{ShapeSplit, ShapeCombinedGet, ShapeCombinedPost} {
		c, err := New(shape, http.DefaultClient, "http://localhost")
		require.NoError(t, err)
		require.NotNil(t, c)
	}
}

func TestOpenWeatherClientRaw(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(currentJSON))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient(srv.Client(), srv.URL, "secret")
	raw, err := c.Raw(context.Background(), EndpointCurrent, "London")
	require.NoError(t, err)
	require.JSONEq(t, currentJSON, string(raw))
	require.Equal(t, "/weather", gotPath)
	require.Equal(t, "appid=secret&q=London&units=metric", gotQuery)

	_, err = NewOpenWeatherClient(srv.Client(), srv.URL, "").Raw(context.Background(), EndpointCurrent, "London")
	require.ErrorIs(t, err, weather.ErrUpstream)
}

func TestToReport(t *testing.T) {
	r, err := ToReport("London", []byte(currentJSON), []byte(forecastJSON))
	require.NoError(t, err)
	require.Equal(t, "London", r.Current.Name)
	require.Len(t, r.Forecast, 3)

	_, err = ToReport("London", []byte("{"), []byte(forecastJSON))
	require.ErrorIs(t, err, weather.ErrDecode)
}

func TestUnknownCitiesDoNotTripBreaker(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		if r.URL.Query().Get("city") != "London" {
			http.NotFound(w, r)
			return
		}
		switch r.URL.Path {
		case "/current":
			_, _ = w.Write([]byte(currentJSON))
		case "/forecast":
			_, _ = w.Write([]byte(forecastJSON))
		}
	}))
	defer srv.Close()

	c := NewSplitClient(srv.Client(), srv.URL)
	for i := 0; i < 10; i++ {
		_, err := c.Fetch(context.Background(), "Typo")
		require.ErrorIs(t, err, weather.ErrNotFound)
	}

	report, err := c.Fetch(context.Background(), "London")
	require.NoError(t, err)
	require.Equal(t, "London", report.Location)
	require.Len(t, rec.paths, 12)
	require.Equal(t, "GET /forecast?city=London", rec.paths[11])
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		if r.URL.Query().Get("q") != "London" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(currentJSON))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient(srv.Client(), srv.URL, "secret")
	c.httpCfg.Backoff = noRetry
	for i := 0; i < 10; i++ {
		_, err := c.Raw(context.Background(), EndpointCurrent, "")
		require.ErrorIs(t, err, weather.ErrUpstream)
		require.NotErrorIs(t, err, errCircuitOpen)
	}

	_, err := c.Raw(context.Background(), EndpointCurrent, "London")
	require.NoError(t, err)
	require.Len(t, rec.paths, 11)
}

func TestServerErrorsTripBreaker(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewSplitClient(srv.Client(), srv.URL)
	for i := 0; i < 6; i++ {
		_, err := c.Fetch(context.Background(), "London")
		require.ErrorIs(t, err, weather.ErrUpstream)
	}

	_, err := c.Fetch(context.Background(), "London")
	require.ErrorIs(t, err, errCircuitOpen)
	require.Len(t, rec.paths, 6)
}

func TestBreakerSuccess(t *testing.T) {
	require.True(t, breakerSuccess(nil))
	require.True(t, breakerSuccess(weather.ErrNotFound))
	require.True(t, breakerSuccess(fmt.Errorf("%w: %w: %d", errUnexpected, errClientStatus, 400)))
	require.False(t, breakerSuccess(errRateLimited))
	require.False(t, breakerSuccess(fmt.Errorf("%w: %d", errServerError, 503)))
}
