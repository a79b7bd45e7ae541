package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-view/internal/weather"
)

const defaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeather endpoints proxied by the backend.
const (
	EndpointCurrent  = "weather"
	EndpointForecast = "forecast"
)

// OpenWeatherClient talks to OpenWeatherMap on behalf of the proxy backend.
// It returns raw payloads so the proxy can pass them through unchanged.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherClient creates a client. An empty baseURL selects the public API.
func NewOpenWeatherClient(client *http.Client, baseURL, apiKey string) *OpenWeatherClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenWeatherBaseURL
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newBreaker("openweather"),
	}
}

// Raw fetches {base}/{endpoint}?q=city&units=metric&appid=KEY and returns the
// body after checking it is valid JSON.
func (c *OpenWeatherClient) Raw(ctx context.Context, endpoint, city string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: openweather api key is not configured", weather.ErrUpstream)
	}
	if endpoint != EndpointCurrent && endpoint != EndpointForecast {
		return nil, fmt.Errorf("unknown openweather endpoint %q", endpoint)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", city)
		values.Set("units", "metric")
		values.Set("appid", c.apiKey)

		u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s response is not JSON", weather.ErrDecode, endpoint)
	}
	return json.RawMessage(body), nil
}

// ToReport maps a pair of raw OpenWeather payloads into the canonical report.
// OpenWeather's current/forecast shapes are the split endpoint shapes.
func ToReport(city string, current, forecast json.RawMessage) (weather.Report, error) {
	var cur splitCurrentPayload
	if err := json.Unmarshal(current, &cur); err != nil {
		return weather.Report{}, fmt.Errorf("%w: current: %v", weather.ErrDecode, err)
	}
	var fc splitForecastPayload
	if err := json.Unmarshal(forecast, &fc); err != nil {
		return weather.Report{}, fmt.Errorf("%w: forecast: %v", weather.ErrDecode, err)
	}
	return splitToReport(city, cur, fc), nil
}
