package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-view/internal/weather"
)

// SplitClient fetches current conditions and the forecast from two separate
// endpoints: {base}/current?city= and {base}/forecast?city=.
type SplitClient struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewSplitClient creates a SplitClient rooted at baseURL.
func NewSplitClient(client *http.Client, baseURL string) *SplitClient {
	return &SplitClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{Client: client, Backoff: noRetry},
		circuit: newBreaker("split"),
	}
}

type splitCurrentPayload struct {
	Name string `json:"name"`
	Sys  *struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

type splitForecastPayload struct {
	List []struct {
		Dt      int64 `json:"dt"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
	} `json:"list"`
}

// Fetch issues the current request, then the forecast request once the first
// has resolved. Either failing fails the fetch.
func (c *SplitClient) Fetch(ctx context.Context, query string) (weather.Report, error) {
	var cur splitCurrentPayload
	if err := c.get(ctx, "current", query, &cur); err != nil {
		return weather.Report{}, fmt.Errorf("current weather: %w", err)
	}

	var fc splitForecastPayload
	if err := c.get(ctx, "forecast", query, &fc); err != nil {
		return weather.Report{}, fmt.Errorf("forecast: %w", err)
	}

	return splitToReport(query, cur, fc), nil
}

func (c *SplitClient) get(ctx context.Context, endpoint, query string, v any) error {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("city", query)
		u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return err
	}
	return decodeJSON(resp, v)
}

func splitToReport(query string, cur splitCurrentPayload, fc splitForecastPayload) weather.Report {
	snap := weather.Snapshot{Name: cur.Name}
	if cur.Sys != nil {
		snap.Country = cur.Sys.Country
	}
	if len(cur.Weather) > 0 {
		snap.Description = cur.Weather[0].Description
	}
	if cur.Main != nil {
		snap.Temperature = cur.Main.Temp
		snap.Humidity = cur.Main.Humidity
	}
	if cur.Wind != nil {
		snap.WindSpeed = cur.Wind.Speed
	}

	location := cur.Name
	if location == "" {
		location = query
	}

	entries := make([]weather.ForecastEntry, 0, len(fc.List))
	for _, item := range fc.List {
		ts := time.Unix(item.Dt, 0).UTC()
		e := weather.ForecastEntry{
			Time: ts,
			Date: ts.Format(time.RFC3339),
		}
		if len(item.Weather) > 0 {
			e.Condition = item.Weather[0].Main
		}
		if item.Main != nil {
			e.Temperature = item.Main.Temp
		}
		entries = append(entries, e)
	}

	return weather.Report{
		Location: location,
		Current:  snap,
		Forecast: entries,
	}
}

var _ weather.Client = (*SplitClient)(nil)
