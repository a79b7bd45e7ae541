package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-view/internal/weather"
)

// CombinedClient fetches current conditions and forecast in one call to
// {base}/api/weather/{query}, using GET or POST.
type CombinedClient struct {
	baseURL string
	method  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewCombinedClient creates a CombinedClient. method must be GET or POST.
func NewCombinedClient(client *http.Client, baseURL, method string) (*CombinedClient, error) {
	method = strings.ToUpper(method)
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("unsupported method %q for combined endpoint", method)
	}
	return &CombinedClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		method:  method,
		httpCfg: HTTPClientConfig{Client: client, Backoff: noRetry},
		circuit: newBreaker("combined-" + strings.ToLower(method)),
	}, nil
}

// CombinedPayload is the wire shape of the combined endpoint.
type CombinedPayload struct {
	Location string                 `json:"location"`
	Current  *CombinedCurrent       `json:"current"`
	Forecast []CombinedForecastItem `json:"forecast"`
}

// CombinedCurrent is the "current" object of CombinedPayload.
type CombinedCurrent struct {
	Temp      *float64 `json:"temp"`
	Condition string   `json:"condition"`
	Humidity  *float64 `json:"humidity"`
	WindSpeed *float64 `json:"windSpeed"`
}

// CombinedForecastItem is one entry of the "forecast" array.
type CombinedForecastItem struct {
	Date      string   `json:"date"`
	Temp      *float64 `json:"temp"`
	Condition string   `json:"condition"`
}

// Fetch issues a single request to the combined endpoint and maps the
// payload into a report.
func (c *CombinedClient) Fetch(ctx context.Context, query string) (weather.Report, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/api/weather/%s", c.baseURL, url.PathEscape(query))
		req, err := http.NewRequest(c.method, u, nil)
		if err != nil {
			return nil, err
		}
		if c.method == http.MethodPost {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return weather.Report{}, err
	}

	var payload CombinedPayload
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Report{}, err
	}
	return CombinedToReport(query, payload), nil
}

// CombinedToReport maps the combined wire shape into the canonical report.
func CombinedToReport(query string, p CombinedPayload) weather.Report {
	location := p.Location
	if location == "" {
		location = query
	}

	snap := weather.Snapshot{Name: location}
	if p.Current != nil {
		snap.Description = p.Current.Condition
		snap.Temperature = p.Current.Temp
		snap.Humidity = p.Current.Humidity
		snap.WindSpeed = p.Current.WindSpeed
	}

	entries := make([]weather.ForecastEntry, 0, len(p.Forecast))
	for _, item := range p.Forecast {
		e := weather.ForecastEntry{
			Date:        item.Date,
			Condition:   item.Condition,
			Temperature: item.Temp,
		}
		if ts, ok := weather.ParseDate(item.Date); ok {
			e.Time = ts
		}
		entries = append(entries, e)
	}

	return weather.Report{
		Location: location,
		Current:  snap,
		Forecast: entries,
	}
}

// ReportToCombined is the inverse of CombinedToReport, used by servers that
// expose the combined endpoint.
func ReportToCombined(r weather.Report) CombinedPayload {
	items := make([]CombinedForecastItem, 0, len(r.Forecast))
	for _, e := range r.Forecast {
		items = append(items, CombinedForecastItem{
			Date:      e.Date,
			Temp:      e.Temperature,
			Condition: e.Condition,
		})
	}
	return CombinedPayload{
		Location: r.Location,
		Current: &CombinedCurrent{
			Temp:      r.Current.Temperature,
			Condition: r.Current.Description,
			Humidity:  r.Current.Humidity,
			WindSpeed: r.Current.WindSpeed,
		},
		Forecast: items,
	}
}

var _ weather.Client = (*CombinedClient)(nil)
