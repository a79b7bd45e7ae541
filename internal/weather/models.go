package weather

import (
	"strings"
	"time"
)

// Snapshot is the current-conditions view of a location at fetch time.
// Optional numeric fields are nil when the provider did not send them.
type Snapshot struct {
	Name        string   `json:"name"`
	Country     string   `json:"country,omitempty"`
	Description string   `json:"description,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`
}

// ForecastEntry is one future period as returned by the provider.
type ForecastEntry struct {
	// Time is the parsed instant of the period; zero when Date could not be parsed.
	Time time.Time `json:"time,omitempty"`
	// Date is the provider's raw date label.
	Date        string   `json:"date,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Report is the canonical result of one fetch: current conditions plus the
// forecast in provider order.
type Report struct {
	Location string          `json:"location"`
	Current  Snapshot        `json:"current"`
	Forecast []ForecastEntry `json:"forecast"`
}

// State is what a WeatherView displays.
type State struct {
	Query   string  `json:"query"`
	Report  *Report `json:"report,omitempty"`
	Loading bool    `json:"loading"`
	Error   string  `json:"error,omitempty"`
}

// NormalizeQuery trims surrounding whitespace from user input.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// ParseDate parses a provider date label: a calendar date (2006-01-02),
// an RFC3339 timestamp, or a date-time without zone (2006-01-02 15:04:05).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
