package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-view/internal/weather"
)

// dateLayout is the fixed en-US short label, e.g. "Mon, Jan 15".
const dateLayout = "Mon, Jan 2"

// FormatDate formats t as a short weekday/month/day label.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatDateString parses a provider date label and formats it. Calendar
// dates are shown as-is; instants are converted to loc first. Labels that do
// not parse are returned unchanged.
func FormatDateString(s string, loc *time.Location) string {
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return FormatDate(d)
	}
	t, ok := weather.ParseDate(s)
	if !ok {
		return s
	}
	if loc != nil {
		t = t.In(loc)
	}
	return FormatDate(t)
}

func formatEntryDate(e weather.ForecastEntry, loc *time.Location) string {
	if _, err := time.Parse("2006-01-02", e.Date); err == nil || e.Time.IsZero() {
		return FormatDateString(e.Date, loc)
	}
	t := e.Time
	if loc != nil {
		t = t.In(loc)
	}
	return FormatDate(t)
}

// FormatTemp renders a temperature as a rounded integer in Celsius, or ""
// when absent.
func FormatTemp(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d°C", int(math.Round(*v)))
}

// FormatPercent renders a humidity value, or "" when absent.
func FormatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

// FormatSpeed renders a wind speed in m/s, or "" when absent.
func FormatSpeed(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " m/s"
}

// titleCase capitalises a free-text description ("light rain" -> "Light Rain").
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
