package render

import (
	"time"

	"github.com/i474232898/weather-view/internal/weather"
)

// MaxForecast is the number of forecast entries shown.
const MaxForecast = 7

// Options controls formatting.
type Options struct {
	// Location is the zone forecast instants are shown in; nil means UTC.
	Location *time.Location
}

// View is the display-ready form of a weather.State.
type View struct {
	Query   string
	Loading bool
	Error   string

	Header   string
	Current  *CurrentView
	Forecast []ForecastItem
}

// CurrentView holds formatted current conditions.
type CurrentView struct {
	Icon        string
	Description string
	Temperature string
	Humidity    string
	Wind        string
}

// ForecastItem is one formatted forecast row.
type ForecastItem struct {
	Date        string
	Icon        string
	Condition   string
	Temperature string
}

// Build maps state to a view. Loading takes precedence over an error, which
// takes precedence over results.
func Build(st weather.State, opts Options) View {
	v := View{Query: st.Query}

	switch {
	case st.Loading:
		v.Loading = true
		return v
	case st.Error != "":
		v.Error = st.Error
		return v
	case st.Report == nil:
		return v
	}

	r := st.Report
	v.Header = header(*r)
	v.Current = &CurrentView{
		Icon:        Icon(r.Current.Description),
		Description: titleCase(r.Current.Description),
		Temperature: FormatTemp(r.Current.Temperature),
		Humidity:    FormatPercent(r.Current.Humidity),
		Wind:        FormatSpeed(r.Current.WindSpeed),
	}

	entries := r.Forecast
	if len(entries) > MaxForecast {
		entries = entries[:MaxForecast]
	}
	v.Forecast = make([]ForecastItem, 0, len(entries))
	for _, e := range entries {
		v.Forecast = append(v.Forecast, ForecastItem{
			Date:        formatEntryDate(e, opts.Location),
			Icon:        Icon(e.Condition),
			Condition:   e.Condition,
			Temperature: FormatTemp(e.Temperature),
		})
	}
	return v
}

func header(r weather.Report) string {
	name := r.Current.Name
	if name == "" {
		name = r.Location
	}
	if r.Current.Country != "" {
		return name + ", " + r.Current.Country
	}
	return name
}
