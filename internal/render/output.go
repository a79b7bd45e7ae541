package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Text writes v as plain text for a terminal.
func Text(w io.Writer, v View) error {
	var b strings.Builder

	switch {
	case v.Loading:
		b.WriteString("Loading...\n")
	case v.Error != "":
		fmt.Fprintf(&b, "Error: %s\n", v.Error)
	case v.Current != nil:
		fmt.Fprintf(&b, "%s\n", v.Header)
		fmt.Fprintf(&b, "%s %s\n", v.Current.Icon, v.Current.Description)
		fmt.Fprintf(&b, "Temperature: %s\n", v.Current.Temperature)
		fmt.Fprintf(&b, "Humidity: %s\n", v.Current.Humidity)
		fmt.Fprintf(&b, "Wind: %s\n", v.Current.Wind)

		if len(v.Forecast) > 0 {
			b.WriteString("\nWeekly Forecast\n")
			for _, f := range v.Forecast {
				fmt.Fprintf(&b, "  %-12s %s %-14s %s\n", f.Date, f.Icon, f.Condition, f.Temperature)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Weather Forecast</title></head>
<body>
<div class="app-container">
  <h1>Weather Forecast</h1>
  <form class="search-box" method="get" action="/">
    <input type="text" name="city" placeholder="Enter city name..." value="{{.Query}}" required>
    <button type="submit">Get Weather</button>
  </form>
  {{- if .Loading}}
  <div class="loading">Loading...</div>
  {{- else if .Error}}
  <div class="error">{{.Error}}</div>
  {{- else if .Current}}
  <div class="weather-info">
    <h2>{{.Header}}</h2>
    <p>{{.Current.Icon}} {{.Current.Description}}</p>
    <p>Temperature: {{.Current.Temperature}}</p>
    <p>Humidity: {{.Current.Humidity}}</p>
    <p>Wind: {{.Current.Wind}}</p>
  </div>
  {{- if .Forecast}}
  <div class="forecast">
    <h3>Weekly Forecast</h3>
    <div class="forecast-list">
      {{- range .Forecast}}
      <div class="forecast-item">
        <div>{{.Date}}</div>
        <div>{{.Icon}} {{.Condition}}</div>
        <div>{{.Temperature}}</div>
      </div>
      {{- end}}
    </div>
  </div>
  {{- end}}
  {{- end}}
</div>
</body>
</html>
`))

// Page writes v as a standalone HTML page.
func Page(w io.Writer, v View) error {
	return pageTmpl.Execute(w, v)
}
