package httpapi

import (
	"bytes"
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-view/internal/backend"
	"github.com/i474232898/weather-view/internal/render"
	"github.com/i474232898/weather-view/internal/weather"
	"github.com/i474232898/weather-view/internal/weather/providers"
)

var validate = validator.New()

const (
	msgCityRequired = "City is required"
	msgNotFound     = "Location not found"
	msgNoForecast   = "No forecast data found"
)

// Deps are the services the routes need.
type Deps struct {
	Backend *backend.Service
	View    *weather.Service
	Render  render.Options
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/", pageHandler(deps))

	api := app.Group("/api/weather")

	// Static routes are registered before the :query routes so they win.
	api.Get("/current", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, msgCityRequired)
		}

		raw, err := deps.Backend.Current(c.UserContext(), q.City)
		if err != nil {
			log.Printf("ERROR: current weather for %q: %v", q.City, err)
			return jsonError(c, fiber.StatusInternalServerError, weather.FetchFailedMessage)
		}
		return sendRaw(c, raw)
	})

	api.Get("/forecast", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, msgCityRequired)
		}

		raw, err := deps.Backend.Forecast(c.UserContext(), q.City)
		if err != nil {
			log.Printf("ERROR: forecast for %q: %v", q.City, err)
			return jsonError(c, fiber.StatusInternalServerError, msgNoForecast)
		}
		return sendRaw(c, raw)
	})

	combined := combinedHandler(deps)
	api.Get("/:query", combined)
	api.Post("/:query", combined)
}

// cityQuery holds the city query parameter of the proxy endpoints.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: strings.TrimSpace(c.Query("city"))}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func combinedHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("query")
		city, err := url.PathUnescape(raw)
		if err != nil {
			city = raw
		}
		q := cityQuery{City: strings.TrimSpace(city)}
		if err := validate.Struct(q); err != nil {
			return jsonError(c, fiber.StatusBadRequest, msgCityRequired)
		}

		report, err := deps.Backend.Combined(c.UserContext(), q.City)
		if err != nil {
			log.Printf("ERROR: combined weather for %q: %v", q.City, err)
			if errors.Is(err, weather.ErrNotFound) {
				return jsonError(c, fiber.StatusNotFound, msgNotFound)
			}
			return jsonError(c, fiber.StatusInternalServerError, weather.FetchFailedMessage)
		}
		return c.JSON(providers.ReportToCombined(report))
	}
}

func pageHandler(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := weather.State{Query: weather.NormalizeQuery(c.Query("city"))}

		if st.Query != "" {
			report, err := deps.View.Lookup(c.UserContext(), st.Query)
			if err != nil {
				log.Printf("ERROR: page lookup for %q: %v", st.Query, err)
				st.Error = weather.FetchFailedMessage
			} else {
				st.Report = &report
			}
		}

		var buf bytes.Buffer
		if err := render.Page(&buf, render.Build(st, deps.Render)); err != nil {
			return err
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	}
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func sendRaw(c *fiber.Ctx, raw []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
