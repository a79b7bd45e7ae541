package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-view/internal/api/http"
	"github.com/i474232898/weather-view/internal/backend"
	"github.com/i474232898/weather-view/internal/config"
	"github.com/i474232898/weather-view/internal/render"
	"github.com/i474232898/weather-view/internal/scheduler"
	"github.com/i474232898/weather-view/internal/store"
	"github.com/i474232898/weather-view/internal/weather"
	"github.com/i474232898/weather-view/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls. A zero timeout leaves it to the transport.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	cache, err := store.Open(store.Config{
		Backend: cfg.CacheBackend,
		Path:    cfg.CachePath,
		Addr:    cfg.ValkeyAddr,
	})
	if err != nil {
		log.Fatalf("failed to open cache store: %v", err)
	}
	defer cache.Close()

	// Caching proxy in front of OpenWeatherMap.
	upstream := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)
	proxy := backend.NewService(upstream, cache, cfg.ProxyCacheTTL)

	// View service backing the HTML page.
	client, err := providers.New(cfg.APIShape, httpClient, cfg.APIBase)
	if err != nil {
		log.Fatalf("failed to build weather client: %v", err)
	}
	view := weather.NewService(client, cache, weather.WithCacheKey(cfg.CacheKey))

	sched := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, proxy)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-view",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-view",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Backend: proxy,
		View:    view,
		Render:  render.Options{Location: cfg.DisplayZone},
	})

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
