package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// View client settings.
	APIBase     string        `validate:"required,url"`
	APIShape    string        `validate:"oneof=split combined-get combined-post"`
	HTTPTimeout time.Duration `validate:"gte=0"` // 0 = transport default

	// Cache storage.
	CacheBackend string `validate:"oneof=file memory sqlite valkey"`
	CachePath    string
	CacheKey     string `validate:"required"`
	ValkeyAddr   string `validate:"required_if=CacheBackend valkey"`

	// Proxy upstream.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string        `validate:"omitempty,url"`
	ProxyCacheTTL      time.Duration `validate:"gt=0"`

	// Cache warming.
	WarmLocations []string
	WarmInterval  time.Duration `validate:"gt=0"`

	// DisplayZone is the zone forecast dates are shown in.
	DisplayZone *time.Location `validate:"-"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.APIBase = getenvDefault("WEATHER_API_BASE", "http://localhost:"+cfg.Port+"/api/weather")
	cfg.APIShape = getenvDefault("WEATHER_API_SHAPE", "split")
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}

	cfg.CacheBackend = getenvDefault("CACHE_BACKEND", "file")
	cfg.CachePath = getenvDefault("CACHE_PATH", defaultCachePath(cfg.CacheBackend))
	cfg.CacheKey = getenvDefault("CACHE_KEY", "weatherCache")
	cfg.ValkeyAddr = os.Getenv("VALKEY_ADDR")

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = os.Getenv("OPENWEATHER_BASE_URL")
	if cfg.ProxyCacheTTL, err = getenvDuration("PROXY_CACHE_TTL", "30m"); err != nil {
		return nil, err
	}

	cfg.WarmLocations = splitList(os.Getenv("WARM_LOCATIONS"))
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	tz := getenvDefault("DISPLAY_TZ", "UTC")
	if cfg.DisplayZone, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TZ: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaultCachePath(backend string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	name := "cache.json"
	if backend == "sqlite" {
		name = "cache.db"
	}
	return filepath.Join(dir, "weatherview", name)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
