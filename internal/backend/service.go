package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/i474232898/weather-view/internal/weather"
	"github.com/i474232898/weather-view/internal/weather/providers"
)

// DefaultCacheTTL is how long upstream payloads are reused.
const DefaultCacheTTL = 30 * time.Minute

// ErrCityRequired is returned when the city parameter is empty.
var ErrCityRequired = errors.New("city is required")

// Upstream fetches raw payloads from the weather provider.
type Upstream interface {
	Raw(ctx context.Context, endpoint, city string) (json.RawMessage, error)
}

// Service is the caching weather proxy the browser view talks to.
type Service struct {
	upstream Upstream
	cache    weather.CacheStore
	ttl      time.Duration
}

// NewService creates a proxy service. A ttl <= 0 selects DefaultCacheTTL.
func NewService(upstream Upstream, cache weather.CacheStore, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{upstream: upstream, cache: cache, ttl: ttl}
}

// Current returns the current-conditions payload for city.
func (s *Service) Current(ctx context.Context, city string) (json.RawMessage, error) {
	return s.fetch(ctx, providers.EndpointCurrent, city)
}

// Forecast returns the forecast payload for city.
func (s *Service) Forecast(ctx context.Context, city string) (json.RawMessage, error) {
	return s.fetch(ctx, providers.EndpointForecast, city)
}

// Combined fetches both payloads (current first) and maps them into one report.
func (s *Service) Combined(ctx context.Context, city string) (weather.Report, error) {
	cur, err := s.Current(ctx, city)
	if err != nil {
		return weather.Report{}, err
	}
	fc, err := s.Forecast(ctx, city)
	if err != nil {
		return weather.Report{}, err
	}
	return providers.ToReport(strings.TrimSpace(city), cur, fc)
}

// Warm loads both payloads for city into the cache.
func (s *Service) Warm(ctx context.Context, city string) error {
	if _, err := s.Current(ctx, city); err != nil {
		return err
	}
	_, err := s.Forecast(ctx, city)
	return err
}

func (s *Service) fetch(ctx context.Context, endpoint, city string) (json.RawMessage, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrCityRequired
	}

	key := cacheKey(endpoint, city)
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err != nil {
			log.Printf("ERROR: proxy cache read %s: %v", key, err)
		} else if ok {
			return json.RawMessage(raw), nil
		}
	}

	raw, err := s.upstream.Raw(ctx, endpoint, city)
	if err != nil {
		return nil, fmt.Errorf("%s for %q: %w", endpoint, city, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			log.Printf("ERROR: proxy cache write %s: %v", key, err)
		}
	}
	return raw, nil
}

func cacheKey(endpoint, city string) string {
	return "proxy:" + endpoint + ":" + city
}
