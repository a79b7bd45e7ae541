package backend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-view/internal/store"
	"github.com/i474232898/weather-view/internal/weather"
	"github.com/i474232898/weather-view/internal/weather/providers"
)

type fakeUpstream struct {
	calls    []string
	payloads map[string]string
	err      error
}

func (f *fakeUpstream) Raw(_ context.Context, endpoint, city string) (json.RawMessage, error) {
	f.calls = append(f.calls, endpoint+":"+city)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.payloads[endpoint]), nil
}

func newUpstream() *fakeUpstream {
	return &fakeUpstream{payloads: map[string]string{
		providers.EndpointCurrent:  `{"name":"Rome","sys":{"country":"IT"},"weather":[{"description":"clear sky"}],"main":{"temp":21,"humidity":40},"wind":{"speed":2}}`,
		providers.EndpointForecast: `{"list":[{"dt":1705320000,"weather":[{"main":"Clear"}],"main":{"temp":19}}]}`,
	}}
}

func TestCurrentIsCached(t *testing.T) {
	up := newUpstream()
	svc := NewService(up, store.NewMemoryStore(), time.Minute)
	ctx := context.Background()

	first, err := svc.Current(ctx, "Rome")
	require.NoError(t, err)
	second, err := svc.Current(ctx, " Rome ")
	require.NoError(t, err)

	require.JSONEq(t, string(first), string(second))
	require.Equal(t, []string{"weather:Rome"}, up.calls)
}

func TestCityRequired(t *testing.T) {
	svc := NewService(newUpstream(), nil, 0)
	_, err := svc.Forecast(context.Background(), "  ")
	require.ErrorIs(t, err, ErrCityRequired)
}

func TestFailuresAreNotCached(t *testing.T) {
	up := newUpstream()
	up.err = weather.ErrUpstream
	svc := NewService(up, store.NewMemoryStore(), time.Minute)
	ctx := context.Background()

	_, err := svc.Current(ctx, "Rome")
	require.True(t, errors.Is(err, weather.ErrUpstream))

	up.err = nil
	_, err = svc.Current(ctx, "Rome")
	require.NoError(t, err)
	require.Len(t, up.calls, 2)
}

func TestCombinedAndWarm(t *testing.T) {
	up := newUpstream()
	svc := NewService(up, store.NewMemoryStore(), time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx, "Rome"))
	require.Equal(t, []string{"weather:Rome", "forecast:Rome"}, up.calls)

	r, err := svc.Combined(ctx, "Rome")
	require.NoError(t, err)
	require.Len(t, up.calls, 2, "combined is served from the warmed cache")
	require.Equal(t, "Rome", r.Location)
	require.Equal(t, "IT", r.Current.Country)
	require.Len(t, r.Forecast, 1)
	require.Equal(t, "Clear", r.Forecast[0].Condition)
}
