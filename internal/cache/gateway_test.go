package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kjstillabower/climate-resilience-service/internal/models"
	"github.com/kjstillabower/climate-resilience-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockGateway struct {
	reports map[string]models.WeatherReport
	err     error
	calls   int
}

func (m *mockGateway) CurrentWeather(ctx context.Context, city string) (models.WeatherReport, error) {
	m.calls++
	if m.err != nil {
		return models.WeatherReport{}, m.err
	}
	return m.reports[city], nil
}

type failingCache struct{ sets int }

func (f *failingCache) Get(ctx context.Context, key string) (models.WeatherReport, bool, error) {
	return models.WeatherReport{}, false, errors.New("cache get: connection reset")
}

func (f *failingCache) Set(ctx context.Context, key string, value models.WeatherReport, ttl time.Duration) error {
	f.sets++
	return errors.New("cache set: connection reset")
}

func TestCachedGateway_HitAfterMiss(t *testing.T) {
	upstream := &mockGateway{reports: map[string]models.WeatherReport{"Pune": report("Pune", 29, 3)}}
	g := NewCachedGateway(upstream, NewInMemoryCache(), time.Minute)
	ctx := context.Background()

	hitsBefore := testutil.ToFloat64(observability.ObservationCacheTotal.WithLabelValues("hit"))

	first, err := g.CurrentWeather(ctx, "Pune")
	if err != nil {
		t.Fatalf("CurrentWeather() error = %v", err)
	}
	second, err := g.CurrentWeather(ctx, "pune ")
	if err != nil {
		t.Fatalf("CurrentWeather() error = %v", err)
	}

	if upstream.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", upstream.calls)
	}
	t1, _ := first.Temperature()
	t2, _ := second.Temperature()
	if t1 != t2 || first.RainfallLastHour() != second.RainfallLastHour() {
		t.Errorf("cached report differs: %v/%v vs %v/%v", t1, first.RainfallLastHour(), t2, second.RainfallLastHour())
	}
	if got := testutil.ToFloat64(observability.ObservationCacheTotal.WithLabelValues("hit")); got != hitsBefore+1 {
		t.Errorf("observationCacheTotal{hit} = %v, want %v", got, hitsBefore+1)
	}
}

func TestCachedGateway_DoesNotStoreReportWithoutTemperature(t *testing.T) {
	upstream := &mockGateway{reports: map[string]models.WeatherReport{}}
	c := NewInMemoryCache()
	g := NewCachedGateway(upstream, c, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := g.CurrentWeather(context.Background(), "Atlantis"); err != nil {
			t.Fatalf("CurrentWeather() error = %v", err)
		}
	}
	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", upstream.calls)
	}
	if c.Len() != 0 {
		t.Errorf("cache Len() = %d, want 0", c.Len())
	}
}

func TestCachedGateway_PropagatesUpstreamError(t *testing.T) {
	wantErr := errors.New("upstream failure")
	upstream := &mockGateway{err: wantErr}
	c := NewInMemoryCache()
	g := NewCachedGateway(upstream, c, time.Minute)

	_, err := g.CurrentWeather(context.Background(), "Delhi")
	if !errors.Is(err, wantErr) {
		t.Errorf("CurrentWeather() error = %v, want %v", err, wantErr)
	}
	if c.Len() != 0 {
		t.Errorf("cache Len() = %d, want 0 after error", c.Len())
	}
}

func TestCachedGateway_CacheFailureFallsThrough(t *testing.T) {
	upstream := &mockGateway{reports: map[string]models.WeatherReport{"Delhi": report("Delhi", 40, 0)}}
	fc := &failingCache{}
	g := NewCachedGateway(upstream, fc, time.Minute)

	got, err := g.CurrentWeather(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("CurrentWeather() error = %v, want nil when only the cache fails", err)
	}
	if temp, _ := got.Temperature(); temp != 40 {
		t.Errorf("Temperature = %v, want 40", temp)
	}
	if fc.sets != 1 {
		t.Errorf("cache Set calls = %d, want 1", fc.sets)
	}
}

func TestCachedGateway_ZeroTTLDisablesStore(t *testing.T) {
	upstream := &mockGateway{reports: map[string]models.WeatherReport{"Pune": report("Pune", 29, 0)}}
	c := NewInMemoryCache()
	g := NewCachedGateway(upstream, c, 0)

	_, _ = g.CurrentWeather(context.Background(), "Pune")
	_, _ = g.CurrentWeather(context.Background(), "Pune")
	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", upstream.calls)
	}
}
