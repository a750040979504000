package cache

import (
	"context"
	"time"

	"github.com/kjstillabower/climate-resilience-service/internal/client"
	"github.com/kjstillabower/climate-resilience-service/internal/models"
	"github.com/kjstillabower/climate-resilience-service/internal/observability"
	"go.uber.org/zap"
)

// CachedGateway serves repeated lookups for a city from a Cache for ttl. Only reports carrying
// main.temp are stored, so an unknown city is asked upstream every time. Cache errors are
// logged and fall through to the wrapped gateway.
type CachedGateway struct {
	next  client.WeatherGateway
	cache Cache
	ttl   time.Duration
}

// NewCachedGateway wraps next. A non-positive ttl disables storing.
func NewCachedGateway(next client.WeatherGateway, c Cache, ttl time.Duration) *CachedGateway {
	return &CachedGateway{next: next, cache: c, ttl: ttl}
}

func (g *CachedGateway) CurrentWeather(ctx context.Context, city string) (models.WeatherReport, error) {
	logger := observability.LoggerFromContext(ctx)
	key := Key(city)

	report, ok, err := g.cache.Get(ctx, key)
	switch {
	case err != nil:
		observability.ObservationCacheTotal.WithLabelValues("error").Inc()
		logger.Warn("observation cache get failed", zap.String("city", city), zap.Error(err))
	case ok:
		observability.ObservationCacheTotal.WithLabelValues("hit").Inc()
		return report, nil
	default:
		observability.ObservationCacheTotal.WithLabelValues("miss").Inc()
	}

	report, err = g.next.CurrentWeather(ctx, city)
	if err != nil {
		return models.WeatherReport{}, err
	}
	if _, hasTemp := report.Temperature(); hasTemp && g.ttl > 0 {
		if err := g.cache.Set(ctx, key, report, g.ttl); err != nil {
			logger.Warn("observation cache set failed", zap.String("city", city), zap.Error(err))
		}
	}
	return report, nil
}
