package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kjstillabower/climate-resilience-service/internal/models"
)

// Cache stores weather reports keyed by normalized city name.
// Get returns (report, true, nil) on hit and (zero, false, nil) on miss or expiry.
type Cache interface {
	Get(ctx context.Context, key string) (models.WeatherReport, bool, error)
	Set(ctx context.Context, key string, value models.WeatherReport, ttl time.Duration) error
}

// InMemoryCache is a mutex-guarded map with per-entry expiry. Expired entries are dropped on access.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string]cacheEntry
	now  func() time.Time
}

type cacheEntry struct {
	value     models.WeatherReport
	expiresAt time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string]cacheEntry),
		now:  time.Now,
	}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (models.WeatherReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return models.WeatherReport{}, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.data, key)
		return models.WeatherReport{}, false, nil
	}
	return entry.value, true, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value models.WeatherReport, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Key normalizes a city name into a cache key: trimmed and lower-cased, so "Pune" and " pune"
// share an entry.
func Key(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
