//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/climate-resilience-service/internal/cache"
	"github.com/kjstillabower/climate-resilience-service/internal/chat"
	"github.com/kjstillabower/climate-resilience-service/internal/client"
	"github.com/kjstillabower/climate-resilience-service/internal/config"
	"github.com/kjstillabower/climate-resilience-service/internal/service"
	"github.com/kjstillabower/climate-resilience-service/internal/trend"
)

// IntegrationTestConfig holds configuration for tests that hit live upstreams.
type IntegrationTestConfig struct {
	WeatherAPIKey string
	WeatherAPIURL string
	GeminiAPIKey  string
	CacheBackend  string // none, in_memory or memcached
	MemcachedAddr string
}

// GetIntegrationConfig reads integration settings from the environment.
// Skips the test if WEATHER_API_KEY is not set.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}

	apiURL := os.Getenv("WEATHER_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openweathermap.org/data/2.5/weather"
	}

	backend := os.Getenv("INTEGRATION_CACHE_BACKEND")
	if backend == "" {
		backend = config.CacheBackendNone
	}

	memcachedAddr := os.Getenv("MEMCACHED_ADDRS")
	if memcachedAddr == "" {
		memcachedAddr = "localhost:11211"
	}

	return IntegrationTestConfig{
		WeatherAPIKey: apiKey,
		WeatherAPIURL: apiURL,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		CacheBackend:  backend,
		MemcachedAddr: memcachedAddr,
	}
}

// SetupIntegrationClient creates a live OpenWeatherMap client.
func SetupIntegrationClient(t *testing.T, cfg IntegrationTestConfig) *client.OpenWeatherClient {
	t.Helper()
	c, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}
	return c
}

// SetupIntegrationService builds a PredictionService over the live client and the configured
// cache backend. Memcached falls back to in-memory when it cannot be reached.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) *service.PredictionService {
	t.Helper()
	var gateway client.WeatherGateway = SetupIntegrationClient(t, cfg)

	switch cfg.CacheBackend {
	case config.CacheBackendMemcached:
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddr, 500*time.Millisecond, 2)
		if err == nil && mc.Ping() == nil {
			t.Cleanup(func() { _ = mc.Close() })
			gateway = cache.NewCachedGateway(gateway, mc, time.Minute)
			t.Logf("Using Memcached cache at %s", cfg.MemcachedAddr)
			break
		}
		t.Logf("Memcached not available at %s, using in-memory cache", cfg.MemcachedAddr)
		gateway = cache.NewCachedGateway(gateway, cache.NewInMemoryCache(), time.Minute)
	case config.CacheBackendInMemory:
		gateway = cache.NewCachedGateway(gateway, cache.NewInMemoryCache(), time.Minute)
	}

	return service.NewPredictionService(gateway, trend.MustNewEstimator(trend.DefaultHistory()))
}

// SetupIntegrationChat creates a chat service against the live Gemini API.
// Skips the test if GEMINI_API_KEY is not set.
func SetupIntegrationChat(t *testing.T, cfg IntegrationTestConfig) *chat.Service {
	t.Helper()
	if cfg.GeminiAPIKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping chat integration test")
	}
	gemini, err := chat.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		t.Fatalf("NewGeminiClient() error = %v", err)
	}
	svc, err := chat.NewService(gemini)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}
