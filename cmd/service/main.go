package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/climate-resilience-service/internal/cache"
	"github.com/kjstillabower/climate-resilience-service/internal/chat"
	"github.com/kjstillabower/climate-resilience-service/internal/client"
	"github.com/kjstillabower/climate-resilience-service/internal/config"
	httphandler "github.com/kjstillabower/climate-resilience-service/internal/http"
	"github.com/kjstillabower/climate-resilience-service/internal/lifecycle"
	"github.com/kjstillabower/climate-resilience-service/internal/observability"
	"github.com/kjstillabower/climate-resilience-service/internal/service"
	"github.com/kjstillabower/climate-resilience-service/internal/trend"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	estimator := trend.MustNewEstimator(trend.DefaultHistory())
	logger.Info("trend models fitted",
		zap.Float64s("temperature_coefficients", estimator.TemperatureModel().Coefficients()),
		zap.Float64s("rainfall_coefficients", estimator.RainfallModel().Coefficients()),
		zap.Int("horizon_day", estimator.Horizon()),
	)

	weatherClient, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}

	gateway, memcacheCloser, err := newGateway(cfg, weatherClient)
	if err != nil {
		logger.Fatal("cache", zap.Error(err))
	}
	logger.Info("cache backend", zap.String("backend", cfg.CacheBackend), zap.Duration("ttl", cfg.CacheTTL))

	var replier httphandler.Replier
	if cfg.ChatEnabled() {
		gemini, err := chat.NewGeminiClient(cfg.ChatAPIKey,
			chat.WithBaseURL(cfg.ChatAPIURL),
			chat.WithModel(cfg.ChatModel),
			chat.WithHTTPClient(&http.Client{Timeout: cfg.ChatTimeout}),
		)
		if err != nil {
			logger.Fatal("chat client", zap.Error(err))
		}
		chatSvc, err := chat.NewService(gemini)
		if err != nil {
			logger.Fatal("chat service", zap.Error(err))
		}
		replier = chatSvc
		logger.Info("chat enabled", zap.String("model", cfg.ChatModel))
	} else {
		logger.Warn("GEMINI_API_KEY not set; /chat will answer 503")
	}

	predictor := service.NewPredictionService(gateway, estimator)

	healthConfig := &httphandler.HealthConfig{}
	if memcacheCloser != nil {
		healthConfig.CachePing = memcacheCloser.Ping
	}

	limits := httphandler.Limits{
		CityMinLength:    cfg.CityMinLength,
		CityMaxLength:    cfg.CityMaxLength,
		MessageMaxLength: cfg.MessageMaxLength,
	}
	handler := httphandler.NewHandler(predictor, replier, weatherClient, limits, healthConfig, logger)

	if len(cfg.TrackedCities) > 0 {
		observability.SetTrackedCities(cfg.TrackedCities)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httphandler.NewRouter(handler, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ChatTimeout + 5*time.Second,
	}

	lifecycle.MarkStarted(time.Now())
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.InFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.InFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry flush: %v\n", err)
	}
}

// newGateway wraps weatherClient with the configured cache backend. The returned memcached
// handle is nil unless that backend is selected; the caller closes it on shutdown.
func newGateway(cfg *config.Config, weatherClient client.WeatherGateway) (client.WeatherGateway, *cache.MemcachedCache, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendMemcached:
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			return nil, nil, fmt.Errorf("memcached cache: %w", err)
		}
		return cache.NewCachedGateway(weatherClient, mc, cfg.CacheTTL), mc, nil
	case config.CacheBackendInMemory:
		return cache.NewCachedGateway(weatherClient, cache.NewInMemoryCache(), cfg.CacheTTL), nil, nil
	default:
		return weatherClient, nil, nil
	}
}
