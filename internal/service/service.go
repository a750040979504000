package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kjstillabower/climate-resilience-service/internal/client"
	"github.com/kjstillabower/climate-resilience-service/internal/models"
	"github.com/kjstillabower/climate-resilience-service/internal/observability"
	"github.com/kjstillabower/climate-resilience-service/internal/rules"
)

// TrendEstimator is the read-only view of the fitted trend models. *trend.Estimator implements it.
type TrendEstimator interface {
	Horizon() int
	PredictTemperature(day int) float64
	PredictRainfall(day int) float64
}

// PredictionService combines one gateway observation with the trend models and rule tables.
// It holds no mutable state and is safe for concurrent use.
type PredictionService struct {
	gateway   client.WeatherGateway
	estimator TrendEstimator
}

func NewPredictionService(gateway client.WeatherGateway, estimator TrendEstimator) *PredictionService {
	return &PredictionService{gateway: gateway, estimator: estimator}
}

// PredictForCity fetches the current observation for city and derives the prediction. Any gateway
// failure, or a report without main.temp, yields *CityNotFoundError. There is no retry and no
// timeout beyond the gateway's own.
func (s *PredictionService) PredictForCity(ctx context.Context, city string) (models.PredictionResult, error) {
	start := time.Now()
	logger := observability.LoggerFromContext(ctx)
	observability.RecordCityQuery(city)

	report, err := s.gateway.CurrentWeather(ctx, city)
	if err != nil {
		observability.CityNotFoundTotal.Inc()
		logger.Info("weather lookup failed",
			zap.String("city", city),
			zap.String("category", string(client.CategorizeError(err))),
			zap.Error(err),
		)
		return models.PredictionResult{}, &CityNotFoundError{City: city, Err: err}
	}

	temp, ok := report.Temperature()
	if !ok {
		observability.CityNotFoundTotal.Inc()
		logger.Info("weather report has no temperature", zap.String("city", city))
		return models.PredictionResult{}, &CityNotFoundError{City: city}
	}

	obs := models.Observation{
		City:        city,
		Temperature: temp,
		RainfallMM:  report.RainfallLastHour(),
	}

	risk := rules.Classify(obs.RainfallMM, obs.Temperature)
	advisory := rules.Advise(obs.RainfallMM, obs.Temperature)
	observability.PredictionsTotal.WithLabelValues(string(risk.Level), string(advisory.Kind)).Inc()

	result := models.PredictionResult{
		City:          capitalize(city),
		ObservedTemp:  obs.Temperature,
		PredictedTemp: s.estimator.PredictTemperature(s.estimator.Horizon()),
		RainfallMM:    obs.RainfallMM,
		Risk:          risk.String(),
		Advisory:      advisory.String(),
	}

	logger.Debug("prediction served",
		zap.String("city", city),
		zap.Float64("temperature", obs.Temperature),
		zap.Float64("rainfall_mm", obs.RainfallMM),
		zap.String("risk", string(risk.Level)),
		zap.String("advisory", string(advisory.Kind)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// Forecast evaluates both trend models at day. Temperature is returned as fitted; rainfall is
// floored at 0 since a linear fit can extrapolate below it.
func (s *PredictionService) Forecast(day int) (models.Forecast, error) {
	if day < 1 {
		return models.Forecast{}, fmt.Errorf("%w: got %d", ErrInvalidDay, day)
	}
	return models.Forecast{
		Day:                 day,
		PredictedTemp:       s.estimator.PredictTemperature(day),
		PredictedRainfallMM: math.Max(0, s.estimator.PredictRainfall(day)),
	}, nil
}

// capitalize upper-cases the first character and lower-cases the rest ("new york" -> "New york").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
