package observability

import (
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate by route template and status class.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency. Watch p95/p99 on /predict: it is dominated by the weather call.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight.
	HTTPRequestsInFlight prometheus.Gauge

	// OpenWeatherMap call rate by outcome.
	WeatherAPICallsTotal *prometheus.CounterVec

	// OpenWeatherMap latency by outcome.
	WeatherAPIDuration *prometheus.HistogramVec

	// Weather gateway failures by category (see client.CategorizeError).
	WeatherAPIErrorsTotal *prometheus.CounterVec

	// Gemini call rate by outcome.
	ChatAPICallsTotal *prometheus.CounterVec

	// Gemini latency by outcome. Completions are slow; buckets go to 30s.
	ChatAPIDuration *prometheus.HistogramVec

	// Chat requests by mode.
	ChatRequestsTotal *prometheus.CounterVec

	// Completed predictions by risk level and advisory kind.
	PredictionsTotal *prometheus.CounterVec

	// Predictions that ended in the city-not-found payload.
	CityNotFoundTotal prometheus.Counter

	// Observation cache lookups by result (hit, miss, error). Only populated when a cache backend is enabled.
	ObservationCacheTotal *prometheus.CounterVec

	// Per-city query count (allow-list; others go to "other").
	PredictionsByCityTotal *prometheus.CounterVec

	trackedCitiesMu sync.RWMutex
	trackedCities   map[string]struct{}
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeatherMap API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeatherMap API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherAPIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiErrorsTotal",
			Help: "Weather gateway failures by error category",
		},
		[]string{"category"},
	)
	ChatAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatApiCallsTotal",
			Help: "Total number of Gemini generateContent calls",
		},
		[]string{"status"},
	)
	ChatAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatApiDurationSeconds",
			Help:    "Gemini generateContent latency in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"status"},
	)
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatRequestsTotal",
			Help: "Chat requests by mode",
		},
		[]string{"mode"},
	)
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsTotal",
			Help: "Completed predictions by risk level and advisory kind",
		},
		[]string{"risk", "advisory"},
	)
	CityNotFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cityNotFoundTotal",
			Help: "Predictions answered with the city-not-found payload",
		},
	)
	ObservationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observationCacheTotal",
			Help: "Observation cache lookups by result",
		},
		[]string{"result"},
	)
	PredictionsByCityTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictionsByCityTotal",
			Help: "Predictions by city (allow-list; others use city=other)",
		},
		[]string{"city"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherAPIErrorsTotal,
		ChatAPICallsTotal, ChatAPIDuration, ChatRequestsTotal,
		PredictionsTotal, CityNotFoundTotal,
		ObservationCacheTotal,
		PredictionsByCityTotal,
	)
}

// SetTrackedCities sets the allow-list for per-city metrics. Other cities increment "other".
func SetTrackedCities(cities []string) {
	trackedCitiesMu.Lock()
	defer trackedCitiesMu.Unlock()
	trackedCities = make(map[string]struct{}, len(cities))
	for _, c := range cities {
		trackedCities[normalizeCityForMetrics(c)] = struct{}{}
	}
}

// RecordCityQuery records a prediction request for city.
func RecordCityQuery(city string) {
	PredictionsByCityTotal.WithLabelValues(MetricCityLabel(city)).Inc()
}

// MetricCityLabel returns the normalized city if tracked, otherwise "other".
func MetricCityLabel(city string) string {
	c := normalizeCityForMetrics(city)
	trackedCitiesMu.RLock()
	_, ok := trackedCities[c]
	trackedCitiesMu.RUnlock()
	if ok {
		return c
	}
	return "other"
}

func normalizeCityForMetrics(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
