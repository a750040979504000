package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetrics_Usable verifies label dimensions match how the client, chat, service and http
// packages use the collectors.
func TestMetrics_Usable(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/predict/{city}", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/predict/{city}").Observe(0.01)
	WeatherAPICallsTotal.WithLabelValues("success").Inc()
	WeatherAPIDuration.WithLabelValues("success").Observe(0.1)
	WeatherAPIErrorsTotal.WithLabelValues("timeout").Inc()
	ChatAPICallsTotal.WithLabelValues("success").Inc()
	ChatAPIDuration.WithLabelValues("success").Observe(1.2)
	ChatRequestsTotal.WithLabelValues("farmer").Inc()
	PredictionsTotal.WithLabelValues("low", "mixed").Inc()
	CityNotFoundTotal.Inc()
	ObservationCacheTotal.WithLabelValues("hit").Inc()
}

func TestSetTrackedCities_and_RecordCityQuery(t *testing.T) {
	SetTrackedCities([]string{"Chennai", " pune "})
	defer SetTrackedCities(nil)

	if got := MetricCityLabel("CHENNAI"); got != "chennai" {
		t.Errorf("MetricCityLabel(CHENNAI) = %q, want chennai", got)
	}
	if got := MetricCityLabel("pune"); got != "pune" {
		t.Errorf("MetricCityLabel(pune) = %q, want pune", got)
	}
	if got := MetricCityLabel("atlantis"); got != "other" {
		t.Errorf("MetricCityLabel(atlantis) = %q, want other", got)
	}

	before := testutil.ToFloat64(PredictionsByCityTotal.WithLabelValues("chennai"))
	RecordCityQuery("Chennai")
	if after := testutil.ToFloat64(PredictionsByCityTotal.WithLabelValues("chennai")); after != before+1 {
		t.Errorf("predictionsByCityTotal{city=chennai} = %v, want %v", after, before+1)
	}
}

func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/", "2xx").Inc()

	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}
