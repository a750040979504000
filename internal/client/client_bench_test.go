package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kjstillabower/climate-resilience-service/internal/models"
)

func BenchmarkClient_BuildRequest(b *testing.B) {
	client, _ := NewOpenWeatherClient("test-api-key", "https://api.openweathermap.org/data/2.5/weather", 2*time.Second)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = client.buildRequest(ctx, "Chennai")
	}
}

// BenchmarkClient_DecodeReport measures decoding of a typical current-weather payload.
func BenchmarkClient_DecodeReport(b *testing.B) {
	responseJSON := []byte(`{
		"coord": {"lon": 80.28, "lat": 13.09},
		"weather": [{"main": "Rain", "description": "light rain"}],
		"main": {"temp": 31.4, "humidity": 70},
		"rain": {"1h": 2.5},
		"name": "Chennai"
	}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var report models.WeatherReport
		_ = json.Unmarshal(responseJSON, &report)
	}
}

func BenchmarkClient_HandleErrorResponse(b *testing.B) {
	resp := &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Body:       io.NopCloser(strings.NewReader("")),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = handleErrorResponse(resp)
	}
}

func BenchmarkCategorizeError(b *testing.B) {
	testErrors := []error{
		ErrRateLimited,
		fmt.Errorf("%w: HTTP 503", ErrUpstreamFailure),
		fmt.Errorf("request timeout: %w", context.DeadlineExceeded),
		fmt.Errorf("parse response: %w", &json.SyntaxError{Offset: 1}),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CategorizeError(testErrors[i%len(testErrors)])
	}
}

func BenchmarkStatusLabel(b *testing.B) {
	statusCodes := []int{200, 400, 429, 500, 503}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = statusLabel(statusCodes[i%len(statusCodes)])
	}
}
