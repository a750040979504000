//go:build integration
// +build integration

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"testing"
	"time"
)

func isValidAPIKeyFormat(key string) error {
	if len(key) != 32 {
		return fmt.Errorf("API key length is %d, expected 32", len(key))
	}

	hexPattern := regexp.MustCompile(`^[0-9a-fA-F]+$`)
	if !hexPattern.MatchString(key) {
		return fmt.Errorf("API key contains non-hexadecimal characters")
	}

	return nil
}

func TestOpenWeatherClient_ValidateAPIKey_Integration(t *testing.T) {
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}

	if err := isValidAPIKeyFormat(apiKey); err != nil {
		t.Fatalf("API key format validation failed: %v", err)
	}

	client, err := NewOpenWeatherClient(apiKey, "https://api.openweathermap.org/data/2.5/weather", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}

	ctx := context.Background()
	err = client.ValidateAPIKey(ctx)
	if err != nil {
		t.Errorf("ValidateAPIKey() error = %v, want nil (API key may not be activated yet)", err)
	}
}

func TestOpenWeatherClient_CurrentWeather_Integration(t *testing.T) {
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}

	if err := isValidAPIKeyFormat(apiKey); err != nil {
		t.Fatalf("API key format validation failed: %v", err)
	}

	client, err := NewOpenWeatherClient(apiKey, "https://api.openweathermap.org/data/2.5/weather", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}

	report, err := client.CurrentWeather(context.Background(), "Chennai")
	if err != nil {
		t.Fatalf("CurrentWeather() error = %v (API key may not be activated yet)", err)
	}
	if _, ok := report.Temperature(); !ok {
		t.Error("CurrentWeather() report has no main.temp")
	}
	if report.Name == "" {
		t.Error("CurrentWeather() returned empty city name")
	}
}

// TestOpenWeatherClient_UnknownCity_Integration documents the live 404 for a made-up city.
func TestOpenWeatherClient_UnknownCity_Integration(t *testing.T) {
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}

	client, err := NewOpenWeatherClient(apiKey, "https://api.openweathermap.org/data/2.5/weather", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}

	_, err = client.CurrentWeather(context.Background(), "Qwertyuiopville")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("CurrentWeather() error = %v, want ErrLocationNotFound", err)
	}
}
