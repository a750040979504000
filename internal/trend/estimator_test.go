package trend

import (
	"errors"
	"testing"
)

// TestEstimator_PredictTemperature_Deterministic verifies the day-8 forecast equals 243/7
// and is stable across calls and across independently fitted estimators.
func TestEstimator_PredictTemperature_Deterministic(t *testing.T) {
	e := MustNewEstimator(DefaultHistory())
	want := 243.0 / 7.0

	first := e.PredictTemperature(8)
	if !approxEqual(first, want) {
		t.Fatalf("PredictTemperature(8) = %v, want %v", first, want)
	}
	for i := 0; i < 10; i++ {
		if got := e.PredictTemperature(8); got != first {
			t.Fatalf("PredictTemperature(8) call %d = %v, want %v", i, got, first)
		}
	}

	other := MustNewEstimator(DefaultHistory())
	if got := other.PredictTemperature(8); got != first {
		t.Errorf("refit PredictTemperature(8) = %v, want %v", got, first)
	}
}

func TestEstimator_Horizon(t *testing.T) {
	e := MustNewEstimator(DefaultHistory())
	if e.Horizon() != 8 {
		t.Errorf("Horizon() = %d, want 8", e.Horizon())
	}
}

func TestEstimator_PredictRainfall(t *testing.T) {
	e := MustNewEstimator(DefaultHistory())
	if got, want := e.PredictRainfall(8), 131.0/7.0; !approxEqual(got, want) {
		t.Errorf("PredictRainfall(8) = %v, want %v", got, want)
	}
	// Extrapolation is unbounded: far in the past the linear trend goes negative.
	if got := e.PredictRainfall(-10); got >= 0 {
		t.Errorf("PredictRainfall(-10) = %v, want negative (no clamping)", got)
	}
}

func TestEstimator_Extrapolates(t *testing.T) {
	e := MustNewEstimator(DefaultHistory())
	// The quadratic term is negative, so far-future temperatures fall without bound.
	if got := e.PredictTemperature(200); got >= 0 {
		t.Errorf("PredictTemperature(200) = %v, want negative extrapolation", got)
	}
}

func TestNewEstimator_InvalidHistory(t *testing.T) {
	_, err := NewEstimator(HistoricalSample{{Day: 1, Temperature: 20}})
	if !errors.Is(err, ErrInvalidSample) {
		t.Errorf("NewEstimator() error = %v, want ErrInvalidSample", err)
	}
}

func TestMustNewEstimator_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNewEstimator() did not panic on invalid history")
		}
	}()
	MustNewEstimator(nil)
}
