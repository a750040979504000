package trend

import "fmt"

// Estimator holds the temperature and rainfall trend models fit once at startup.
// It is read-only after construction and safe for concurrent use.
type Estimator struct {
	temperature Model
	rainfall    Model
	horizon     int
}

// NewEstimator fits both trend models over history. The forecast horizon is one day
// past the last training day.
func NewEstimator(history HistoricalSample) (*Estimator, error) {
	days := history.Days()
	temp, err := Fit(days, history.Temperatures(), TemperatureDegree)
	if err != nil {
		return nil, fmt.Errorf("fit temperature trend: %w", err)
	}
	rain, err := Fit(days, history.Rainfall(), RainfallDegree)
	if err != nil {
		return nil, fmt.Errorf("fit rainfall trend: %w", err)
	}
	return &Estimator{
		temperature: temp,
		rainfall:    rain,
		horizon:     history.LastDay() + 1,
	}, nil
}

// MustNewEstimator is NewEstimator for histories known to be valid, such as DefaultHistory.
func MustNewEstimator(history HistoricalSample) *Estimator {
	e, err := NewEstimator(history)
	if err != nil {
		panic(err)
	}
	return e
}

// Horizon returns the default forecast day (last training day + 1).
func (e *Estimator) Horizon() int {
	return e.horizon
}

// PredictTemperature evaluates the degree-2 temperature trend at day.
func (e *Estimator) PredictTemperature(day int) float64 {
	return e.temperature.Predict(day)
}

// PredictRainfall evaluates the linear rainfall trend at day. The value is not clamped.
func (e *Estimator) PredictRainfall(day int) float64 {
	return e.rainfall.Predict(day)
}

// TemperatureModel returns the fitted temperature model.
func (e *Estimator) TemperatureModel() Model {
	return e.temperature
}

// RainfallModel returns the fitted rainfall model.
func (e *Estimator) RainfallModel() Model {
	return e.rainfall
}
