// Package trend fits small polynomial trend models over a fixed daily history
// and evaluates them for single-day-ahead forecasts.
package trend

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Polynomial degrees used for the two trend models.
const (
	TemperatureDegree = 2
	RainfallDegree    = 1
)

// ErrInvalidSample is returned by Fit when the input cannot produce a unique least-squares fit.
var ErrInvalidSample = errors.New("invalid historical sample")

// Sample is one day of historical readings.
type Sample struct {
	Day         int
	Temperature float64
	RainfallMM  float64
}

// HistoricalSample is the training window, ordered by Day with one entry per day.
type HistoricalSample []Sample

// DefaultHistory returns the fixed seven-day series the service is trained on.
func DefaultHistory() HistoricalSample {
	temps := []float64{28, 29, 30, 32, 31, 33, 34}
	rain := []float64{5, 8, 12, 0, 2, 15, 25}
	h := make(HistoricalSample, len(temps))
	for i := range temps {
		h[i] = Sample{Day: i + 1, Temperature: temps[i], RainfallMM: rain[i]}
	}
	return h
}

// Days returns the day indices of the sample in order.
func (h HistoricalSample) Days() []int {
	out := make([]int, len(h))
	for i, s := range h {
		out[i] = s.Day
	}
	return out
}

// Temperatures returns the temperature series in day order.
func (h HistoricalSample) Temperatures() []float64 {
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = s.Temperature
	}
	return out
}

// Rainfall returns the rainfall series in day order.
func (h HistoricalSample) Rainfall() []float64 {
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = s.RainfallMM
	}
	return out
}

// LastDay returns the final day index of the window, or 0 when empty.
func (h HistoricalSample) LastDay() int {
	if len(h) == 0 {
		return 0
	}
	return h[len(h)-1].Day
}

// Model is a fitted polynomial in the day index. Immutable after Fit.
type Model struct {
	coef []float64 // coef[i] multiplies day^i
}

// Fit expands each day into the feature vector [1, d, d², ..., d^degree] and solves the
// ordinary least-squares problem against values. Days must be >= 1 and strictly increasing,
// and there must be more points than the degree.
func Fit(days []int, values []float64, degree int) (Model, error) {
	if degree < 0 {
		return Model{}, fmt.Errorf("%w: negative degree %d", ErrInvalidSample, degree)
	}
	if len(days) != len(values) {
		return Model{}, fmt.Errorf("%w: %d days but %d values", ErrInvalidSample, len(days), len(values))
	}
	if len(days) <= degree {
		return Model{}, fmt.Errorf("%w: %d points cannot fit degree %d", ErrInvalidSample, len(days), degree)
	}
	for i, d := range days {
		if d < 1 {
			return Model{}, fmt.Errorf("%w: day index %d < 1", ErrInvalidSample, d)
		}
		if i > 0 && d <= days[i-1] {
			return Model{}, fmt.Errorf("%w: day indices not strictly increasing at %d", ErrInvalidSample, d)
		}
	}

	n, p := len(days), degree+1
	x := mat.NewDense(n, p, nil)
	for i, d := range days {
		v := 1.0
		for j := 0; j < p; j++ {
			x.Set(i, j, v)
			v *= float64(d)
		}
	}
	y := mat.NewVecDense(n, append([]float64(nil), values...))

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return Model{}, fmt.Errorf("least squares fit: %w", err)
	}

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j)
	}
	return Model{coef: coef}, nil
}

// Predict evaluates the fitted polynomial at day. There is no bounds check: days outside the
// training window are extrapolated.
func (m Model) Predict(day int) float64 {
	x := float64(day)
	out := 0.0
	for i := len(m.coef) - 1; i >= 0; i-- {
		out = out*x + m.coef[i]
	}
	return out
}

// Degree returns the polynomial degree of the model.
func (m Model) Degree() int {
	return len(m.coef) - 1
}

// Coefficients returns a copy of the fitted coefficients, lowest order first.
func (m Model) Coefficients() []float64 {
	return append([]float64(nil), m.coef...)
}
