package models

// PredictionResult is the response of GET /predict/{city}. Field names match the
// API consumed by the dashboard frontend.
type PredictionResult struct {
	City          string  `json:"city"`
	ObservedTemp  float64 `json:"openweather_temp"`
	PredictedTemp float64 `json:"ai_predicted_temp"`
	RainfallMM    float64 `json:"rainfall_mm"`
	Risk          string  `json:"risk"`
	Advisory      string  `json:"advisory"`
}

// Forecast is the response of GET /forecast/{day}.
type Forecast struct {
	Day                 int     `json:"day"`
	PredictedTemp       float64 `json:"predicted_temp"`
	PredictedRainfallMM float64 `json:"predicted_rainfall_mm"`
}
