package models

// WeatherReport is the subset of an OpenWeatherMap current-weather payload the service reads.
// Main is nil when the upstream response carries no "main" object (unknown city, bad key, etc.).
type WeatherReport struct {
	Name string             `json:"name,omitempty"`
	Main *WeatherMain       `json:"main,omitempty"`
	Rain map[string]float64 `json:"rain,omitempty"`
}

// WeatherMain holds the "main" block. Temp is nil when the field is absent.
type WeatherMain struct {
	Temp *float64 `json:"temp,omitempty"`
}

// Temperature returns the current temperature and whether the report carries one.
func (r WeatherReport) Temperature() (float64, bool) {
	if r.Main == nil || r.Main.Temp == nil {
		return 0, false
	}
	return *r.Main.Temp, true
}

// RainfallLastHour returns rain["1h"], or 0 when absent.
func (r WeatherReport) RainfallLastHour() float64 {
	return r.Rain["1h"]
}

// Observation is a city's current conditions as used by the prediction engine.
type Observation struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	RainfallMM  float64 `json:"rainfallMm"`
}
