package service

import (
	"errors"
	"fmt"
)

// ErrCityNotFound matches any *CityNotFoundError via errors.Is.
var ErrCityNotFound = errors.New("city not found")

// ErrInvalidDay is returned by Forecast for day indices below 1.
var ErrInvalidDay = errors.New("day must be a positive integer")

// CityNotFoundError reports that no usable observation could be obtained for City.
// Err holds the gateway cause, if any.
type CityNotFoundError struct {
	City string
	Err  error
}

func (e *CityNotFoundError) Error() string {
	return fmt.Sprintf("City '%s' not found or API error.", e.City)
}

func (e *CityNotFoundError) Unwrap() error {
	return e.Err
}

func (e *CityNotFoundError) Is(target error) bool {
	return target == ErrCityNotFound
}
