package algo

import (
	"errors"
	"fmt"
)

// MinSprintFloor is the smallest sprint history a forecast will ever accept.
// A single sprint yields a log with one distinct date, which makes every sample identical.
const MinSprintFloor = 2

// ErrInsufficientData indicates the sprint history cannot support a forecast.
var ErrInsufficientData = errors.New("insufficient sprint history")

// ErrInvalidParams indicates the forecast parameters are out of range.
var ErrInvalidParams = errors.New("invalid forecast parameters")

// InsufficientDataError reports why a history was rejected.
type InsufficientDataError struct {
	Sprints  int // Number of sprint records supplied
	Required int // Minimum number of sprint records
	Items    int // Number of items in the expanded log
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	if e.Sprints < e.Required {
		return fmt.Sprintf("%s: need at least %d sprints, got %d", ErrInsufficientData, e.Required, e.Sprints)
	}
	return fmt.Sprintf("%s: %d sprints delivered %d items", ErrInsufficientData, e.Sprints, e.Items)
}

// Is lets errors.Is match ErrInsufficientData.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
