package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Error reports a user input that must be corrected before anything is computed or saved.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func fail(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Required trims raw and rejects an empty result.
func Required(raw, field string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fail(field, "is required")
	}
	return value, nil
}

func parseFloat(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// NonNegativeFloat parses a number that may be zero, such as a price.
func NonNegativeFloat(raw, field string) (float64, error) {
	value, ok := parseFloat(raw)
	if !ok {
		return 0, fail(field, "must be numeric")
	}
	if value < 0 {
		return 0, fail(field, "must be greater than or equal to 0")
	}
	return value, nil
}

// PositiveFloat parses a number that must be above zero, such as a wage.
func PositiveFloat(raw, field string) (float64, error) {
	value, ok := parseFloat(raw)
	if !ok {
		return 0, fail(field, "must be numeric")
	}
	if value <= 0 {
		return 0, fail(field, "must be greater than 0")
	}
	return value, nil
}

// PositiveInt parses a whole number above zero, such as the quantity threshold.
func PositiveInt(raw, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fail(field, "must be a whole number")
	}
	if value <= 0 {
		return 0, fail(field, "must be greater than 0")
	}
	return value, nil
}

// IntInRange parses a whole number within [min, max]. Blank input yields min.
func IntInRange(raw, field string, min, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return min, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fail(field, "must be a whole number")
	}
	if value < min || value > max {
		return 0, fail(field, "must be between %d and %d", min, max)
	}
	return value, nil
}
