package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/mathutil"
)

// ErrInvalidInput is wrapped by every error this package returns.
var ErrInvalidInput = errors.New("invalid input")

// FieldError reports a problem with a single named input.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// Checker accumulates field errors so a caller sees every problem at once.
type Checker struct {
	errs []error
}

// Failf records a field error.
func (c *Checker) Failf(field, format string, args ...any) {
	c.errs = append(c.errs, &FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Positive requires a finite value in (0, max].
func (c *Checker) Positive(field string, value, max float64) {
	switch {
	case !mathutil.IsFinite(value):
		c.Failf(field, "value is not a finite number")
	case value <= 0:
		c.Failf(field, "value is required and must be greater than zero")
	case value > max:
		c.Failf(field, "value %v exceeds the maximum of %v", value, max)
	}
}

// NonNegative requires a finite value in [0, max].
func (c *Checker) NonNegative(field string, value, max float64) {
	switch {
	case !mathutil.IsFinite(value):
		c.Failf(field, "value is not a finite number")
	case value < 0:
		c.Failf(field, "value must not be negative")
	case value > max:
		c.Failf(field, "value %v exceeds the maximum of %v", value, max)
	}
}

// IntRange requires min <= value <= max.
func (c *Checker) IntRange(field string, value, min, max int) {
	if value < min || value > max {
		c.Failf(field, "value %d must be in the range [%d; %d]", value, min, max)
	}
}

// Date parses a required DD/MM/YYYY date.
func (c *Checker) Date(field, value string) time.Time {
	t, err := datetime.ParseDate(value)
	if err != nil {
		c.Failf(field, "%v", err)
		return time.Time{}
	}
	return t
}

// OptionalDate parses a DD/MM/YYYY date, returning the zero time when value
// is empty.
func (c *Checker) OptionalDate(field, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	return c.Date(field, value)
}

// Parse records err against field when it is non-nil.
func (c *Checker) Parse(field string, err error) {
	if err != nil {
		c.Failf(field, "%v", err)
	}
}

// Err returns all recorded errors joined together, or nil.
func (c *Checker) Err() error {
	return errors.Join(c.errs...)
}
