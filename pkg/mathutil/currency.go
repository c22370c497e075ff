// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/bank-calculators/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons and for display, never inside engines.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsFinite reports whether a value is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// WithinRelative checks if two values agree within a relative tolerance of
// the larger magnitude. Values at or near zero fall back to an absolute check.
func WithinRelative(val1, val2, relTolerance float64) bool {
	scale := math.Max(math.Abs(val1), math.Abs(val2))
	if scale < 1 {
		scale = 1
	}
	return math.Abs(val1-val2) <= relTolerance*scale
}

// NonNegative clamps a value to zero from below.
func NonNegative(val float64) float64 {
	return math.Max(0, val)
}

// PercentToDecimal converts a percentage (12.5) into a decimal rate (0.125).
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}
