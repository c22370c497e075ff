// Package rates converts nominal annual rates into effective per-period rates.
package rates

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/bank-calculators/pkg/constants"
)

// Compounding is an interest compounding frequency.
type Compounding string

// Frequency is an instalment frequency.
type Frequency string

// Supported compounding frequencies.
const (
	CompoundDaily      Compounding = constants.FrequencyDaily
	CompoundMonthly    Compounding = constants.FrequencyMonthly
	CompoundQuarterly  Compounding = constants.FrequencyQuarterly
	CompoundHalfYearly Compounding = constants.FrequencyHalfYearly
	CompoundYearly     Compounding = constants.FrequencyYearly
	NoCompound         Compounding = constants.FrequencyNoCompound
)

// Supported instalment frequencies.
const (
	Monthly    Frequency = constants.FrequencyMonthly
	Quarterly  Frequency = constants.FrequencyQuarterly
	HalfYearly Frequency = constants.FrequencyHalfYearly
	Yearly     Frequency = constants.FrequencyYearly
)

var compoundingPeriods = map[Compounding]int{
	CompoundDaily:      constants.DaysPerYear,
	CompoundMonthly:    12,
	CompoundQuarterly:  4,
	CompoundHalfYearly: 2,
	CompoundYearly:     1,
	NoCompound:         0,
}

var instalmentMonths = map[Frequency]int{
	Monthly:    1,
	Quarterly:  3,
	HalfYearly: 6,
	Yearly:     12,
}

// ParseCompounding validates a compounding frequency name.
func ParseCompounding(value string) (Compounding, error) {
	c := Compounding(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := compoundingPeriods[c]; !ok {
		return "", fmt.Errorf("unsupported compounding frequency %q", value)
	}
	return c, nil
}

// ParseFrequency validates an instalment frequency name.
func ParseFrequency(value string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := instalmentMonths[f]; !ok {
		return "", fmt.Errorf("unsupported instalment frequency %q", value)
	}
	return f, nil
}

// PeriodsPerYear returns the number of compounding periods per year. Simple
// interest (no-compound) reports 0; unknown values fall back to yearly.
func PeriodsPerYear(c Compounding) int {
	if n, ok := compoundingPeriods[c]; ok {
		return n
	}
	return 1
}

// MonthsPerInstalment returns the month-equivalent of an instalment
// frequency, defaulting to monthly for unknown values.
func MonthsPerInstalment(f Frequency) int {
	if n, ok := instalmentMonths[f]; ok {
		return n
	}
	return 1
}

// ResolvePeriodRate returns the effective interest rate for one period of
// periodMonths months, given a decimal annual rate (0.12 for 12%).
func ResolvePeriodRate(annualRate float64, c Compounding, periodMonths float64) float64 {
	if c == NoCompound {
		return annualRate * (periodMonths / constants.MonthsPerYear)
	}

	ppy := float64(PeriodsPerYear(c))
	return math.Pow(1+annualRate/ppy, ppy*periodMonths/constants.MonthsPerYear) - 1
}
