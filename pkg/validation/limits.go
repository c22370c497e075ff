package validation

import "github.com/iwvelando/bank-calculators/pkg/constants"

// Limits bounds the values accepted from callers.
type Limits struct {
	MaxPrincipal    float64 `mapstructure:"maxPrincipal" yaml:"maxPrincipal"`
	MaxContribution float64 `mapstructure:"maxContribution" yaml:"maxContribution"`
	MaxRatePercent  float64 `mapstructure:"maxRatePercent" yaml:"maxRatePercent"`
	MaxInstalments  int     `mapstructure:"maxInstalments" yaml:"maxInstalments"`
	MaxTermMonths   int     `mapstructure:"maxTermMonths" yaml:"maxTermMonths"`
}

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		MaxPrincipal:    constants.DefaultMaxPrincipal,
		MaxContribution: constants.DefaultMaxContribution,
		MaxRatePercent:  constants.DefaultMaxRatePercent,
		MaxInstalments:  constants.DefaultMaxInstalments,
		MaxTermMonths:   constants.DefaultMaxTermMonths,
	}
}

// WithDefaults fills unset (non-positive) limits from DefaultLimits.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l.MaxPrincipal <= 0 {
		l.MaxPrincipal = d.MaxPrincipal
	}
	if l.MaxContribution <= 0 {
		l.MaxContribution = d.MaxContribution
	}
	if l.MaxRatePercent <= 0 {
		l.MaxRatePercent = d.MaxRatePercent
	}
	if l.MaxInstalments <= 0 {
		l.MaxInstalments = d.MaxInstalments
	}
	if l.MaxTermMonths <= 0 {
		l.MaxTermMonths = d.MaxTermMonths
	}
	return l
}
