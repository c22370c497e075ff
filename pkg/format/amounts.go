// Package format renders amounts and rates for human-readable output.
package format

import (
	"github.com/iwvelando/bank-calculators/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount returns a value rounded to cents with thousands separators
// (e.g., "-1,234.56").
func Amount(value float64) string {
	rounded := mathutil.Round(value)
	if rounded == 0 {
		rounded = 0 // drop the sign of negative zero
	}
	return printer.Sprintf("%.2f", rounded)
}

// Percent renders a decimal rate as a percentage with four decimals
// (0.01 is "1.0000%").
func Percent(rate float64) string {
	return printer.Sprintf("%.4f%%", rate*100)
}
