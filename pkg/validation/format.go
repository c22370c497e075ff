// Package validation checks raw calculator inputs before they reach the
// numeric engines.
package validation

import (
	"fmt"

	"github.com/iwvelando/bank-calculators/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("%w: expected output format of %s, %s or %s, got %s", ErrInvalidInput,
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}
