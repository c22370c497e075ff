package dcb

import (
	"fmt"
	"strings"

	"github.com/iwvelando/bank-calculators/pkg/constants"
)

// Mode is the payment disclosure supplied by the caller. Exactly one of
// InstalmentsPaid, OutstandingAmounts or CollectionAmounts is used per
// classification.
type Mode interface {
	// Name returns the selector string for the mode.
	Name() string
	isMode()
}

// InstalmentsPaid discloses how many instalments have been paid.
type InstalmentsPaid struct {
	Count int
}

// OutstandingAmounts discloses the principal and interest currently owed.
type OutstandingAmounts struct {
	Principal float64
	Interest  float64
}

// CollectionAmounts discloses the principal and interest collected so far.
type CollectionAmounts struct {
	Principal float64
	Interest  float64
}

func (InstalmentsPaid) Name() string    { return constants.ModeInstalments }
func (OutstandingAmounts) Name() string { return constants.ModeOutstanding }
func (CollectionAmounts) Name() string  { return constants.ModeCollection }

func (InstalmentsPaid) isMode()    {}
func (OutstandingAmounts) isMode() {}
func (CollectionAmounts) isMode()  {}

// ParseMode builds a Mode from its selector. For "instalments" the first
// value is the paid count; the other modes take principal and interest.
func ParseMode(name string, first, second float64) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case constants.ModeInstalments:
		if first < 0 || first != float64(int(first)) {
			return nil, fmt.Errorf("instalments paid must be a non-negative whole number, got %v", first)
		}
		return InstalmentsPaid{Count: int(first)}, nil
	case constants.ModeOutstanding:
		return OutstandingAmounts{Principal: first, Interest: second}, nil
	case constants.ModeCollection:
		return CollectionAmounts{Principal: first, Interest: second}, nil
	default:
		return nil, fmt.Errorf("unsupported DCB mode %q, expected %s, %s or %s",
			name, constants.ModeInstalments, constants.ModeOutstanding, constants.ModeCollection)
	}
}
