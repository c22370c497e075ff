// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/bank-calculators/pkg/constants"
	"github.com/iwvelando/bank-calculators/pkg/output"
)

// FindRow finds a schedule row by instalment number.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []output.ScheduleRow, number int) *output.ScheduleRow {
	for i := range rows {
		if rows[i].InstallmentNumber == number {
			return &rows[i]
		}
	}
	return nil
}

// FindDepositRow finds a deposit table row by month.
func FindDepositRow(rows []output.DepositRow, month int) *output.DepositRow {
	for i := range rows {
		if rows[i].Month == month {
			return &rows[i]
		}
	}
	return nil
}

// WithinCent reports whether two amounts differ by at most one cent.
func WithinCent(got, expected float64) bool {
	return math.Abs(got-expected) <= constants.CurrencyTolerance+1e-9
}
