// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/bank-calculators/pkg/constants"
)

const (
	// DateLayout is the format expected on every input surface and is also the
	// output date format.
	DateLayout = constants.DateLayout

	secondsPerDay = 24 * 60 * 60
)

// MustParseDate parses a DD/MM/YYYY date and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(dateStr string) time.Time {
	t, err := ParseDate(dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a DD/MM/YYYY date into a UTC midnight time.Time.
func ParseDate(dateStr string) (time.Time, error) {
	trimmed := strings.TrimSpace(dateStr)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD/MM/YYYY: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate renders a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths advances t by the given number of calendar months. The
// day-of-month is preserved where the target month has it and clamped to the
// month end otherwise, so 31/01 + 1 month is 28/02 (29/02 in leap years).
// time.AddDate would instead normalize 31/02 into March.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	targetYear := year + floorDiv(total, constants.MonthsPerYear)
	targetMonth := time.Month(floorMod(total, constants.MonthsPerYear) + 1)

	if last := DaysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	hour, minute, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// DaysBetween returns the whole number of calendar days from start to end;
// negative when end precedes start. Times of day are ignored.
func DaysBetween(start, end time.Time) int {
	// Unix day numbers avoid time.Duration, which saturates at about 292 years.
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).Unix()
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).Unix()
	return int((e - s) / secondsPerDay)
}

// OnOrBefore reports whether the calendar date of t is on or before the
// calendar date of ref.
func OnOrBefore(t, ref time.Time) bool {
	return DaysBetween(t, ref) >= 0
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
