// Package deposit computes term-deposit maturity values and monthly growth
// tables.
package deposit

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iwvelando/bank-calculators/pkg/constants"
	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/mathutil"
	"github.com/iwvelando/bank-calculators/pkg/rates"
)

// PayoutMethod selects whether interest is paid out monthly or at maturity.
type PayoutMethod string

// Supported payout methods.
const (
	MonthlyInterest PayoutMethod = constants.PayoutMonthlyInterest
	AtMaturity      PayoutMethod = constants.PayoutMaturity
)

// ParsePayout validates a payout method name.
func ParsePayout(value string) (PayoutMethod, error) {
	switch p := PayoutMethod(strings.ToLower(strings.TrimSpace(value))); p {
	case MonthlyInterest, AtMaturity:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported payout method %q, expected %s or %s",
			value, MonthlyInterest, AtMaturity)
	}
}

// Params describes a term deposit.
type Params struct {
	Principal         float64
	Contribution      float64
	TermMonths        int
	AnnualRatePercent float64
	Compounding       rates.Compounding
	Payout            PayoutMethod
	// StartDate is optional; when set rows and the result carry dates.
	StartDate time.Time
}

// Row is one month of deposit growth.
type Row struct {
	Month              int        `json:"month"`
	Date               *time.Time `json:"date,omitempty"`
	Contribution       float64    `json:"contribution"`
	InterestEarned     float64    `json:"interestEarned"`
	CumulativeInterest float64    `json:"cumulativeInterest"`
	Balance            float64    `json:"balance"`
}

// Result summarizes a deposit at maturity.
type Result struct {
	MaturityValue        float64    `json:"maturityValue"`
	TotalContributed     float64    `json:"totalContributed"`
	InterestAmount       float64    `json:"interestAmount"`
	APY                  float64    `json:"apy"`
	EffectiveMonthlyRate float64    `json:"effectiveMonthlyRate"`
	MonthlyPayout        float64    `json:"monthlyPayout,omitempty"`
	MaturityDate         *time.Time `json:"maturityDate,omitempty"`
}

// AnnualPercentageYield returns the yearly yield of a nominal decimal rate
// under the given compounding. Simple interest yields the nominal rate.
func AnnualPercentageYield(nominal float64, c rates.Compounding) float64 {
	ppy := float64(rates.PeriodsPerYear(c))
	if ppy == 0 {
		return nominal
	}
	return math.Pow(1+nominal/ppy, ppy) - 1
}

// MonthlyGrowthRate returns the effective monthly rate j of a nominal
// decimal rate under the given compounding.
func MonthlyGrowthRate(nominal float64, c rates.Compounding) float64 {
	ppy := float64(rates.PeriodsPerYear(c))
	if ppy == 0 {
		return nominal / constants.MonthsPerYear
	}
	return math.Pow(1+nominal/ppy, ppy/constants.MonthsPerYear) - 1
}

// Compute returns the maturity summary and the month-by-month table of a
// deposit. A non-positive term yields no rows.
func Compute(p Params) (Result, []Row) {
	nominal := mathutil.PercentToDecimal(p.AnnualRatePercent)
	j := MonthlyGrowthRate(nominal, p.Compounding)
	term := p.TermMonths
	if term < 0 {
		term = 0
	}

	result := Result{
		TotalContributed:     p.Principal + p.Contribution*float64(term),
		APY:                  AnnualPercentageYield(nominal, p.Compounding),
		EffectiveMonthlyRate: j,
	}

	var rows []Row
	switch {
	case p.Payout == MonthlyInterest:
		rows = monthlyPayoutRows(p, term)
		result.MaturityValue = result.TotalContributed
		if len(rows) > 0 {
			result.InterestAmount = rows[len(rows)-1].CumulativeInterest
			result.MonthlyPayout = rows[0].InterestEarned
		}
	case p.Compounding == rates.NoCompound:
		rows = simpleInterestRows(p, term, nominal)
		result.MaturityValue = result.TotalContributed
		if len(rows) > 0 {
			result.InterestAmount = rows[len(rows)-1].CumulativeInterest
		}
		result.MaturityValue += result.InterestAmount
	default:
		rows = compoundRows(p, term, j)
		result.MaturityValue = FutureValue(p.Principal, p.Contribution, j, term)
		result.InterestAmount = mathutil.NonNegative(result.MaturityValue - result.TotalContributed)
	}

	if !p.StartDate.IsZero() {
		maturity := datetime.AddMonths(p.StartDate, term)
		result.MaturityDate = &maturity
		for i := range rows {
			d := datetime.AddMonths(p.StartDate, rows[i].Month)
			rows[i].Date = &d
		}
	}

	return result, rows
}

// FutureValue is the closed-form value of a lump sum plus an annuity-due of
// monthly contributions compounding at j for the given number of months.
func FutureValue(principal, contribution, j float64, months int) float64 {
	n := float64(months)
	growth := math.Pow(1+j, n)
	lump := principal * growth
	if j == 0 {
		return lump + contribution*n
	}
	return lump + contribution*(growth-1)/j*(1+j)
}

// monthlyPayoutRows pays interest out every month at a flat monthly rate, so
// the balance only grows by contributions.
func monthlyPayoutRows(p Params, term int) []Row {
	rows := make([]Row, 0, term)
	balance := p.Principal
	cumulative := 0.0
	for m := 1; m <= term; m++ {
		interest := (balance + p.Contribution) * p.AnnualRatePercent /
			(constants.MonthlyInterestDivisor + p.AnnualRatePercent)
		balance += p.Contribution
		cumulative += interest
		rows = append(rows, Row{
			Month:              m,
			Contribution:       p.Contribution,
			InterestEarned:     interest,
			CumulativeInterest: cumulative,
			Balance:            balance,
		})
	}
	return rows
}

// simpleInterestRows accrues simple monthly interest that is credited only
// at maturity.
func simpleInterestRows(p Params, term int, nominal float64) []Row {
	rows := make([]Row, 0, term)
	balance := p.Principal
	cumulative := 0.0
	for m := 1; m <= term; m++ {
		interest := (balance + p.Contribution) * (nominal / constants.MonthsPerYear)
		balance += p.Contribution
		cumulative += interest
		rows = append(rows, Row{
			Month:              m,
			Contribution:       p.Contribution,
			InterestEarned:     interest,
			CumulativeInterest: cumulative,
			Balance:            balance,
		})
	}
	return rows
}

func compoundRows(p Params, term int, j float64) []Row {
	rows := make([]Row, 0, term)
	balance := p.Principal
	contributed := p.Principal
	for m := 1; m <= term; m++ {
		opening := balance + p.Contribution
		balance = opening * (1 + j)
		contributed += p.Contribution
		rows = append(rows, Row{
			Month:              m,
			Contribution:       p.Contribution,
			InterestEarned:     balance - opening,
			CumulativeInterest: balance - contributed,
			Balance:            balance,
		})
	}
	return rows
}
