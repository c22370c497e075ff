// Package loans builds level-instalment (reducing balance) amortization
// schedules.
package loans

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/mathutil"
	"github.com/iwvelando/bank-calculators/pkg/rates"
	"go.uber.org/zap"
)

// Row holds the values for a given instalment.
type Row struct {
	InstallmentNumber int       `json:"installmentNumber"`
	DueDate           time.Time `json:"dueDate"`
	PrincipalPortion  float64   `json:"principalPortion"`
	InterestPortion   float64   `json:"interestPortion"`
	TotalInstallment  float64   `json:"totalInstallment"`
	BalanceAfter      float64   `json:"balanceAfter"`
}

// Parameters describes a term loan.
type Parameters struct {
	Principal         float64
	AnnualRatePercent float64
	InstalmentCount   int
	Frequency         rates.Frequency
	Compounding       rates.Compounding
	SanctionDate      time.Time
	StartDate         time.Time
}

// Summary aggregates a schedule.
type Summary struct {
	Instalment      float64   `json:"instalment"`
	InstalmentCount int       `json:"instalmentCount"`
	PeriodRate      float64   `json:"periodRate"`
	TotalPrincipal  float64   `json:"totalPrincipal"`
	TotalInterest   float64   `json:"totalInterest"`
	TotalPayment    float64   `json:"totalPayment"`
	FirstDueDate    time.Time `json:"firstDueDate"`
	LastDueDate     time.Time `json:"lastDueDate"`
}

// Schedule is a generated schedule together with its summary.
type Schedule struct {
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// Instalment calculates the level instalment using the standard amortization
// formula P*r*(1+r)^n / ((1+r)^n - 1).
func Instalment(principal, periodRate float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	if periodRate == 0 {
		// The closed form is 0/0 here, so split the principal evenly.
		return principal / float64(count)
	}

	power := math.Pow(1+periodRate, float64(count))
	return principal * periodRate * power / (power - 1)
}

// GenerateSchedule creates a complete amortization schedule. Due dates are
// computed from startDate by i*monthsPerInstalment months so that month-end
// anchors do not drift. A non-positive count yields an empty schedule.
func GenerateSchedule(principal, periodRate float64, count int, startDate time.Time, monthsPerInstalment int) []Row {
	if count <= 0 {
		return []Row{}
	}

	instalment := Instalment(principal, periodRate, count)
	rows := make([]Row, 0, count)
	balance := principal

	for i := 0; i < count; i++ {
		interest := balance * periodRate
		principalPortion := instalment - interest
		balance -= principalPortion

		rows = append(rows, Row{
			InstallmentNumber: i + 1,
			DueDate:           datetime.AddMonths(startDate, i*monthsPerInstalment),
			PrincipalPortion:  principalPortion,
			InterestPortion:   interest,
			TotalInstallment:  instalment,
			BalanceAfter:      balance,
		})
	}
	// The closed form repays the principal exactly; drop the float leftover.
	rows[count-1].BalanceAfter = 0

	return rows
}

// Summarize totals a schedule.
func Summarize(rows []Row) Summary {
	var s Summary
	s.InstalmentCount = len(rows)
	if len(rows) == 0 {
		return s
	}

	s.Instalment = rows[0].TotalInstallment
	s.FirstDueDate = rows[0].DueDate
	s.LastDueDate = rows[len(rows)-1].DueDate
	for _, row := range rows {
		s.TotalPrincipal += row.PrincipalPortion
		s.TotalInterest += row.InterestPortion
		s.TotalPayment += row.TotalInstallment
	}
	return s
}

// ScheduleGenerator resolves the period rate for a loan and produces its
// schedule.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// PeriodRate returns the effective rate applicable to one instalment period.
func PeriodRate(p Parameters) float64 {
	months := rates.MonthsPerInstalment(p.Frequency)
	return rates.ResolvePeriodRate(mathutil.PercentToDecimal(p.AnnualRatePercent), p.Compounding, float64(months))
}

// Generate builds the schedule and summary for the given loan.
func (g *ScheduleGenerator) Generate(p Parameters) Schedule {
	months := rates.MonthsPerInstalment(p.Frequency)
	periodRate := PeriodRate(p)

	rows := GenerateSchedule(p.Principal, periodRate, p.InstalmentCount, p.StartDate, months)
	summary := Summarize(rows)
	summary.PeriodRate = periodRate

	g.logger.Debug(fmt.Sprintf("generated %d instalments of %.2f at period rate %.6f",
		len(rows), summary.Instalment, periodRate),
		zap.String("op", "loans.Generate"),
		zap.String("frequency", string(p.Frequency)),
		zap.String("compounding", string(p.Compounding)),
	)

	return Schedule{Rows: rows, Summary: summary}
}
