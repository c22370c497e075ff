// Package dcb computes Demand, Collection & Balance figures and overdue
// splits for a loan schedule as of a given date.
package dcb

import (
	"time"

	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/loans"
	"github.com/iwvelando/bank-calculators/pkg/mathutil"
)

// Result is the DCB view of a loan as of a date.
type Result struct {
	Mode                  string     `json:"mode"`
	InstalmentAmount      float64    `json:"instalmentAmount"`
	PrincipalDemand       float64    `json:"principalDemand"`
	InterestDemand        float64    `json:"interestDemand"`
	OverduePrincipal      float64    `json:"overduePrincipal"`
	OverdueInterest       float64    `json:"overdueInterest"`
	OutstandingPrincipal  float64    `json:"outstandingPrincipal"`
	OutstandingInterest   float64    `json:"outstandingInterest"`
	TotalPrincipalBalance float64    `json:"totalPrincipalBalance"`
	TotalInterestBalance  float64    `json:"totalInterestBalance"`
	Demand                float64    `json:"demand"`
	Collection            float64    `json:"collection"`
	Balance               float64    `json:"balance"`
	InstalmentsDue        int        `json:"instalmentsDue"`
	InstalmentsPaid       int        `json:"instalmentsPaid"`
	InstalmentsOverdue    int        `json:"instalmentsOverdue"`
	OverdueSince          *time.Time `json:"overdueSince,omitempty"`
	OverdueDays           *int       `json:"overdueDays,omitempty"`
}

// Classify computes demand, collection, balance and the overdue split for the
// schedule of a loan of the given principal. It never fails: out-of-range
// disclosures are clamped and an empty schedule yields zero figures.
func Classify(schedule []loans.Row, principal float64, asOf time.Time, mode Mode) Result {
	result := Result{}
	if mode != nil {
		result.Mode = mode.Name()
	}
	if len(schedule) > 0 {
		result.InstalmentAmount = schedule[0].TotalInstallment
	}

	dueCount := 0
	totalInterest := 0.0
	for _, row := range schedule {
		totalInterest += row.InterestPortion
		if datetime.OnOrBefore(row.DueDate, asOf) {
			dueCount++
			result.PrincipalDemand += row.PrincipalPortion
			result.InterestDemand += row.InterestPortion
		}
	}

	var paid int
	switch m := mode.(type) {
	case InstalmentsPaid:
		paid = clampIndex(m.Count, len(schedule))
	case OutstandingAmounts:
		paid = paidFromOutstanding(schedule, m.Principal)
	case CollectionAmounts:
		paid = paidFromOutstanding(schedule, principal-m.Principal)
	}

	paidPrincipal, paidInterest := sumRange(schedule, 0, paid)
	overdueCount := 0
	if paid < dueCount {
		overdueCount = dueCount - paid
	}

	result.TotalPrincipalBalance = principal - paidPrincipal
	result.TotalInterestBalance = totalInterest - paidInterest

	switch m := mode.(type) {
	case InstalmentsPaid:
		result.OverduePrincipal, result.OverdueInterest = sumRange(schedule, paid, dueCount)
	case OutstandingAmounts:
		result.TotalPrincipalBalance = m.Principal
		result.TotalInterestBalance = m.Interest
		notYetDue := principal - result.PrincipalDemand
		result.OverduePrincipal = mathutil.NonNegative(result.TotalPrincipalBalance - notYetDue)
		// Overdue interest is taken to be the whole disclosed interest balance.
		result.OverdueInterest = result.TotalInterestBalance
	case CollectionAmounts:
		result.OverduePrincipal = mathutil.NonNegative(result.PrincipalDemand - m.Principal)
		result.OverdueInterest = mathutil.NonNegative(result.InterestDemand - m.Interest)
	}

	result.OutstandingPrincipal = principal - paidPrincipal - result.OverduePrincipal
	result.OutstandingInterest = totalInterest - paidInterest - result.OverdueInterest

	result.Demand = result.PrincipalDemand + result.InterestDemand
	result.Collection = paidPrincipal + paidInterest
	result.Balance = result.Demand - result.Collection

	result.InstalmentsDue = dueCount
	result.InstalmentsPaid = paid
	result.InstalmentsOverdue = overdueCount

	if paid < len(schedule) && overdueCount > 0 {
		since := schedule[paid].DueDate
		days := int(mathutil.NonNegative(float64(datetime.DaysBetween(since, asOf))))
		result.OverdueSince = &since
		result.OverdueDays = &days
	}

	return result
}

// paidFromOutstanding derives the number of instalments paid from the
// outstanding principal: the first row whose closing balance drops below it.
// Both sides are compared in cents so amounts copied from rendered output
// match their rows. No match means nothing is treated as paid.
func paidFromOutstanding(schedule []loans.Row, outstanding float64) int {
	target := mathutil.Round(outstanding)
	for i, row := range schedule {
		if mathutil.Round(row.BalanceAfter) < target {
			return i
		}
	}
	return 0
}

func sumRange(schedule []loans.Row, from, to int) (principal, interest float64) {
	for i := from; i < to && i < len(schedule); i++ {
		principal += schedule[i].PrincipalPortion
		interest += schedule[i].InterestPortion
	}
	return principal, interest
}

func clampIndex(n, length int) int {
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}
