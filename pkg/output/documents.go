package output

import (
	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/dcb"
	"github.com/iwvelando/bank-calculators/pkg/deposit"
	"github.com/iwvelando/bank-calculators/pkg/loans"
	"github.com/iwvelando/bank-calculators/pkg/mathutil"
)

// ScheduleRow is a schedule row ready for rendering. Amounts are rounded to
// cents and dates use DD/MM/YYYY.
type ScheduleRow struct {
	InstallmentNumber int     `json:"installmentNumber"`
	DueDate           string  `json:"dueDate"`
	PrincipalPortion  float64 `json:"principalPortion"`
	InterestPortion   float64 `json:"interestPortion"`
	TotalInstallment  float64 `json:"totalInstallment"`
	BalanceAfter      float64 `json:"balanceAfter"`
}

// ScheduleDocument is an EMI result ready for rendering.
type ScheduleDocument struct {
	Instalment      float64       `json:"instalment"`
	InstalmentCount int           `json:"instalmentCount"`
	PeriodRate      float64       `json:"periodRate"`
	TotalInterest   float64       `json:"totalInterest"`
	TotalPayment    float64       `json:"totalPayment"`
	FirstDueDate    string        `json:"firstDueDate,omitempty"`
	LastDueDate     string        `json:"lastDueDate,omitempty"`
	Rows            []ScheduleRow `json:"rows"`
}

// DepositRow is one month of deposit growth ready for rendering.
type DepositRow struct {
	Month              int     `json:"month"`
	Date               string  `json:"date,omitempty"`
	Contribution       float64 `json:"contribution"`
	InterestEarned     float64 `json:"interestEarned"`
	CumulativeInterest float64 `json:"cumulativeInterest"`
	Balance            float64 `json:"balance"`
}

// DepositDocument is a deposit result ready for rendering.
type DepositDocument struct {
	MaturityValue        float64      `json:"maturityValue"`
	TotalContributed     float64      `json:"totalContributed"`
	InterestAmount       float64      `json:"interestAmount"`
	APY                  float64      `json:"apy"`
	EffectiveMonthlyRate float64      `json:"effectiveMonthlyRate"`
	MonthlyPayout        float64      `json:"monthlyPayout,omitempty"`
	MaturityDate         string       `json:"maturityDate,omitempty"`
	Rows                 []DepositRow `json:"rows"`
}

// DCBDocument is a DCB result ready for rendering.
type DCBDocument struct {
	Mode                  string  `json:"mode"`
	AsOfDate              string  `json:"asOfDate"`
	InstalmentAmount      float64 `json:"instalmentAmount"`
	PrincipalDemand       float64 `json:"principalDemand"`
	InterestDemand        float64 `json:"interestDemand"`
	Demand                float64 `json:"demand"`
	Collection            float64 `json:"collection"`
	Balance               float64 `json:"balance"`
	OverduePrincipal      float64 `json:"overduePrincipal"`
	OverdueInterest       float64 `json:"overdueInterest"`
	OutstandingPrincipal  float64 `json:"outstandingPrincipal"`
	OutstandingInterest   float64 `json:"outstandingInterest"`
	TotalPrincipalBalance float64 `json:"totalPrincipalBalance"`
	TotalInterestBalance  float64 `json:"totalInterestBalance"`
	InstalmentsDue        int     `json:"instalmentsDue"`
	InstalmentsPaid       int     `json:"instalmentsPaid"`
	InstalmentsOverdue    int     `json:"instalmentsOverdue"`
	OverdueSince          string  `json:"overdueSince,omitempty"`
	OverdueDays           *int    `json:"overdueDays,omitempty"`
}

// NewScheduleDocument converts an engine schedule for rendering.
func NewScheduleDocument(s loans.Schedule) ScheduleDocument {
	doc := ScheduleDocument{
		Instalment:      mathutil.Round(s.Summary.Instalment),
		InstalmentCount: s.Summary.InstalmentCount,
		PeriodRate:      s.Summary.PeriodRate,
		TotalInterest:   mathutil.Round(s.Summary.TotalInterest),
		TotalPayment:    mathutil.Round(s.Summary.TotalPayment),
		Rows:            make([]ScheduleRow, 0, len(s.Rows)),
	}
	if len(s.Rows) > 0 {
		doc.FirstDueDate = datetime.FormatDate(s.Summary.FirstDueDate)
		doc.LastDueDate = datetime.FormatDate(s.Summary.LastDueDate)
	}
	for _, row := range s.Rows {
		doc.Rows = append(doc.Rows, ScheduleRow{
			InstallmentNumber: row.InstallmentNumber,
			DueDate:           datetime.FormatDate(row.DueDate),
			PrincipalPortion:  mathutil.Round(row.PrincipalPortion),
			InterestPortion:   mathutil.Round(row.InterestPortion),
			TotalInstallment:  mathutil.Round(row.TotalInstallment),
			BalanceAfter:      cents(row.BalanceAfter),
		})
	}
	return doc
}

// NewDepositDocument converts a deposit result and its table for rendering.
func NewDepositDocument(result deposit.Result, rows []deposit.Row) DepositDocument {
	doc := DepositDocument{
		MaturityValue:        mathutil.Round(result.MaturityValue),
		TotalContributed:     mathutil.Round(result.TotalContributed),
		InterestAmount:       mathutil.Round(result.InterestAmount),
		APY:                  result.APY,
		EffectiveMonthlyRate: result.EffectiveMonthlyRate,
		MonthlyPayout:        mathutil.Round(result.MonthlyPayout),
		Rows:                 make([]DepositRow, 0, len(rows)),
	}
	if result.MaturityDate != nil {
		doc.MaturityDate = datetime.FormatDate(*result.MaturityDate)
	}
	for _, row := range rows {
		r := DepositRow{
			Month:              row.Month,
			Contribution:       mathutil.Round(row.Contribution),
			InterestEarned:     mathutil.Round(row.InterestEarned),
			CumulativeInterest: mathutil.Round(row.CumulativeInterest),
			Balance:            mathutil.Round(row.Balance),
		}
		if row.Date != nil {
			r.Date = datetime.FormatDate(*row.Date)
		}
		doc.Rows = append(doc.Rows, r)
	}
	return doc
}

// NewDCBDocument converts a DCB result computed as of the given date.
func NewDCBDocument(result dcb.Result, asOf string) DCBDocument {
	doc := DCBDocument{
		Mode:                  result.Mode,
		AsOfDate:              asOf,
		InstalmentAmount:      mathutil.Round(result.InstalmentAmount),
		PrincipalDemand:       mathutil.Round(result.PrincipalDemand),
		InterestDemand:        mathutil.Round(result.InterestDemand),
		Demand:                mathutil.Round(result.Demand),
		Collection:            mathutil.Round(result.Collection),
		Balance:               cents(result.Balance),
		OverduePrincipal:      mathutil.Round(result.OverduePrincipal),
		OverdueInterest:       mathutil.Round(result.OverdueInterest),
		OutstandingPrincipal:  cents(result.OutstandingPrincipal),
		OutstandingInterest:   cents(result.OutstandingInterest),
		TotalPrincipalBalance: cents(result.TotalPrincipalBalance),
		TotalInterestBalance:  cents(result.TotalInterestBalance),
		InstalmentsDue:        result.InstalmentsDue,
		InstalmentsPaid:       result.InstalmentsPaid,
		InstalmentsOverdue:    result.InstalmentsOverdue,
		OverdueDays:           result.OverdueDays,
	}
	if result.OverdueSince != nil {
		doc.OverdueSince = datetime.FormatDate(*result.OverdueSince)
	}
	return doc
}

// cents rounds and clears negative zero, which floating point residue leaves
// behind on fully repaid balances.
func cents(value float64) float64 {
	rounded := mathutil.Round(value)
	if rounded == 0 {
		return 0
	}
	return rounded
}
