package validation

import (
	"strings"
	"time"

	"github.com/iwvelando/bank-calculators/pkg/constants"
	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/dcb"
	"github.com/iwvelando/bank-calculators/pkg/deposit"
	"github.com/iwvelando/bank-calculators/pkg/loans"
	"github.com/iwvelando/bank-calculators/pkg/rates"
)

// LoanInput is the raw description of a term loan as supplied by a caller.
type LoanInput struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	InstalmentCount   int     `json:"instalmentCount"`
	Frequency         string  `json:"instalmentFrequency"`
	Compounding       string  `json:"compounding"`
	SanctionDate      string  `json:"sanctionDate"`
	StartDate         string  `json:"startDate"`
}

// DepositInput is the raw description of a term deposit.
type DepositInput struct {
	Principal         float64 `json:"principal"`
	Contribution      float64 `json:"contribution"`
	TermMonths        int     `json:"termMonths"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	Compounding       string  `json:"compounding"`
	Payout            string  `json:"payout"`
	StartDate         string  `json:"startDate,omitempty"`
}

// DCBInput is a loan plus the as-of date and payment disclosure for a DCB
// analysis. Which amount fields are read depends on Mode.
type DCBInput struct {
	LoanInput
	AsOfDate        string  `json:"asOfDate"`
	Mode            string  `json:"mode"`
	InstalmentsPaid int     `json:"instalmentsPaid"`
	PrincipalAmount float64 `json:"principalAmount"`
	InterestAmount  float64 `json:"interestAmount"`
}

// DCBTerms is a validated DCB request.
type DCBTerms struct {
	Loan loans.Parameters
	AsOf time.Time
	Mode dcb.Mode
}

// Loan validates a loan description against the limits.
func Loan(in LoanInput, limits Limits) (loans.Parameters, error) {
	c := &Checker{}
	params := checkLoan(c, in, limits.WithDefaults())
	if err := c.Err(); err != nil {
		return loans.Parameters{}, err
	}
	return params, nil
}

func checkLoan(c *Checker, in LoanInput, limits Limits) loans.Parameters {
	c.Positive("principal", in.Principal, limits.MaxPrincipal)
	c.NonNegative("annualRatePercent", in.AnnualRatePercent, limits.MaxRatePercent)
	c.IntRange("instalmentCount", in.InstalmentCount, 1, limits.MaxInstalments)

	frequency, err := rates.ParseFrequency(in.Frequency)
	c.Parse("instalmentFrequency", err)
	compounding, err := rates.ParseCompounding(in.Compounding)
	c.Parse("compounding", err)

	sanction := c.Date("sanctionDate", in.SanctionDate)
	start := c.Date("startDate", in.StartDate)
	if !sanction.IsZero() && !start.IsZero() && !datetime.OnOrBefore(sanction, start) {
		c.Failf("startDate", "instalment start %s precedes sanction %s",
			datetime.FormatDate(start), datetime.FormatDate(sanction))
	}

	return loans.Parameters{
		Principal:         in.Principal,
		AnnualRatePercent: in.AnnualRatePercent,
		InstalmentCount:   in.InstalmentCount,
		Frequency:         frequency,
		Compounding:       compounding,
		SanctionDate:      sanction,
		StartDate:         start,
	}
}

// Deposit validates a deposit description against the limits. The principal
// may be zero when a monthly contribution is supplied.
func Deposit(in DepositInput, limits Limits) (deposit.Params, error) {
	limits = limits.WithDefaults()
	c := &Checker{}

	c.NonNegative("principal", in.Principal, limits.MaxPrincipal)
	c.NonNegative("contribution", in.Contribution, limits.MaxContribution)
	if in.Principal == 0 && in.Contribution == 0 {
		c.Failf("principal", "a principal or a monthly contribution is required")
	}
	c.NonNegative("annualRatePercent", in.AnnualRatePercent, limits.MaxRatePercent)
	c.IntRange("termMonths", in.TermMonths, 1, limits.MaxTermMonths)

	compounding, err := rates.ParseCompounding(in.Compounding)
	c.Parse("compounding", err)
	payout, err := deposit.ParsePayout(in.Payout)
	c.Parse("payout", err)
	start := c.OptionalDate("startDate", in.StartDate)

	if err := c.Err(); err != nil {
		return deposit.Params{}, err
	}
	return deposit.Params{
		Principal:         in.Principal,
		Contribution:      in.Contribution,
		TermMonths:        in.TermMonths,
		AnnualRatePercent: in.AnnualRatePercent,
		Compounding:       compounding,
		Payout:            payout,
		StartDate:         start,
	}, nil
}

// DCB validates a DCB request. Disclosed principal amounts may not exceed
// the loan principal.
func DCB(in DCBInput, limits Limits) (DCBTerms, error) {
	limits = limits.WithDefaults()
	c := &Checker{}

	params := checkLoan(c, in.LoanInput, limits)
	asOf := c.Date("asOfDate", in.AsOfDate)

	var mode dcb.Mode
	switch strings.ToLower(strings.TrimSpace(in.Mode)) {
	case constants.ModeInstalments:
		c.IntRange("instalmentsPaid", in.InstalmentsPaid, 0, limits.MaxInstalments)
		mode = dcb.InstalmentsPaid{Count: in.InstalmentsPaid}
	case constants.ModeOutstanding, constants.ModeCollection:
		c.NonNegative("principalAmount", in.PrincipalAmount, limits.MaxPrincipal)
		c.NonNegative("interestAmount", in.InterestAmount, limits.MaxPrincipal)
		if in.PrincipalAmount > in.Principal && in.Principal > 0 {
			c.Failf("principalAmount", "%s principal %v exceeds the loan principal %v",
				in.Mode, in.PrincipalAmount, in.Principal)
		}
		var err error
		mode, err = dcb.ParseMode(in.Mode, in.PrincipalAmount, in.InterestAmount)
		c.Parse("mode", err)
	default:
		_, err := dcb.ParseMode(in.Mode, 0, 0)
		c.Parse("mode", err)
	}

	if err := c.Err(); err != nil {
		return DCBTerms{}, err
	}
	return DCBTerms{Loan: params, AsOf: asOf, Mode: mode}, nil
}
