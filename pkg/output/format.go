// Package output renders calculator results as pretty tables, CSV or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/bank-calculators/pkg/constants"
	"github.com/iwvelando/bank-calculators/pkg/format"
	"github.com/iwvelando/bank-calculators/pkg/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Renderer writes documents to w in a single output format.
type Renderer struct {
	w      io.Writer
	format string
}

// NewRenderer returns a renderer for one of the pretty, csv or json formats.
func NewRenderer(w io.Writer, outputFormat string) (*Renderer, error) {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return nil, err
	}
	return &Renderer{w: w, format: outputFormat}, nil
}

// Schedule renders an EMI schedule.
func (r *Renderer) Schedule(doc ScheduleDocument) error {
	switch r.format {
	case constants.OutputFormatJSON:
		return r.json(doc)
	case constants.OutputFormatCSV:
		records := [][]string{{"installment", "due date", "principal", "interest", "instalment", "balance"}}
		for _, row := range doc.Rows {
			records = append(records, []string{
				strconv.Itoa(row.InstallmentNumber),
				row.DueDate,
				fixed(row.PrincipalPortion),
				fixed(row.InterestPortion),
				fixed(row.TotalInstallment),
				fixed(row.BalanceAfter),
			})
		}
		return r.csv(records)
	}

	p := newPrettyPrinter(r.w)
	p.printf("--- EMI schedule ---\n")
	p.printf("Instalment      : %s\n", format.Amount(doc.Instalment))
	p.printf("Instalments     : %d\n", doc.InstalmentCount)
	p.printf("Period rate     : %s\n", format.Percent(doc.PeriodRate))
	p.printf("Total interest  : %s\n", format.Amount(doc.TotalInterest))
	p.printf("Total payment   : %s\n", format.Amount(doc.TotalPayment))
	p.printf("Due dates       : %s to %s\n\n", orDash(doc.FirstDueDate), orDash(doc.LastDueDate))
	p.printf("#    | Due date   | Principal | Interest | Instalment | Balance\n")
	p.printf("____ | __________ | _________ | ________ | __________ | _______\n")
	for _, row := range doc.Rows {
		p.printf("%-4d | %s | %s | %s | %s | %s\n", row.InstallmentNumber, row.DueDate,
			format.Amount(row.PrincipalPortion), format.Amount(row.InterestPortion),
			format.Amount(row.TotalInstallment), format.Amount(row.BalanceAfter))
	}
	return p.err
}

// Deposit renders a deposit summary and its monthly table.
func (r *Renderer) Deposit(doc DepositDocument) error {
	switch r.format {
	case constants.OutputFormatJSON:
		return r.json(doc)
	case constants.OutputFormatCSV:
		records := [][]string{{"month", "date", "contribution", "interest", "cumulative interest", "balance"}}
		for _, row := range doc.Rows {
			records = append(records, []string{
				strconv.Itoa(row.Month),
				row.Date,
				fixed(row.Contribution),
				fixed(row.InterestEarned),
				fixed(row.CumulativeInterest),
				fixed(row.Balance),
			})
		}
		return r.csv(records)
	}

	p := newPrettyPrinter(r.w)
	p.printf("--- Term deposit ---\n")
	p.printf("Maturity value  : %s\n", format.Amount(doc.MaturityValue))
	p.printf("Contributed     : %s\n", format.Amount(doc.TotalContributed))
	p.printf("Interest        : %s\n", format.Amount(doc.InterestAmount))
	p.printf("APY             : %s\n", format.Percent(doc.APY))
	p.printf("Monthly rate    : %s\n", format.Percent(doc.EffectiveMonthlyRate))
	if doc.MonthlyPayout != 0 {
		p.printf("Monthly payout  : %s\n", format.Amount(doc.MonthlyPayout))
	}
	if doc.MaturityDate != "" {
		p.printf("Maturity date   : %s\n", doc.MaturityDate)
	}
	p.printf("\nMonth | Date       | Contribution | Interest | Cumulative | Balance\n")
	p.printf("_____ | __________ | ____________ | ________ | __________ | _______\n")
	for _, row := range doc.Rows {
		p.printf("%-5d | %-10s | %s | %s | %s | %s\n", row.Month, orDash(row.Date),
			format.Amount(row.Contribution), format.Amount(row.InterestEarned),
			format.Amount(row.CumulativeInterest), format.Amount(row.Balance))
	}
	return p.err
}

// DCB renders a demand, collection and balance analysis.
func (r *Renderer) DCB(doc DCBDocument) error {
	overdueDays := ""
	if doc.OverdueDays != nil {
		overdueDays = strconv.Itoa(*doc.OverdueDays)
	}

	switch r.format {
	case constants.OutputFormatJSON:
		return r.json(doc)
	case constants.OutputFormatCSV:
		return r.csv([][]string{
			{"field", "value"},
			{"mode", doc.Mode},
			{"as of date", doc.AsOfDate},
			{"instalment amount", fixed(doc.InstalmentAmount)},
			{"principal demand", fixed(doc.PrincipalDemand)},
			{"interest demand", fixed(doc.InterestDemand)},
			{"demand", fixed(doc.Demand)},
			{"collection", fixed(doc.Collection)},
			{"balance", fixed(doc.Balance)},
			{"overdue principal", fixed(doc.OverduePrincipal)},
			{"overdue interest", fixed(doc.OverdueInterest)},
			{"outstanding principal", fixed(doc.OutstandingPrincipal)},
			{"outstanding interest", fixed(doc.OutstandingInterest)},
			{"total principal balance", fixed(doc.TotalPrincipalBalance)},
			{"total interest balance", fixed(doc.TotalInterestBalance)},
			{"instalments due", strconv.Itoa(doc.InstalmentsDue)},
			{"instalments paid", strconv.Itoa(doc.InstalmentsPaid)},
			{"instalments overdue", strconv.Itoa(doc.InstalmentsOverdue)},
			{"overdue since", doc.OverdueSince},
			{"overdue days", overdueDays},
		})
	}

	p := newPrettyPrinter(r.w)
	p.printf("--- DCB as of %s (%s) ---\n", doc.AsOfDate, doc.Mode)
	p.printf("Instalment              : %s\n", format.Amount(doc.InstalmentAmount))
	p.printf("Demand                  : %s (principal %s, interest %s)\n", format.Amount(doc.Demand),
		format.Amount(doc.PrincipalDemand), format.Amount(doc.InterestDemand))
	p.printf("Collection              : %s\n", format.Amount(doc.Collection))
	p.printf("Balance                 : %s\n", format.Amount(doc.Balance))
	p.printf("Overdue principal       : %s\n", format.Amount(doc.OverduePrincipal))
	p.printf("Overdue interest        : %s\n", format.Amount(doc.OverdueInterest))
	p.printf("Outstanding principal   : %s\n", format.Amount(doc.OutstandingPrincipal))
	p.printf("Outstanding interest    : %s\n", format.Amount(doc.OutstandingInterest))
	p.printf("Total principal balance : %s\n", format.Amount(doc.TotalPrincipalBalance))
	p.printf("Total interest balance  : %s\n", format.Amount(doc.TotalInterestBalance))
	p.printf("Instalments             : %d due, %d paid, %d overdue\n",
		doc.InstalmentsDue, doc.InstalmentsPaid, doc.InstalmentsOverdue)
	if doc.OverdueSince != "" {
		p.printf("Overdue since           : %s (%s days)\n", doc.OverdueSince, overdueDays)
	} else {
		p.printf("Overdue since           : -\n")
	}
	return p.err
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func (r *Renderer) csv(records [][]string) error {
	w := csv.NewWriter(r.w)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV output: %w", err)
	}
	return nil
}

// fixed renders an amount with exactly two decimals and no grouping.
func fixed(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// prettyPrinter keeps the first write error so table rendering can stay
// linear.
type prettyPrinter struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func newPrettyPrinter(w io.Writer) *prettyPrinter {
	return &prettyPrinter{p: message.NewPrinter(language.English), w: w}
}

func (pp *prettyPrinter) printf(layout string, args ...any) {
	if pp.err != nil {
		return
	}
	_, pp.err = pp.p.Fprintf(pp.w, layout, args...)
}
