package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/dcb"
	"github.com/iwvelando/bank-calculators/pkg/deposit"
	"github.com/iwvelando/bank-calculators/pkg/loans"
	"github.com/iwvelando/bank-calculators/pkg/rates"
)

func testSchedule() loans.Schedule {
	rows := loans.GenerateSchedule(120000, 0.01, 12, datetime.MustParseDate("01/01/2025"), 1)
	summary := loans.Summarize(rows)
	summary.PeriodRate = 0.01
	return loans.Schedule{Rows: rows, Summary: summary}
}

func testDeposit() DepositDocument {
	result, rows := deposit.Compute(deposit.Params{
		Principal:         100000,
		TermMonths:        12,
		AnnualRatePercent: 12,
		Compounding:       rates.CompoundMonthly,
		Payout:            deposit.AtMaturity,
		StartDate:         datetime.MustParseDate("01/01/2025"),
	})
	return NewDepositDocument(result, rows)
}

func testDCB() DCBDocument {
	s := testSchedule()
	result := dcb.Classify(s.Rows, 120000, datetime.MustParseDate("15/06/2025"), dcb.InstalmentsPaid{Count: 4})
	return NewDCBDocument(result, "15/06/2025")
}

func render(t *testing.T, outputFormat string, fn func(*Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	r, err := NewRenderer(&buf, outputFormat)
	if err != nil {
		t.Fatalf("NewRenderer(%s) unexpected error = %v", outputFormat, err)
	}
	if err := fn(r); err != nil {
		t.Fatalf("render unexpected error = %v", err)
	}
	return buf.String()
}

func TestNewRendererRejectsUnknownFormat(t *testing.T) {
	if _, err := NewRenderer(&bytes.Buffer{}, "xml"); err == nil {
		t.Error("NewRenderer(xml) expected error but got none")
	}
}

func TestNewScheduleDocument(t *testing.T) {
	doc := NewScheduleDocument(testSchedule())

	if doc.Instalment != 10661.85 {
		t.Errorf("instalment = %.2f, expected 10661.85", doc.Instalment)
	}
	if doc.TotalInterest != 7942.26 {
		t.Errorf("total interest = %.2f, expected 7942.26", doc.TotalInterest)
	}
	if doc.FirstDueDate != "01/01/2025" || doc.LastDueDate != "01/12/2025" {
		t.Errorf("due dates = %s..%s", doc.FirstDueDate, doc.LastDueDate)
	}
	if len(doc.Rows) != 12 {
		t.Fatalf("rows = %d, expected 12", len(doc.Rows))
	}
	if doc.Rows[0].BalanceAfter != 110538.15 {
		t.Errorf("first balance = %.2f, expected 110538.15", doc.Rows[0].BalanceAfter)
	}
	if doc.Rows[11].BalanceAfter != 0 {
		t.Errorf("final balance = %v, expected 0", doc.Rows[11].BalanceAfter)
	}
}

func TestNewScheduleDocumentEmpty(t *testing.T) {
	doc := NewScheduleDocument(loans.Schedule{Rows: []loans.Row{}})
	if doc.FirstDueDate != "" || doc.Rows == nil || len(doc.Rows) != 0 {
		t.Errorf("empty schedule document = %+v", doc)
	}
}

func TestScheduleFormats(t *testing.T) {
	doc := NewScheduleDocument(testSchedule())

	t.Run("pretty", func(t *testing.T) {
		out := render(t, "pretty", func(r *Renderer) error { return r.Schedule(doc) })
		for _, want := range []string{
			"--- EMI schedule ---",
			"Instalment      : 10,661.85",
			"Total interest  : 7,942.26",
			"Period rate     : 1.0000%",
			"Due dates       : 01/01/2025 to 01/12/2025",
			"1    | 01/01/2025 | 9,461.85 | 1,200.00 | 10,661.85 | 110,538.15",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("pretty output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("csv", func(t *testing.T) {
		out := render(t, "csv", func(r *Renderer) error { return r.Schedule(doc) })
		records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 13 {
			t.Fatalf("records = %d, expected header plus 12 rows", len(records))
		}
		expected := []string{"1", "01/01/2025", "9461.85", "1200.00", "10661.85", "110538.15"}
		for i, want := range expected {
			if records[1][i] != want {
				t.Errorf("record[1][%d] = %s, expected %s", i, records[1][i], want)
			}
		}
		if records[12][5] != "0.00" {
			t.Errorf("final balance = %s, expected 0.00", records[12][5])
		}
	})

	t.Run("json", func(t *testing.T) {
		out := render(t, "json", func(r *Renderer) error { return r.Schedule(doc) })
		var decoded ScheduleDocument
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Instalment != 10661.85 || len(decoded.Rows) != 12 {
			t.Errorf("decoded = %+v", decoded)
		}
	})
}

func TestDepositFormats(t *testing.T) {
	doc := testDeposit()
	if doc.MaturityValue != 112682.50 {
		t.Fatalf("maturity value = %.2f, expected 112682.50", doc.MaturityValue)
	}
	if doc.MaturityDate != "01/01/2026" {
		t.Errorf("maturity date = %s, expected 01/01/2026", doc.MaturityDate)
	}

	pretty := render(t, "pretty", func(r *Renderer) error { return r.Deposit(doc) })
	for _, want := range []string{"Maturity value  : 112,682.50", "APY             : 12.6825%", "Maturity date   : 01/01/2026", "01/02/2025"} {
		if !strings.Contains(pretty, want) {
			t.Errorf("pretty output missing %q:\n%s", want, pretty)
		}
	}
	if strings.Contains(pretty, "Monthly payout") {
		t.Error("pretty output should omit monthly payout for maturity deposits")
	}

	records, err := csv.NewReader(strings.NewReader(render(t, "csv", func(r *Renderer) error { return r.Deposit(doc) }))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 13 {
		t.Fatalf("records = %d, expected 13", len(records))
	}
	if records[12][5] != "112682.50" {
		t.Errorf("final balance = %s, expected 112682.50", records[12][5])
	}
	if records[1][3] != "1000.00" {
		t.Errorf("first interest = %s, expected 1000.00", records[1][3])
	}
}

func TestDepositMonthlyPayoutPretty(t *testing.T) {
	result, rows := deposit.Compute(deposit.Params{
		Principal:         100000,
		TermMonths:        3,
		AnnualRatePercent: 12,
		Compounding:       rates.CompoundMonthly,
		Payout:            deposit.MonthlyInterest,
	})
	out := render(t, "pretty", func(r *Renderer) error { return r.Deposit(NewDepositDocument(result, rows)) })
	if !strings.Contains(out, "Monthly payout  : 990.10") {
		t.Errorf("pretty output missing monthly payout:\n%s", out)
	}
	if !strings.Contains(out, "1     | -          |") {
		t.Errorf("rows without dates should show a dash:\n%s", out)
	}
}

func TestDCBFormats(t *testing.T) {
	doc := testDCB()
	if doc.OverdueSince != "01/05/2025" || doc.OverdueDays == nil || *doc.OverdueDays != 45 {
		t.Fatalf("overdue since = %s, days = %v", doc.OverdueSince, doc.OverdueDays)
	}

	pretty := render(t, "pretty", func(r *Renderer) error { return r.DCB(doc) })
	for _, want := range []string{
		"--- DCB as of 15/06/2025 (instalments) ---",
		"Instalments             : 6 due, 4 paid, 2 overdue",
		"Overdue since           : 01/05/2025 (45 days)",
	} {
		if !strings.Contains(pretty, want) {
			t.Errorf("pretty output missing %q:\n%s", want, pretty)
		}
	}

	records, err := csv.NewReader(strings.NewReader(render(t, "csv", func(r *Renderer) error { return r.DCB(doc) }))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	values := map[string]string{}
	for _, record := range records[1:] {
		values[record[0]] = record[1]
	}
	if values["overdue days"] != "45" || values["overdue since"] != "01/05/2025" || values["mode"] != "instalments" {
		t.Errorf("csv values = %v", values)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(render(t, "json", func(r *Renderer) error { return r.DCB(doc) })), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["overdueDays"] != float64(45) {
		t.Errorf("overdueDays = %v, expected 45", decoded["overdueDays"])
	}
}

func TestDCBPrettyWithoutOverdue(t *testing.T) {
	s := testSchedule()
	result := dcb.Classify(s.Rows, 120000, datetime.MustParseDate("15/06/2025"), dcb.InstalmentsPaid{Count: 6})
	out := render(t, "pretty", func(r *Renderer) error { return r.DCB(NewDCBDocument(result, "15/06/2025")) })
	if !strings.Contains(out, "Overdue since           : -") {
		t.Errorf("expected no overdue date:\n%s", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRendererPropagatesWriteErrors(t *testing.T) {
	doc := NewScheduleDocument(testSchedule())
	for _, outputFormat := range []string{"pretty", "csv", "json"} {
		r, err := NewRenderer(failingWriter{}, outputFormat)
		if err != nil {
			t.Fatalf("NewRenderer(%s) unexpected error = %v", outputFormat, err)
		}
		if err := r.Schedule(doc); err == nil {
			t.Errorf("%s: expected write error but got none", outputFormat)
		}
	}
}
