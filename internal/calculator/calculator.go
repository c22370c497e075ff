// Package calculator validates requests and runs the loan, deposit and DCB
// engines, recording logs, metrics and spans around each calculation.
package calculator

import (
	"context"
	"time"

	"github.com/iwvelando/bank-calculators/internal/metrics"
	"github.com/iwvelando/bank-calculators/pkg/datetime"
	"github.com/iwvelando/bank-calculators/pkg/dcb"
	"github.com/iwvelando/bank-calculators/pkg/deposit"
	"github.com/iwvelando/bank-calculators/pkg/loans"
	"github.com/iwvelando/bank-calculators/pkg/output"
	"github.com/iwvelando/bank-calculators/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Calculator names used in logs and metric labels.
const (
	EMI     = "emi"
	Deposit = "deposit"
	DCB     = "dcb"
)

// Request types accepted by the service.
type (
	LoanRequest    = validation.LoanInput
	DepositRequest = validation.DepositInput
	DCBRequest     = validation.DCBInput
)

// DCBResponse pairs a DCB analysis with the schedule it was derived from.
type DCBResponse struct {
	DCB      output.DCBDocument      `json:"dcb"`
	Schedule output.ScheduleDocument `json:"schedule"`
}

// Service runs calculations. It is safe for concurrent use.
type Service struct {
	logger    *zap.Logger
	limits    validation.Limits
	tracer    trace.Tracer
	generator *loans.ScheduleGenerator
}

// NewService creates a service. A nil logger or tracer falls back to no-op
// implementations.
func NewService(logger *zap.Logger, limits validation.Limits, tracer trace.Tracer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tracer == nil {
		tracer = otel.Tracer("bank-calculators")
	}
	return &Service{
		logger:    logger,
		limits:    limits.WithDefaults(),
		tracer:    tracer,
		generator: loans.NewScheduleGenerator(logger),
	}
}

// CalculateEMI validates a loan and returns its amortization schedule.
func (s *Service) CalculateEMI(ctx context.Context, req LoanRequest) (doc output.ScheduleDocument, err error) {
	start := time.Now()
	_, span := s.begin(ctx, "calculator.CalculateEMI", EMI)
	defer func() { s.finish(span, EMI, start, err) }()

	params, err := validation.Loan(req, s.limits)
	if err != nil {
		s.rejected("calculator.CalculateEMI", err)
		return output.ScheduleDocument{}, err
	}
	span.SetAttributes(loanAttributes(params)...)

	schedule := s.generator.Generate(params)
	metrics.ScheduleRows.WithLabelValues(EMI).Add(float64(len(schedule.Rows)))
	s.logger.Info("computed EMI schedule",
		zap.String("op", "calculator.CalculateEMI"),
		zap.Float64("instalment", schedule.Summary.Instalment),
		zap.Int("instalments", len(schedule.Rows)),
		zap.Duration("duration", time.Since(start)),
	)
	return output.NewScheduleDocument(schedule), nil
}

// CalculateDeposit validates a deposit and returns its maturity summary and
// monthly table.
func (s *Service) CalculateDeposit(ctx context.Context, req DepositRequest) (doc output.DepositDocument, err error) {
	start := time.Now()
	_, span := s.begin(ctx, "calculator.CalculateDeposit", Deposit)
	defer func() { s.finish(span, Deposit, start, err) }()

	params, err := validation.Deposit(req, s.limits)
	if err != nil {
		s.rejected("calculator.CalculateDeposit", err)
		return output.DepositDocument{}, err
	}
	span.SetAttributes(
		attribute.Float64("deposit.principal", params.Principal),
		attribute.Float64("deposit.contribution", params.Contribution),
		attribute.Int("deposit.term_months", params.TermMonths),
		attribute.String("deposit.compounding", string(params.Compounding)),
		attribute.String("deposit.payout", string(params.Payout)),
	)

	result, rows := deposit.Compute(params)
	metrics.ScheduleRows.WithLabelValues(Deposit).Add(float64(len(rows)))
	s.logger.Info("computed deposit maturity",
		zap.String("op", "calculator.CalculateDeposit"),
		zap.Float64("maturityValue", result.MaturityValue),
		zap.Float64("interest", result.InterestAmount),
	)
	return output.NewDepositDocument(result, rows), nil
}

// CalculateDCB validates a DCB request, generates the loan schedule and
// classifies it as of the requested date.
func (s *Service) CalculateDCB(ctx context.Context, req DCBRequest) (resp DCBResponse, err error) {
	start := time.Now()
	_, span := s.begin(ctx, "calculator.CalculateDCB", DCB)
	defer func() { s.finish(span, DCB, start, err) }()

	terms, err := validation.DCB(req, s.limits)
	if err != nil {
		s.rejected("calculator.CalculateDCB", err)
		return DCBResponse{}, err
	}
	span.SetAttributes(loanAttributes(terms.Loan)...)
	span.SetAttributes(attribute.String("dcb.mode", terms.Mode.Name()))

	schedule := s.generator.Generate(terms.Loan)
	result := dcb.Classify(schedule.Rows, terms.Loan.Principal, terms.AsOf, terms.Mode)
	metrics.ScheduleRows.WithLabelValues(DCB).Add(float64(len(schedule.Rows)))

	fields := []zap.Field{
		zap.String("op", "calculator.CalculateDCB"),
		zap.String("mode", result.Mode),
		zap.Float64("demand", result.Demand),
		zap.Float64("balance", result.Balance),
		zap.Int("instalmentsOverdue", result.InstalmentsOverdue),
	}
	if result.OverdueDays != nil {
		fields = append(fields, zap.Int("overdueDays", *result.OverdueDays))
	}
	s.logger.Info("classified loan overdue position", fields...)

	return DCBResponse{
		DCB:      output.NewDCBDocument(result, datetime.FormatDate(terms.AsOf)),
		Schedule: output.NewScheduleDocument(schedule),
	}, nil
}

func (s *Service) begin(ctx context.Context, name, calculator string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("calculator", calculator)))
}

// finish closes the span and records the outcome.
func (s *Service) finish(span trace.Span, calculator string, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, metrics.Status(err))
	}
	span.End()
	metrics.ObserveCalculation(calculator, start, err)
}

func (s *Service) rejected(op string, err error) {
	s.logger.Debug("rejected calculation input",
		zap.String("op", op),
		zap.Error(err),
	)
}

func loanAttributes(p loans.Parameters) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("loan.principal", p.Principal),
		attribute.Float64("loan.annual_rate_percent", p.AnnualRatePercent),
		attribute.Int("loan.instalments", p.InstalmentCount),
		attribute.String("loan.frequency", string(p.Frequency)),
		attribute.String("loan.compounding", string(p.Compounding)),
	}
}
