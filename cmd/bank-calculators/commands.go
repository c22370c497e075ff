package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/bank-calculators/internal/calculator"
	"github.com/iwvelando/bank-calculators/internal/server"
	"github.com/iwvelando/bank-calculators/internal/tracing"
	"github.com/iwvelando/bank-calculators/pkg/constants"
	"github.com/iwvelando/bank-calculators/pkg/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func (a *app) service() *calculator.Service {
	return calculator.NewService(a.logger, a.conf.Limits, nil)
}

func (a *app) renderer() (*output.Renderer, error) {
	return output.NewRenderer(a.out, a.outputFormat)
}

func addLoanFlags(fs *pflag.FlagSet, req *calculator.LoanRequest) {
	fs.Float64Var(&req.Principal, "principal", 0, "loan principal")
	fs.Float64Var(&req.AnnualRatePercent, "rate", 0, "nominal annual interest rate in percent")
	fs.IntVar(&req.InstalmentCount, "count", 0, "number of instalments")
	fs.StringVar(&req.Frequency, "frequency", constants.FrequencyMonthly, "instalment frequency: monthly, quarterly, half-yearly, yearly")
	fs.StringVar(&req.Compounding, "compounding", constants.FrequencyMonthly, "interest compounding: daily, monthly, quarterly, half-yearly, yearly, no-compound")
	fs.StringVar(&req.SanctionDate, "sanction-date", "", "loan sanction date (DD/MM/YYYY)")
	fs.StringVar(&req.StartDate, "start-date", "", "first instalment due date (DD/MM/YYYY)")
}

func (a *app) emiCmd() *cobra.Command {
	var req calculator.LoanRequest
	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Compute the level instalment and amortization schedule of a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.service().CalculateEMI(cmd.Context(), req)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			return r.Schedule(doc)
		},
	}
	addLoanFlags(cmd.Flags(), &req)
	return cmd
}

func (a *app) depositCmd() *cobra.Command {
	var req calculator.DepositRequest
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Compute the maturity value and monthly growth of a term deposit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.service().CalculateDeposit(cmd.Context(), req)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			return r.Deposit(doc)
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&req.Principal, "principal", 0, "initial deposit")
	fs.Float64Var(&req.Contribution, "contribution", 0, "monthly contribution")
	fs.IntVar(&req.TermMonths, "term", 0, "term in months")
	fs.Float64Var(&req.AnnualRatePercent, "rate", 0, "nominal annual interest rate in percent")
	fs.StringVar(&req.Compounding, "compounding", constants.FrequencyQuarterly, "interest compounding: daily, monthly, quarterly, half-yearly, yearly, no-compound")
	fs.StringVar(&req.Payout, "payout", constants.PayoutMaturity, "payout method: monthly-interest, maturity")
	fs.StringVar(&req.StartDate, "start-date", "", "optional deposit date (DD/MM/YYYY) used to date the table")
	return cmd
}

func (a *app) dcbCmd() *cobra.Command {
	var (
		req          calculator.DCBRequest
		showSchedule bool
	)
	cmd := &cobra.Command{
		Use:   "dcb",
		Short: "Compute demand, collection, balance and overdue amounts of a loan",
		Long: `Compute demand, collection, balance and overdue amounts of a loan as of a
date. The --mode flag selects how payments are disclosed:

  instalments  --paid is the number of instalments already paid
  outstanding  --principal-amount and --interest-amount are currently owed
  collection   --principal-amount and --interest-amount have been collected`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.service().CalculateDCB(cmd.Context(), req)
			if err != nil {
				return err
			}
			r, err := a.renderer()
			if err != nil {
				return err
			}
			if err := r.DCB(resp.DCB); err != nil {
				return err
			}
			if showSchedule {
				return r.Schedule(resp.Schedule)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	addLoanFlags(fs, &req.LoanInput)
	fs.StringVar(&req.AsOfDate, "as-of", "", "analysis date (DD/MM/YYYY)")
	fs.StringVar(&req.Mode, "mode", constants.ModeInstalments, "payment disclosure: instalments, outstanding, collection")
	fs.IntVar(&req.InstalmentsPaid, "paid", 0, "instalments paid (instalments mode)")
	fs.Float64Var(&req.PrincipalAmount, "principal-amount", 0, "principal outstanding or collected")
	fs.Float64Var(&req.InterestAmount, "interest-amount", 0, "interest outstanding or collected")
	fs.BoolVar(&showSchedule, "schedule", false, "also print the amortization schedule")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over an HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, address)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

func (a *app) serve(ctx context.Context, address string) error {
	serverCfg, err := server.NewConfig(a.conf.Server)
	if err != nil {
		return err
	}
	if address != "" {
		serverCfg.Address = address
	}

	tracer, shutdownTracing, err := tracing.Init(ctx, a.conf.Tracing, version, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			a.logger.Warn("failed to flush traces",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	svc := calculator.NewService(a.logger, a.conf.Limits, tracer)
	handler := server.NewHandler(a.logger, svc, serverCfg.RequestSizeBytes(), version)
	return server.Run(ctx, serverCfg, handler, a.logger, nil)
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.conf.WriteYAML(a.out)
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "bank-calculators %s\n", version)
			fmt.Fprintf(a.out, "  commit:  %s\n", commit)
			fmt.Fprintf(a.out, "  built:   %s\n", date)
		},
	}
}
