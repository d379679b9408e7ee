package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgercore/internal/model"
	"github.com/cleared-dev/ledgercore/internal/reports"
)

// periodFlags are the --from/--to flags shared by the period reports.
type periodFlags struct {
	from string
	to   string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first day (YYYY-MM-DD, default beginning)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day (YYYY-MM-DD, default present)")
}

func parsePeriod(from, to string) (model.Period, error) {
	f, err := model.ParseDate(from)
	if err != nil {
		return model.Period{}, err
	}
	t, err := model.ParseDate(to)
	if err != nil {
		return model.Period{}, err
	}
	p := model.Period{From: f, To: t}
	if p.Empty() {
		return model.Period{}, errors.New("--from must not be after --to")
	}
	return p, nil
}

func newReportCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Produce financial reports",
	}

	cmd.AddCommand(periodReport(opts, "trial-balance", "Trial balance", func(cmd *cobra.Command, s *reports.Service, p model.Period) error {
		return s.WriteTrialBalance(cmd.OutOrStdout(), s.TrialBalance(p))
	}))
	cmd.AddCommand(periodReport(opts, "income", "Income statement", func(cmd *cobra.Command, s *reports.Service, p model.Period) error {
		return s.WriteIncomeStatement(cmd.OutOrStdout(), s.IncomeStatement(p))
	}))
	cmd.AddCommand(periodReport(opts, "balance-sheet", "Balance sheet", func(cmd *cobra.Command, s *reports.Service, p model.Period) error {
		return s.WriteBalanceSheet(cmd.OutOrStdout(), s.BalanceSheet(p))
	}))
	cmd.AddCommand(periodReport(opts, "ratios", "Financial ratios", func(cmd *cobra.Command, s *reports.Service, p model.Period) error {
		return s.WriteRatios(cmd.OutOrStdout(), s.Ratios(p))
	}))
	cmd.AddCommand(newCashFlowCommand(opts))
	cmd.AddCommand(newAgingCommand(opts))

	return cmd
}

type reportFunc func(cmd *cobra.Command, s *reports.Service, p model.Period) error

func periodReport(opts *globalOptions, use, short string, run reportFunc) *cobra.Command {
	f := &periodFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := parsePeriod(f.from, f.to)
			if err != nil {
				return err
			}
			s, err := openReports(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd, s, period)
		},
	}
	f.register(cmd)
	return cmd
}

func openReports(cmd *cobra.Command, opts *globalOptions) (*reports.Service, error) {
	p, err := openProject(cmd, opts)
	if err != nil {
		return nil, err
	}
	return reports.New(p.cfg, p.accounts.All(), p.journal.All(), p.log), nil
}

func newCashFlowCommand(opts *globalOptions) *cobra.Command {
	f := &periodFlags{}
	cmd := &cobra.Command{
		Use:   "cash-flow",
		Short: "Cash flow statement (indirect method)",
		Long: "Cash flow statement (indirect method). Without --from and --to the\n" +
			"fiscal year containing --to, or today, is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := model.ParseDate(f.from)
			if err != nil {
				return err
			}
			to, err := model.ParseDate(f.to)
			if err != nil {
				return err
			}

			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			if from.IsZero() || to.IsZero() {
				anchor := to
				if anchor.IsZero() {
					anchor = model.Day(now())
				}
				fy := p.cfg.FiscalYear(anchor)
				if from.IsZero() {
					from = fy.From
				}
				if to.IsZero() {
					to = fy.To
				}
			}

			s := reports.New(p.cfg, p.accounts.All(), p.journal.All(), p.log)
			cf, err := s.CashFlow(from, to)
			if err != nil {
				return err
			}
			return s.WriteCashFlow(cmd.OutOrStdout(), cf)
		},
	}
	f.register(cmd)
	return cmd
}

func newAgingCommand(opts *globalOptions) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Aged receivables by customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := model.ParseDate(asOf)
			if err != nil {
				return err
			}
			if day.IsZero() {
				day = model.Day(now())
			}
			s, err := openReports(cmd, opts)
			if err != nil {
				return err
			}
			return s.WriteAging(cmd.OutOrStdout(), s.Aging(day))
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "report date (YYYY-MM-DD, default today)")
	return cmd
}
