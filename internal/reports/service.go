// Package reports runs the ledger engines over a store snapshot with the
// project's configuration and renders the results as text tables.
package reports

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/ledgercore/internal/accounts"
	"github.com/cleared-dev/ledgercore/internal/aging"
	"github.com/cleared-dev/ledgercore/internal/cashflow"
	"github.com/cleared-dev/ledgercore/internal/config"
	"github.com/cleared-dev/ledgercore/internal/display"
	"github.com/cleared-dev/ledgercore/internal/journal"
	"github.com/cleared-dev/ledgercore/internal/mapping"
	"github.com/cleared-dev/ledgercore/internal/model"
	"github.com/cleared-dev/ledgercore/internal/ratios"
	"github.com/cleared-dev/ledgercore/internal/statements"
)

// Service builds reports from one consistent snapshot of the ledger.
type Service struct {
	cfg      *config.Config
	accounts []model.Account
	txns     []model.Transaction
	roles    mapping.Resolved
	money    display.Formatter
	log      logrus.FieldLogger
}

// New resolves account roles against the chart and logs any configured
// names that match no account.
func New(cfg *config.Config, accts []model.Account, txns []model.Transaction, log logrus.FieldLogger) *Service {
	roles := mapping.Resolve(cfg.Mapping, accts)
	for _, u := range roles.Unresolved {
		log.WithField("role", u.Role).Warn(u.String())
	}
	return &Service{
		cfg:      cfg,
		accounts: accts,
		txns:     txns,
		roles:    roles,
		money:    display.New(cfg.Report.Currency, cfg.Rate()),
		log:      log,
	}
}

// Options returns the configured report options.
func (s *Service) Options() model.ReportOptions {
	return s.cfg.Options()
}

// TrialBalance builds the trial balance and warns if it does not balance.
func (s *Service) TrialBalance(p model.Period) statements.TrialBalance {
	tb := statements.BuildTrialBalance(s.accounts, s.txns, p, s.Options())
	if err := tb.Err(); err != nil {
		s.log.WithField("period", p.String()).Warn(err.Error())
	}
	s.log.WithFields(logrus.Fields{"period": p.String(), "rows": len(tb.Rows)}).Debug("trial balance built")
	return tb
}

// IncomeStatement builds the income statement.
func (s *Service) IncomeStatement(p model.Period) statements.IncomeStatement {
	is := statements.BuildIncomeStatement(s.accounts, s.txns, p, s.Options())
	s.log.WithFields(logrus.Fields{
		"period":   p.String(),
		"revenue":  len(is.Revenue),
		"expenses": len(is.Expenses),
	}).Debug("income statement built")
	return is
}

// BalanceSheet builds the balance sheet and warns if A != L + E + NI.
func (s *Service) BalanceSheet(p model.Period) statements.BalanceSheet {
	bs := statements.BuildBalanceSheet(s.accounts, s.txns, p, s.Options())
	if err := bs.Err(); err != nil {
		s.log.WithField("period", p.String()).Warn(err.Error())
	}
	s.log.WithField("period", p.String()).Debug("balance sheet built")
	return bs
}

// CashFlow builds the cash flow statement and warns if it does not
// reconcile. The error is non-nil only for an invalid period.
func (s *Service) CashFlow(from, to time.Time) (cashflow.Statement, error) {
	if len(s.roles.Accounts(mapping.RoleCash)) == 0 {
		s.log.Warn("no cash accounts resolved; beginning and ending cash will be zero")
	}
	cf, err := cashflow.Build(s.accounts, s.txns, from, to, s.roles)
	if err != nil {
		return cashflow.Statement{}, err
	}
	if err := cf.Err(); err != nil {
		s.log.Warn(err.Error())
	}
	s.log.WithField("net", cf.NetCashFlow.String()).Debug("cash flow built")
	return cf, nil
}

// Ratios builds the ratio report.
func (s *Service) Ratios(p model.Period) ratios.Report {
	r := ratios.Build(s.accounts, s.txns, p, s.roles)
	s.log.WithField("period", p.String()).Debug("ratios built")
	return r
}

// Aging builds the aged receivables report as of a day.
func (s *Service) Aging(asOf time.Time) aging.Report {
	if _, ok := s.roles.Receivable(); !ok {
		s.log.Warn("no receivables account resolved; aging report is empty")
	}
	r := aging.Build(s.txns, s.roles, asOf, aging.Options{AgeBy: s.Options().AgeBy})
	s.log.WithField("customers", len(r.Customers)).Debug("aging built")
	return r
}

// Findings collects ledger integrity problems found by Check.
type Findings struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no errors were found.
func (f Findings) OK() bool {
	return len(f.Errors) == 0
}

// Check revalidates every entry and verifies the self-checking totals.
func (s *Service) Check() Findings {
	var f Findings
	for _, verr := range journal.ValidateJournal(s.txns, chartIDs(s.accounts)) {
		f.Errors = append(f.Errors, verr.Error())
	}
	if err := s.TrialBalance(model.AllTime).Err(); err != nil {
		f.Errors = append(f.Errors, err.Error())
	}
	if err := s.BalanceSheet(model.AllTime).Err(); err != nil {
		f.Errors = append(f.Errors, err.Error())
	}
	if diff := accounts.OpeningImbalance(s.accounts); !diff.IsZero() {
		f.Warnings = append(f.Warnings, "opening balances do not net to zero: difference "+diff.StringFixed(2))
	}
	for _, u := range s.roles.Unresolved {
		f.Warnings = append(f.Warnings, "mapping "+u.String())
	}
	return f
}

type chartIDs []model.Account

func (c chartIDs) Exists(id string) bool {
	for _, a := range c {
		if a.ID == id {
			return true
		}
	}
	return false
}
