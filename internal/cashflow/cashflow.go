// Package cashflow builds an indirect-method cash flow statement and checks
// that it reconciles with the directly observed change in cash.
package cashflow

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/balance"
	"github.com/cleared-dev/ledgercore/internal/mapping"
	"github.com/cleared-dev/ledgercore/internal/model"
	"github.com/cleared-dev/ledgercore/internal/statements"
)

// ErrInvalidPeriod is returned when from or to is unset, or from is after to.
var ErrInvalidPeriod = errors.New("cash flow needs a period with from on or before to")

// ReconciliationError reports that beginning cash plus net cash flow does not
// equal ending cash. It signals inconsistent data or a defect, never an
// ordinary result.
type ReconciliationError struct {
	Beginning   decimal.Decimal
	NetCashFlow decimal.Decimal
	Ending      decimal.Decimal
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("cash flow does not reconcile: beginning %s + net %s != ending %s (discrepancy %s)",
		e.Beginning.StringFixed(2), e.NetCashFlow.StringFixed(2), e.Ending.StringFixed(2), e.Discrepancy().StringFixed(2))
}

// Discrepancy returns beginning + net - ending.
func (e *ReconciliationError) Discrepancy() decimal.Decimal {
	return e.Beginning.Add(e.NetCashFlow).Sub(e.Ending)
}

// Item is one adjustment or activity line.
type Item struct {
	Account    model.Account
	Start      decimal.Decimal // working capital only
	End        decimal.Decimal // working capital only
	Change     decimal.Decimal // working capital only
	CashEffect decimal.Decimal
}

// Statement is an indirect-method cash flow statement for [From, To].
type Statement struct {
	From time.Time
	To   time.Time

	NetIncome            decimal.Decimal
	WorkingCapital       []Item
	WorkingCapitalChange decimal.Decimal
	Operating            decimal.Decimal
	Investing            []Item
	CashFromInvesting    decimal.Decimal
	Financing            []Item
	CashFromFinancing    decimal.Decimal
	NetCashFlow          decimal.Decimal
	BeginningCash        decimal.Decimal
	EndingCash           decimal.Decimal
}

// Discrepancy returns beginning cash + net cash flow - ending cash.
func (s Statement) Discrepancy() decimal.Decimal {
	return s.BeginningCash.Add(s.NetCashFlow).Sub(s.EndingCash)
}

// Reconciled reports whether the statement ties out within tolerance.
func (s Statement) Reconciled() bool {
	return s.Discrepancy().Abs().LessThanOrEqual(model.Tolerance)
}

// Err returns a *ReconciliationError when the statement does not tie out.
func (s Statement) Err() error {
	if s.Reconciled() {
		return nil
	}
	return &ReconciliationError{Beginning: s.BeginningCash, NetCashFlow: s.NetCashFlow, Ending: s.EndingCash}
}

// Build derives the cash flow for [from, to] from balance deltas.
//
// Working-capital accounts are asset or liability accounts in the
// working_capital role; cash accounts (assets in the cash role) never
// count as working capital.
// Investing covers the remaining non-cash assets. Financing covers equity
// and the remaining liabilities.
func Build(accounts []model.Account, txns []model.Transaction, from, to time.Time, roles mapping.Resolved) (Statement, error) {
	if from.IsZero() || to.IsZero() || model.Day(from).After(model.Day(to)) {
		return Statement{}, ErrInvalidPeriod
	}
	from, to = model.Day(from), model.Day(to)
	before := from.AddDate(0, 0, -1)
	period := model.Between(from, to)

	cash := roles.IDs(mapping.RoleCash)
	wc := roles.IDs(mapping.RoleWorkingCapital)

	s := Statement{
		From:                 from,
		To:                   to,
		WorkingCapitalChange: decimal.Zero,
		CashFromInvesting:    decimal.Zero,
		CashFromFinancing:    decimal.Zero,
		BeginningCash:        decimal.Zero,
		EndingCash:           decimal.Zero,
	}
	s.NetIncome = statements.BuildIncomeStatement(accounts, txns, period, model.ReportOptions{}).NetIncome

	for _, a := range byCode(accounts) {
		switch {
		case cash[a.ID] && a.Type == model.AccountTypeAsset:
			s.BeginningCash = s.BeginningCash.Add(balance.AsOf(a, txns, before))
			s.EndingCash = s.EndingCash.Add(balance.AsOf(a, txns, to))

		case wc[a.ID] && (a.Type == model.AccountTypeAsset || a.Type == model.AccountTypeLiability):
			start := balance.AsOf(a, txns, before)
			end := balance.AsOf(a, txns, to)
			change := end.Sub(start)
			effect := change
			if a.Type == model.AccountTypeAsset {
				effect = change.Neg()
			}
			s.WorkingCapital = append(s.WorkingCapital, Item{
				Account: a, Start: start, End: end, Change: change, CashEffect: effect,
			})
			s.WorkingCapitalChange = s.WorkingCapitalChange.Add(effect)

		case a.Type == model.AccountTypeAsset:
			if item, ok := activity(a, txns, period); ok {
				s.Investing = append(s.Investing, item)
				s.CashFromInvesting = s.CashFromInvesting.Add(item.CashEffect)
			}

		case a.Type == model.AccountTypeEquity || a.Type == model.AccountTypeLiability:
			if item, ok := activity(a, txns, period); ok {
				s.Financing = append(s.Financing, item)
				s.CashFromFinancing = s.CashFromFinancing.Add(item.CashEffect)
			}
		}
	}

	s.Operating = s.NetIncome.Add(s.WorkingCapitalChange)
	s.NetCashFlow = s.Operating.Add(s.CashFromInvesting).Add(s.CashFromFinancing)
	return s, nil
}

// activity returns the credit-minus-debit movement of an account inside the
// period, and whether there was any movement at all.
func activity(a model.Account, txns []model.Transaction, p model.Period) (Item, bool) {
	debit, credit := balance.Movement(a, txns, p)
	if debit.IsZero() && credit.IsZero() {
		return Item{}, false
	}
	return Item{Account: a, CashEffect: credit.Sub(debit)}, true
}

func byCode(accounts []model.Account) []model.Account {
	out := slices.Clone(accounts)
	slices.SortStableFunc(out, func(a, b model.Account) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out
}
