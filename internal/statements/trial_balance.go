package statements

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/balance"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// TrialBalanceRow holds the raw movement of one account and its single
// outstanding display column.
type TrialBalanceRow struct {
	Account       model.Account
	Debit         decimal.Decimal // raw debits in the period
	Credit        decimal.Decimal // raw credits in the period
	Balance       decimal.Decimal // Debit-Credit in the account's normal sign
	DisplayDebit  decimal.Decimal
	DisplayCredit decimal.Decimal
}

// TrialBalance lists every account's outstanding debit or credit.
type TrialBalance struct {
	Period      model.Period
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// BuildTrialBalance computes raw debits and credits per account inside the
// period (opening balances are not folded in) and shows each net in exactly
// one column: a net debit as debit outstanding, a net credit as credit
// outstanding, whichever side is normal for the account.
func BuildTrialBalance(accounts []model.Account, txns []model.Transaction, p model.Period, opts model.ReportOptions) TrialBalance {
	tb := TrialBalance{Period: p, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, a := range byCode(accounts) {
		debit, credit := balance.Movement(a, txns, p)
		net := debit.Sub(credit)

		row := TrialBalanceRow{
			Account:       a,
			Debit:         debit,
			Credit:        credit,
			Balance:       a.Type.Signed(net),
			DisplayDebit:  decimal.Zero,
			DisplayCredit: decimal.Zero,
		}
		if net.IsPositive() {
			row.DisplayDebit = net
		} else {
			row.DisplayCredit = net.Neg()
		}

		tb.TotalDebit = tb.TotalDebit.Add(row.DisplayDebit)
		tb.TotalCredit = tb.TotalCredit.Add(row.DisplayCredit)

		if debit.IsZero() && credit.IsZero() && !opts.ShowZeroBalances {
			continue
		}
		tb.Rows = append(tb.Rows, row)
	}
	return tb
}

// Difference returns total display debits minus total display credits.
func (tb TrialBalance) Difference() decimal.Decimal {
	return tb.TotalDebit.Sub(tb.TotalCredit)
}

// Balanced reports whether the two columns agree within tolerance.
func (tb TrialBalance) Balanced() bool {
	return model.Within(tb.TotalDebit, tb.TotalCredit)
}

// Err returns an *ImbalanceError when the columns disagree.
func (tb TrialBalance) Err() error {
	if tb.Balanced() {
		return nil
	}
	return &ImbalanceError{Statement: "trial balance", Left: tb.TotalDebit, Right: tb.TotalCredit}
}
