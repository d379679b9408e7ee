// Package balance computes signed account balances from journal entries.
//
// Every function is pure: it reads its arguments, never mutates them, and
// never fails. Unknown accounts and empty journals simply yield zero (or the
// opening balance).
package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// Movement returns the raw debit and credit totals posted to an account by
// entries dated inside the period. Opening balances are not included.
func Movement(acct model.Account, txns []model.Transaction, p model.Period) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	if p.Empty() {
		return debit, credit
	}
	for _, tx := range txns {
		if !p.Contains(tx.Date) {
			continue
		}
		for _, l := range tx.Lines {
			if l.AccountID != acct.ID {
				continue
			}
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
	}
	return debit, credit
}

// Of returns the balance of an account in its normal sign: debit minus
// credit for assets and expenses, credit minus debit otherwise. The opening
// balance is part of every non-empty period.
func Of(acct model.Account, txns []model.Transaction, p model.Period) decimal.Decimal {
	if p.Empty() {
		return decimal.Zero
	}
	return Flow(acct, txns, p).Add(acct.OpeningBalance)
}

// Flow returns the movement inside the period in the account's normal sign,
// without the opening balance.
func Flow(acct model.Account, txns []model.Transaction, p model.Period) decimal.Decimal {
	debit, credit := Movement(acct, txns, p)
	return acct.Type.Signed(debit.Sub(credit))
}

// AsOf returns the balance of an account over all history up to and
// including day.
func AsOf(acct model.Account, txns []model.Transaction, day time.Time) decimal.Decimal {
	return Of(acct, txns, model.Through(day))
}

// OfType sums Of across every account of the given type.
func OfType(t model.AccountType, txns []model.Transaction, accounts []model.Account, p model.Period) decimal.Decimal {
	return Sum(Filter(accounts, t), txns, p)
}

// FlowOfType sums Flow across every account of the given type.
func FlowOfType(t model.AccountType, txns []model.Transaction, accounts []model.Account, p model.Period) decimal.Decimal {
	return SumFlow(Filter(accounts, t), txns, p)
}

// SumFlow adds Flow across the given accounts.
func SumFlow(accounts []model.Account, txns []model.Transaction, p model.Period) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(Flow(a, txns, p))
	}
	return total
}

// Sum adds Of across the given accounts.
func Sum(accounts []model.Account, txns []model.Transaction, p model.Period) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(Of(a, txns, p))
	}
	return total
}

// Filter returns the accounts of type t, preserving order.
func Filter(accounts []model.Account, t model.AccountType) []model.Account {
	var out []model.Account
	for _, a := range accounts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}
