package statements

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/balance"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// IncomeStatement is revenue and expense for a period.
type IncomeStatement struct {
	Period        model.Period
	Revenue       []Line
	Expenses      []Line
	TotalRevenue  decimal.Decimal
	TotalExpenses decimal.Decimal
	NetIncome     decimal.Decimal
}

// BuildIncomeStatement lists income accounts (credit normal) as revenue and
// expense accounts (debit normal) as expenses. Only activity inside the
// period counts; opening balances are positions, not earnings.
func BuildIncomeStatement(accounts []model.Account, txns []model.Transaction, p model.Period, opts model.ReportOptions) IncomeStatement {
	revenue, totalRevenue := section(model.AccountTypeIncome, accounts, txns, p, balance.Flow, opts.ShowZeroBalances)
	expenses, totalExpenses := section(model.AccountTypeExpense, accounts, txns, p, balance.Flow, opts.ShowZeroBalances)
	return IncomeStatement{
		Period:        p,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetIncome:     totalRevenue.Sub(totalExpenses),
	}
}
