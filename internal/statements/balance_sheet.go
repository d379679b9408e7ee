package statements

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/balance"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// BalanceSheet is assets, liabilities and equity for a period. NetIncome for
// the same period is carried as an unposted addition to retained earnings.
// Every account, income and expense included, carries its opening balance
// so the equation holds whenever the openings themselves balance.
type BalanceSheet struct {
	Period           model.Period
	Assets           []Line
	Liabilities      []Line
	Equity           []Line
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal // equity accounts only
	NetIncome        decimal.Decimal
}

// BuildBalanceSheet sums each side. Pass model.Through(day) for a
// conventional point-in-time balance sheet.
func BuildBalanceSheet(accounts []model.Account, txns []model.Transaction, p model.Period, opts model.ReportOptions) BalanceSheet {
	assets, totalAssets := section(model.AccountTypeAsset, accounts, txns, p, balance.Of, opts.ShowZeroBalances)
	liabilities, totalLiabilities := section(model.AccountTypeLiability, accounts, txns, p, balance.Of, opts.ShowZeroBalances)
	equity, totalEquity := section(model.AccountTypeEquity, accounts, txns, p, balance.Of, opts.ShowZeroBalances)
	netIncome := balance.OfType(model.AccountTypeIncome, txns, accounts, p).
		Sub(balance.OfType(model.AccountTypeExpense, txns, accounts, p))

	return BalanceSheet{
		Period:           p,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity,
		NetIncome:        netIncome,
	}
}

// EquityWithEarnings returns equity accounts plus current net income.
func (bs BalanceSheet) EquityWithEarnings() decimal.Decimal {
	return bs.TotalEquity.Add(bs.NetIncome)
}

// TotalLiabilitiesAndEquity returns liabilities + equity + net income.
func (bs BalanceSheet) TotalLiabilitiesAndEquity() decimal.Decimal {
	return bs.TotalLiabilities.Add(bs.EquityWithEarnings())
}

// Balanced reports whether assets equal liabilities + equity + net income.
func (bs BalanceSheet) Balanced() bool {
	return model.Within(bs.TotalAssets, bs.TotalLiabilitiesAndEquity())
}

// Err returns an *ImbalanceError when the accounting equation fails.
func (bs BalanceSheet) Err() error {
	if bs.Balanced() {
		return nil
	}
	return &ImbalanceError{Statement: "balance sheet", Left: bs.TotalAssets, Right: bs.TotalLiabilitiesAndEquity()}
}
