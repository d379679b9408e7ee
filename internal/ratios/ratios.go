// Package ratios computes liquidity, solvency, profitability and efficiency
// ratios from account balances.
package ratios

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/balance"
	"github.com/cleared-dev/ledgercore/internal/mapping"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// Ratio is a computed ratio. A zero denominator leaves it undefined.
type Ratio struct {
	Value   decimal.Decimal
	Defined bool
}

// Undefined is the ratio of anything over zero.
var Undefined = Ratio{}

// Of divides num by den, returning Undefined for a zero denominator.
func Of(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return Undefined
	}
	return Ratio{Value: num.DivRound(den, 4), Defined: true}
}

// String formats the ratio to two places, or "N/A".
func (r Ratio) String() string {
	if !r.Defined {
		return "N/A"
	}
	return r.Value.StringFixed(2)
}

// Percent formats the ratio as a percentage, or "N/A".
func (r Ratio) Percent() string {
	if !r.Defined {
		return "N/A"
	}
	return r.Value.Shift(2).StringFixed(1) + "%"
}

// Category groups ratios on the report.
type Category string

const (
	Liquidity     Category = "Liquidity"
	Solvency      Category = "Solvency"
	Profitability Category = "Profitability"
	Efficiency    Category = "Efficiency"
)

// Keys of the ratios in a Report.
const (
	CurrentRatio      = "current_ratio"
	QuickRatio        = "quick_ratio"
	GrossMargin       = "gross_margin"
	NetMargin         = "net_margin"
	ReturnOnAssets    = "return_on_assets"
	DebtToAssets      = "debt_to_assets"
	DebtToEquity      = "debt_to_equity"
	AssetTurnover     = "asset_turnover"
	InventoryTurnover = "inventory_turnover"
)

// Entry is one named ratio.
type Entry struct {
	Key      string
	Name     string
	Category Category
	Percent  bool // render as a percentage
	Ratio    Ratio
}

// Figures are the balances every ratio is computed from.
type Figures struct {
	Revenue            decimal.Decimal
	COGS               decimal.Decimal
	NetIncome          decimal.Decimal
	TotalAssets        decimal.Decimal
	TotalLiabilities   decimal.Decimal
	CurrentAssets      decimal.Decimal
	CurrentLiabilities decimal.Decimal
	Inventory          decimal.Decimal
}

// TotalEquity is assets minus liabilities, which folds in retained
// earnings not yet closed to an equity account.
func (f Figures) TotalEquity() decimal.Decimal {
	return f.TotalAssets.Sub(f.TotalLiabilities)
}

// Report is the ordered set of ratios for a period.
type Report struct {
	Period  model.Period
	Figures Figures
	Entries []Entry
}

// Get returns the ratio with the given key.
func (r Report) Get(key string) (Ratio, bool) {
	for _, e := range r.Entries {
		if e.Key == key {
			return e.Ratio, true
		}
	}
	return Undefined, false
}

// Map returns the ratios keyed by name.
func (r Report) Map() map[string]Ratio {
	m := make(map[string]Ratio, len(r.Entries))
	for _, e := range r.Entries {
		m[e.Key] = e.Ratio
	}
	return m
}

// Gather computes Figures: flows (revenue, COGS, net income) over the
// period and stocks (assets, liabilities, inventory) as of its end.
func Gather(accounts []model.Account, txns []model.Transaction, p model.Period, roles mapping.Resolved) Figures {
	stock := model.Period{To: p.To}

	revenue := balance.FlowOfType(model.AccountTypeIncome, txns, accounts, p)
	expenses := balance.FlowOfType(model.AccountTypeExpense, txns, accounts, p)
	totalAssets := balance.OfType(model.AccountTypeAsset, txns, accounts, stock)
	totalLiabilities := balance.OfType(model.AccountTypeLiability, txns, accounts, stock)

	return Figures{
		Revenue:            revenue,
		COGS:               balance.SumFlow(balance.Filter(roles.Accounts(mapping.RoleCOGS), model.AccountTypeExpense), txns, p),
		NetIncome:          revenue.Sub(expenses),
		TotalAssets:        totalAssets,
		TotalLiabilities:   totalLiabilities,
		CurrentAssets:      totalAssets.Sub(balance.Sum(balance.Filter(roles.Accounts(mapping.RoleNonCurrentAssets), model.AccountTypeAsset), txns, stock)),
		CurrentLiabilities: totalLiabilities.Sub(balance.Sum(balance.Filter(roles.Accounts(mapping.RoleNonCurrentLiabilities), model.AccountTypeLiability), txns, stock)),
		Inventory:          balance.Sum(balance.Filter(roles.Accounts(mapping.RoleInventory), model.AccountTypeAsset), txns, stock),
	}
}

// Analyze computes every ratio from f.
func Analyze(f Figures) []Entry {
	equity := f.TotalEquity()
	return []Entry{
		{CurrentRatio, "Current Ratio", Liquidity, false, Of(f.CurrentAssets, f.CurrentLiabilities)},
		{QuickRatio, "Quick Ratio", Liquidity, false, Of(f.CurrentAssets.Sub(f.Inventory), f.CurrentLiabilities)},
		{DebtToAssets, "Debt to Assets", Solvency, false, Of(f.TotalLiabilities, f.TotalAssets)},
		{DebtToEquity, "Debt to Equity", Solvency, false, Of(f.TotalLiabilities, equity)},
		{GrossMargin, "Gross Profit Margin", Profitability, true, Of(f.Revenue.Sub(f.COGS), f.Revenue)},
		{NetMargin, "Net Profit Margin", Profitability, true, Of(f.NetIncome, f.Revenue)},
		{ReturnOnAssets, "Return on Assets", Profitability, true, Of(f.NetIncome, f.TotalAssets)},
		{AssetTurnover, "Asset Turnover", Efficiency, false, Of(f.Revenue, f.TotalAssets)},
		{InventoryTurnover, "Inventory Turnover", Efficiency, false, Of(f.COGS, f.Inventory)},
	}
}

// Build gathers figures for the period and analyzes them.
func Build(accounts []model.Account, txns []model.Transaction, p model.Period, roles mapping.Resolved) Report {
	f := Gather(accounts, txns, p, roles)
	return Report{Period: p, Figures: f, Entries: Analyze(f)}
}
