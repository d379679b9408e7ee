package accounts

import (
	"github.com/google/uuid"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// DefaultChart returns the default chart of accounts for an entity type.
// Account IDs are derived from the code so that two projects created from
// the same template agree on them.
func DefaultChart(entityType string) []model.Account {
	var chart []model.Account
	switch entityType {
	case "service":
		chart = serviceChart()
	default:
		chart = tradingChart()
	}
	for i := range chart {
		chart[i].ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("account:"+chart[i].Code)).String()
	}
	return chart
}

func tradingChart() []model.Account {
	return []model.Account{
		{Code: "10000", Name: "Bank", Type: model.AccountTypeAsset},
		{Code: "10100", Name: "Cash", Type: model.AccountTypeAsset},
		{Code: "11000", Name: "Accounts Receivable", Type: model.AccountTypeAsset},
		{Code: "12000", Name: "Inventory", Type: model.AccountTypeAsset},
		{Code: "15000", Name: "Equipment", Type: model.AccountTypeAsset},
		{Code: "20000", Name: "Accounts Payable", Type: model.AccountTypeLiability},
		{Code: "21000", Name: "Sales Tax Payable", Type: model.AccountTypeLiability},
		{Code: "25000", Name: "Long-Term Loan", Type: model.AccountTypeLiability},
		{Code: "30000", Name: "Owner's Equity", Type: model.AccountTypeEquity},
		{Code: "31000", Name: "Owner's Drawings", Type: model.AccountTypeEquity},
		{Code: "40000", Name: "Sales", Type: model.AccountTypeIncome},
		{Code: "41000", Name: "Other Income", Type: model.AccountTypeIncome},
		{Code: "50000", Name: "Cost of Goods Sold", Type: model.AccountTypeExpense},
		{Code: "60000", Name: "Rent", Type: model.AccountTypeExpense},
		{Code: "61000", Name: "Wages", Type: model.AccountTypeExpense},
		{Code: "62000", Name: "Utilities", Type: model.AccountTypeExpense},
	}
}

func serviceChart() []model.Account {
	return []model.Account{
		{Code: "10000", Name: "Bank", Type: model.AccountTypeAsset},
		{Code: "11000", Name: "Accounts Receivable", Type: model.AccountTypeAsset},
		{Code: "15000", Name: "Equipment", Type: model.AccountTypeAsset},
		{Code: "20000", Name: "Accounts Payable", Type: model.AccountTypeLiability},
		{Code: "21000", Name: "Sales Tax Payable", Type: model.AccountTypeLiability},
		{Code: "30000", Name: "Owner's Equity", Type: model.AccountTypeEquity},
		{Code: "40000", Name: "Service Revenue", Type: model.AccountTypeIncome},
		{Code: "60000", Name: "Rent", Type: model.AccountTypeExpense},
		{Code: "61000", Name: "Software & SaaS", Type: model.AccountTypeExpense},
		{Code: "62000", Name: "Professional Services", Type: model.AccountTypeExpense},
	}
}
