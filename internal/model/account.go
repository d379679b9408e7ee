package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpense,
}

// ParseAccountType parses a case-insensitive account type name.
// "revenue" is accepted as an alias for income.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if t == "revenue" {
		return AccountTypeIncome, nil
	}
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeIncome, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether the type accumulates value on the debit side.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Signed converts a raw debit-minus-credit amount into the type's normal sign.
func (t AccountType) Signed(debitMinusCredit decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return debitMinusCredit
	}
	return debitMinusCredit.Neg()
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID             string
	Code           string
	Name           string
	Type           AccountType
	OpeningBalance decimal.Decimal // in the type's normal sign
}

// Label returns "code name", or just the name when showCode is false.
func (a Account) Label(showCode bool) string {
	if showCode && a.Code != "" {
		return a.Code + " " + a.Name
	}
	return a.Name
}
