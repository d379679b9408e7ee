// Package ledgertest provides charts and journal builders for tests.
package ledgertest

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// Account IDs of the fixture chart.
const (
	Bank      = "bank"
	Cash      = "cash"
	AR        = "ar"
	Inventory = "inventory"
	Equipment = "equipment"
	AP        = "ap"
	SalesTax  = "salestax"
	Loan      = "loan"
	Equity    = "equity"
	Drawings  = "drawings"
	Sales     = "sales"
	COGS      = "cogs"
	Rent      = "rent"
)

// Chart returns a small trading-business chart of accounts.
func Chart() []model.Account {
	return []model.Account{
		{ID: Bank, Code: "10000", Name: "Bank", Type: model.AccountTypeAsset},
		{ID: Cash, Code: "10100", Name: "Cash", Type: model.AccountTypeAsset},
		{ID: AR, Code: "11000", Name: "Accounts Receivable", Type: model.AccountTypeAsset},
		{ID: Inventory, Code: "12000", Name: "Inventory", Type: model.AccountTypeAsset},
		{ID: Equipment, Code: "15000", Name: "Equipment", Type: model.AccountTypeAsset},
		{ID: AP, Code: "20000", Name: "Accounts Payable", Type: model.AccountTypeLiability},
		{ID: SalesTax, Code: "21000", Name: "Sales Tax Payable", Type: model.AccountTypeLiability},
		{ID: Loan, Code: "25000", Name: "Long-Term Loan", Type: model.AccountTypeLiability},
		{ID: Equity, Code: "30000", Name: "Owner's Equity", Type: model.AccountTypeEquity},
		{ID: Drawings, Code: "31000", Name: "Owner's Drawings", Type: model.AccountTypeEquity},
		{ID: Sales, Code: "40000", Name: "Sales", Type: model.AccountTypeIncome},
		{ID: COGS, Code: "50000", Name: "Cost of Goods Sold", Type: model.AccountTypeExpense},
		{ID: Rent, Code: "60000", Name: "Rent", Type: model.AccountTypeExpense},
	}
}

// Find returns the account with the given ID from accounts.
func Find(accounts []model.Account, id string) model.Account {
	for _, a := range accounts {
		if a.ID == id {
			return a
		}
	}
	return model.Account{ID: id}
}

// Amt parses a decimal literal, panicking on malformed input.
func Amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// D is a debit line.
func D(accountID, amount string) model.Line {
	return model.Line{AccountID: accountID, Debit: Amt(amount)}
}

// C is a credit line.
func C(accountID, amount string) model.Line {
	return model.Line{AccountID: accountID, Credit: Amt(amount)}
}

// Tx builds an entry.
func Tx(id string, date time.Time, description string, lines ...model.Line) model.Transaction {
	return model.Transaction{ID: id, Date: date, Description: description, Lines: lines}
}

// Random generates n balanced entries dated within days of start. Each
// entry has one to three debit lines and one to two credit lines over
// randomly chosen accounts, amounts in whole cents.
func Random(r *rand.Rand, accounts []model.Account, n int, start time.Time, days int) []model.Transaction {
	txns := make([]model.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tx := model.Transaction{
			ID:          randomID(i),
			Date:        model.Day(start.AddDate(0, 0, r.Intn(days))),
			Description: "generated",
		}

		total := int64(0)
		debits := 1 + r.Intn(3)
		for d := 0; d < debits; d++ {
			cents := 1 + r.Int63n(500_000)
			total += cents
			tx.Lines = append(tx.Lines, model.Line{
				AccountID: accounts[r.Intn(len(accounts))].ID,
				Debit:     decimal.New(cents, -2),
			})
		}

		split := []int64{total}
		if total > 1 && r.Intn(2) == 0 {
			first := 1 + r.Int63n(total-1)
			split = []int64{first, total - first}
		}
		for _, cents := range split {
			tx.Lines = append(tx.Lines, model.Line{
				AccountID: accounts[r.Intn(len(accounts))].ID,
				Credit:    decimal.New(cents, -2),
			})
		}
		txns = append(txns, tx)
	}
	return txns
}

// Shuffled returns a shuffled copy of txns.
func Shuffled(r *rand.Rand, txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func randomID(i int) string {
	return fmt.Sprintf("gen-%04d", i)
}

// AssertAmount asserts that got equals the decimal literal want.
func AssertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Truef(t, Amt(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
