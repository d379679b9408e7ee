package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tolerance is the largest difference treated as equal when checking
// double-entry invariants.
var Tolerance = decimal.New(1, -2)

// Line is one side of a double entry against a single account.
type Line struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Net returns debit minus credit.
func (l Line) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// Transaction is a journal entry: a dated, ordered set of lines whose debits
// equal their credits.
type Transaction struct {
	ID          string
	Date        time.Time
	DueDate     time.Time // zero when the entry has no due date
	Description string
	Contact     string
	Lines       []Line
}

// Totals returns the sum of debits and credits over all lines.
func (t Transaction) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range t.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Balanced reports whether debits equal credits within Tolerance.
func (t Transaction) Balanced() bool {
	debit, credit := t.Totals()
	return Within(debit, credit)
}

// Touches reports whether any line posts to accountID.
func (t Transaction) Touches(accountID string) bool {
	for _, l := range t.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no line storage with t.
func (t Transaction) Clone() Transaction {
	c := t
	c.Lines = append([]Line(nil), t.Lines...)
	return c
}

// Within reports whether a and b differ by no more than Tolerance.
func Within(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
