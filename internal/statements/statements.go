package statements

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/balance"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// ImbalanceError reports a statement whose two sides disagree by more than
// model.Tolerance. It means the journal violates double entry (for example
// a line posts to an account missing from the chart).
type ImbalanceError struct {
	Statement string
	Left      decimal.Decimal
	Right     decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s out of balance: %s vs %s (difference %s)",
		e.Statement, e.Left.StringFixed(2), e.Right.StringFixed(2), e.Difference().StringFixed(2))
}

// Difference returns Left minus Right.
func (e *ImbalanceError) Difference() decimal.Decimal {
	return e.Left.Sub(e.Right)
}

// Line is one account on a statement with its balance in normal sign.
type Line struct {
	Account model.Account
	Amount  decimal.Decimal
}

func byCode(accounts []model.Account) []model.Account {
	out := slices.Clone(accounts)
	slices.SortStableFunc(out, func(a, b model.Account) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out
}

// measure is balance.Of for positions or balance.Flow for activity.
type measure func(model.Account, []model.Transaction, model.Period) decimal.Decimal

// section lists the amount of every account of type t and their total.
// Zero amounts are dropped from the lines unless showZero is set.
func section(t model.AccountType, accounts []model.Account, txns []model.Transaction, p model.Period, of measure, showZero bool) ([]Line, decimal.Decimal) {
	var lines []Line
	total := decimal.Zero
	for _, a := range balance.Filter(byCode(accounts), t) {
		amt := of(a, txns, p)
		total = total.Add(amt)
		if amt.IsZero() && !showZero {
			continue
		}
		lines = append(lines, Line{Account: a, Amount: amt})
	}
	return lines, total
}
