package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// Invariant numbers reported by ValidationError.
const (
	InvBalanced  = 1 // debits equal credits within tolerance
	InvOneSided  = 2 // exactly one of debit/credit per line
	InvAccount   = 3 // line references a known account
	InvNegative  = 4 // amounts are non-negative
	InvStructure = 5 // date present, at least two lines
	InvPrecision = 6 // no more than 2 decimal places
	InvUniqueID  = 7 // entry IDs are unique across the journal
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// ValidationErrors collects every violation found in one admission.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether any violation is of the given invariant.
func (errs ValidationErrors) Has(invariant int) bool {
	for _, e := range errs {
		if e.Invariant == invariant {
			return true
		}
	}
	return false
}

// AccountChecker tests whether an account ID exists in the chart of accounts.
type AccountChecker interface {
	Exists(id string) bool
}

var hundred = decimal.NewFromInt(100)

// ValidateTransaction enforces the admission invariants on one transaction.
func ValidateTransaction(tx model.Transaction, accounts AccountChecker) ValidationErrors {
	var errs ValidationErrors
	add := func(inv int, format string, args ...any) {
		errs = append(errs, ValidationError{Invariant: inv, EntryID: tx.ID, Description: fmt.Sprintf(format, args...)})
	}

	if tx.Date.IsZero() {
		add(InvStructure, "date is required")
	}
	if len(tx.Lines) < 2 {
		add(InvStructure, "entry needs at least two lines, got %d", len(tx.Lines))
	}

	if debit, credit := tx.Totals(); !model.Within(debit, credit) {
		add(InvBalanced, "debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2))
	}

	for i, l := range tx.Lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			add(InvNegative, "line %d has a negative amount", i+1)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			add(InvOneSided, "line %d must have exactly one of debit or credit", i+1)
		}
		if accounts != nil && !accounts.Exists(l.AccountID) {
			add(InvAccount, "line %d: unknown account %q", i+1, l.AccountID)
		}
		if !twoPlaces(l.Debit) {
			add(InvPrecision, "line %d: debit %s has more than 2 decimal places", i+1, l.Debit)
		}
		if !twoPlaces(l.Credit) {
			add(InvPrecision, "line %d: credit %s has more than 2 decimal places", i+1, l.Credit)
		}
	}
	return errs
}

// ValidateJournal checks every transaction plus journal-wide ID uniqueness.
func ValidateJournal(txns []model.Transaction, accounts AccountChecker) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(txns))
	for _, tx := range txns {
		if seen[tx.ID] {
			errs = append(errs, ValidationError{Invariant: InvUniqueID, EntryID: tx.ID, Description: "duplicate entry ID"})
		}
		seen[tx.ID] = true
		errs = append(errs, ValidateTransaction(tx, accounts)...)
	}
	return errs
}

func twoPlaces(d decimal.Decimal) bool {
	scaled := d.Mul(hundred)
	return scaled.Equal(scaled.Floor())
}
