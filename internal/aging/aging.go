// Package aging builds an aged receivables report by matching payments to
// invoices oldest first, per customer.
package aging

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgercore/internal/mapping"
	"github.com/cleared-dev/ledgercore/internal/model"
)

// Bucket is an age range in days.
type Bucket int

const (
	Current Bucket = iota
	Days1To30
	Days31To60
	Days61To90
	Over90
)

// Buckets lists every bucket, youngest first.
var Buckets = []Bucket{Current, Days1To30, Days31To60, Days61To90, Over90}

func (b Bucket) String() string {
	switch b {
	case Current:
		return "Current"
	case Days1To30:
		return "1-30"
	case Days31To60:
		return "31-60"
	case Days61To90:
		return "61-90"
	case Over90:
		return "90+"
	}
	return "unknown"
}

// BucketFor classifies an age in days.
func BucketFor(age int) Bucket {
	switch {
	case age < 1:
		return Current
	case age <= 30:
		return Days1To30
	case age <= 60:
		return Days31To60
	case age <= 90:
		return Days61To90
	default:
		return Over90
	}
}

// Amounts holds one total per bucket.
type Amounts [5]decimal.Decimal

func (a *Amounts) add(b Bucket, amt decimal.Decimal) {
	a[b] = a[b].Add(amt)
}

// Total sums every bucket.
func (a Amounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range a {
		total = total.Add(v)
	}
	return total
}

// Invoice is a debit to receivables and what is still owed on it.
type Invoice struct {
	TransactionID string
	Description   string
	Date          time.Time
	DueDate       time.Time
	Amount        decimal.Decimal
	Remaining     decimal.Decimal
	Age           int
	Bucket        Bucket
}

// Open reports whether more than the tolerance is still owed.
func (inv Invoice) Open() bool {
	return inv.Remaining.GreaterThan(model.Tolerance)
}

// Customer is one row of the report.
type Customer struct {
	Name      string
	Invoices  []Invoice // open invoices, oldest first
	Buckets   Amounts
	Unapplied decimal.Decimal // payments beyond everything invoiced
}

// Total returns the customer's outstanding balance.
func (c Customer) Total() decimal.Decimal {
	return c.Buckets.Total()
}

// Report is the aged receivables report as of a date.
type Report struct {
	AsOf      time.Time
	Account   model.Account
	Customers []Customer
	Totals    Amounts
	Unapplied decimal.Decimal
}

// Total returns outstanding receivables across all customers.
func (r Report) Total() decimal.Decimal {
	return r.Totals.Total()
}

// Options controls classification and which date invoices age from.
type Options struct {
	AgeBy      model.AgeBy
	Classifier Classifier
}

type customerState struct {
	name      string
	invoices  []Invoice
	unapplied decimal.Decimal
}

// Build ages the receivables account resolved in roles as of asOf. Without
// a receivables account the report is empty with zero totals.
func Build(txns []model.Transaction, roles mapping.Resolved, asOf time.Time, opts Options) Report {
	asOf = model.Day(asOf)
	r := Report{AsOf: asOf, Totals: zeroAmounts(), Unapplied: decimal.Zero}
	ar, ok := roles.Receivable()
	if !ok {
		return r
	}
	r.Account = ar

	classifier := opts.Classifier
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	var relevant []model.Transaction
	for _, tx := range txns {
		if tx.Touches(ar.ID) && !model.Day(tx.Date).After(asOf) {
			relevant = append(relevant, tx)
		}
	}
	slices.SortStableFunc(relevant, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	var order []string
	states := make(map[string]*customerState)
	for _, tx := range relevant {
		name, ok := classifier.Classify(tx)
		if !ok {
			name = UnknownCustomer
		}
		key := strings.ToLower(name)
		st, ok := states[key]
		if !ok {
			st = &customerState{name: name, unapplied: decimal.Zero}
			states[key] = st
			order = append(order, key)
		}
		for _, l := range tx.Lines {
			if l.AccountID != ar.ID {
				continue
			}
			if l.Debit.IsPositive() {
				st.invoices = append(st.invoices, Invoice{
					TransactionID: tx.ID,
					Description:   tx.Description,
					Date:          model.Day(tx.Date),
					DueDate:       model.Day(tx.DueDate),
					Amount:        l.Debit,
					Remaining:     l.Debit,
				})
			}
			if l.Credit.IsPositive() {
				st.unapplied = st.unapplied.Add(applyFIFO(st.invoices, l.Credit))
			}
		}
	}

	for _, key := range order {
		st := states[key]
		c := Customer{Name: st.name, Buckets: zeroAmounts(), Unapplied: st.unapplied}
		for _, inv := range st.invoices {
			if !inv.Open() {
				continue
			}
			from := inv.Date
			if opts.AgeBy == model.AgeByDueDate && !inv.DueDate.IsZero() {
				from = inv.DueDate
			}
			inv.Age = model.DaysBetween(from, asOf)
			inv.Bucket = BucketFor(inv.Age)
			c.Invoices = append(c.Invoices, inv)
			c.Buckets.add(inv.Bucket, inv.Remaining)
			r.Totals.add(inv.Bucket, inv.Remaining)
		}
		r.Unapplied = r.Unapplied.Add(c.Unapplied)
		if len(c.Invoices) == 0 && c.Unapplied.IsZero() {
			continue
		}
		r.Customers = append(r.Customers, c)
	}

	slices.SortStableFunc(r.Customers, func(a, b Customer) int {
		ua, ub := a.Name == UnknownCustomer, b.Name == UnknownCustomer
		switch {
		case ua && !ub:
			return 1
		case ub && !ua:
			return -1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return r
}

// applyFIFO reduces the oldest open invoices by payment and returns what
// could not be applied.
func applyFIFO(invoices []Invoice, payment decimal.Decimal) decimal.Decimal {
	for i := range invoices {
		if !payment.IsPositive() {
			break
		}
		if !invoices[i].Remaining.IsPositive() {
			continue
		}
		applied := decimal.Min(invoices[i].Remaining, payment)
		invoices[i].Remaining = invoices[i].Remaining.Sub(applied)
		payment = payment.Sub(applied)
	}
	return payment
}

func zeroAmounts() Amounts {
	var a Amounts
	for i := range a {
		a[i] = decimal.Zero
	}
	return a
}
