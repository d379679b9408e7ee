// Package display formats amounts for reports. It converts with a single
// static exchange rate and never feeds back into the arithmetic.
package display

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter renders amounts in one currency.
type Formatter struct {
	currency *money.Currency
	code     string
	rate     decimal.Decimal
}

// New returns a Formatter for an ISO 4217 code. A zero rate means 1.
func New(code string, rate decimal.Decimal) Formatter {
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	return Formatter{currency: money.GetCurrency(code), code: code, rate: rate}
}

func (f Formatter) fraction() int32 {
	if f.currency == nil {
		return 2
	}
	return int32(f.currency.Fraction)
}

// Convert applies the exchange rate and rounds to the currency's minor unit.
func (f Formatter) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(f.rate).Round(f.fraction())
}

// Format converts and renders an amount, e.g. "$1,234.50". Unknown currency
// codes fall back to "1234.50 XYZ".
func (f Formatter) Format(amount decimal.Decimal) string {
	converted := f.Convert(amount)
	if f.currency == nil {
		return converted.StringFixed(2) + " " + f.code
	}
	return f.currency.Formatter().Format(converted.Shift(f.fraction()).IntPart())
}

// Blank renders zero as an empty cell, for two-column layouts.
func (f Formatter) Blank(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return f.Format(amount)
}
