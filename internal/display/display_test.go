package display

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	usd := New("USD", decimal.NewFromInt(1))
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1234.5", "$1,234.50"},
		{"-5", "-$5.00"},
		{"0.005", "$0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, usd.Format(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestExchangeRate(t *testing.T) {
	f := New("USD", decimal.RequireFromString("2"))
	assert.Equal(t, "$10.00", f.Format(decimal.NewFromInt(5)))
	assert.Equal(t, "3.33", f.Convert(decimal.RequireFromString("1.666")).String())

	zero := New("USD", decimal.Zero)
	assert.Equal(t, "$5.00", zero.Format(decimal.NewFromInt(5)), "zero rate means no conversion")
}

func TestUnknownCurrency(t *testing.T) {
	f := New("XYZ", decimal.NewFromInt(1))
	assert.Equal(t, "12.30 XYZ", f.Format(decimal.RequireFromString("12.3")))
}

func TestBlank(t *testing.T) {
	f := New("USD", decimal.NewFromInt(1))
	assert.Equal(t, "", f.Blank(decimal.Zero))
	assert.Equal(t, "$1.00", f.Blank(decimal.NewFromInt(1)))
}
