// Package money holds the decimal conventions shared by every planning
// calculation: whole-unit rounding for budget buckets, minor-unit rounding
// for simulated interest, and annual-percent to monthly-rate conversion.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places kept for accrued interest.
const MinorUnits = 2

var (
	Zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// FromInt returns a whole-unit amount.
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// Parse reads an amount such as "1250000" or "99.95".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MonthlyRate converts an annual percentage (24 for 24%) into the
// fraction applied to a balance each month.
func MonthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	return annualPercent.Div(hundred).Div(twelve)
}

// Round rounds to the nearest whole currency unit, halves away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// RoundMinor rounds to minor units.
func RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnits)
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Max returns the larger amount.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller amount.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// NonNegative floors d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	return Max(d, decimal.Zero)
}

// Sum adds all amounts; an empty list sums to zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
