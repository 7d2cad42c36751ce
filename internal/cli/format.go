// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/halos/internal/engine"
)

// FormatAmount formats money in whole units with comma grouping. Fractions
// are rounded away; planning amounts are whole-unit already.
func FormatAmount(d decimal.Decimal) string {
	return FormatNumber(d.Round(0).IntPart())
}

// FormatMoney formats an amount followed by its currency code.
func FormatMoney(d decimal.Decimal, currency string) string {
	if currency == "" {
		return FormatAmount(d)
	}
	return FormatAmount(d) + " " + currency
}

// FormatCompact formats money with human-readable suffixes.
// e.g., 1234 -> "1.2K", 12500000 -> "12.5M", 1234567890 -> "1.2B"
func FormatCompact(d decimal.Decimal) string {
	f := d.InexactFloat64()
	abs := f
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", f/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", f/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", f/1_000)
	default:
		return strconv.FormatInt(d.Round(0).IntPart(), 10)
	}
}

// FormatMonths formats a month count as years and months.
// e.g., 30 -> "2y 6m", 7 -> "7m", 999 -> "never"
func FormatMonths(months int) string {
	switch {
	case months == engine.NonAmortizingMonths:
		return "never"
	case months <= 0:
		return "0m"
	}

	years := months / 12
	rest := months % 12
	if years > 0 && rest > 0 {
		return fmt.Sprintf("%dy %dm", years, rest)
	}
	if years > 0 {
		return fmt.Sprintf("%dy", years)
	}
	return fmt.Sprintf("%dm", rest)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a whole percentage.
func FormatPercent(pct int64) string {
	return strconv.FormatInt(pct, 10) + "%"
}

// FormatSaved formats a saving with a leading sign, "-" for zero.
func FormatSaved(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	if d.IsNegative() {
		return "-" + FormatAmount(d.Neg())
	}
	return "+" + FormatAmount(d)
}

// FormatHours formats working time as days and hours.
func FormatHours(days, hours decimal.Decimal) string {
	return fmt.Sprintf("%s days (%s h)", days.StringFixed(1), FormatNumber(hours.Round(0).IntPart()))
}
