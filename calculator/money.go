// Package calculator resolves invoice totals from line items, discounts, taxes,
// additional charges, rounding and payments. Everything here is pure arithmetic:
// no I/O, no shared state, and no error path. Unparsable input is read as zero.
package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

const maxInputLen = 64

// maxAmount bounds a single entered quantity, price or charge. Anything at or
// above it reads as zero, as does exponent notation.
var maxAmount = decimal.New(1, 10)

// Parse reads a user-entered number. Blank or malformed input yields zero.
// Thousands separators are accepted ("1,250.50"). Exponent notation and
// input longer than 64 characters are malformed.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen || strings.ContainsAny(s, "eE") {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseNonNegative is Parse with negatives clamped to zero. Quantities,
// prices, rates and charges are never negative.
func parseNonNegative(s string) decimal.Decimal {
	d := Parse(s)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// parseAmount is parseNonNegative for raw entries, which also read as zero
// from maxAmount up.
func parseAmount(s string) decimal.Decimal {
	d := parseNonNegative(s)
	if d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero
	}
	return d
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Round2 rounds half away from zero to two places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders exactly two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPercent renders two decimals but drops a trailing ".00".
func FormatPercent(d decimal.Decimal) string {
	return strings.TrimSuffix(d.StringFixed(2), ".00")
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
