// Package core provides the ledger domain types, amount parsing and the balance fold.
//
// Amounts are shopspring decimals end to end so that summing many entries never drifts.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input to a decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. No sign
// constraint is applied: negative values are returned as-is. Returns
// ErrInvalidAmount for blank or non-numeric input.
//
// Examples:
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("12,34") -> 12.34, nil
//   ParseAmount("-5")    -> -5, nil
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d with exactly two decimals, half-up.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
