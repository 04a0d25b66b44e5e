package testing

import "github.com/shopspring/decimal"

// Dec parses a decimal literal and panics on malformed input. Intended for
// test fixtures only.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Inverse returns 1/p as the ledger stores it for the reverse pair.
func Inverse(p decimal.Decimal) decimal.Decimal {
	return inverse(p)
}
