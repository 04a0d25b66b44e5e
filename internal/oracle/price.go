package oracle

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/shopspring/decimal"
)

// PriceResult is the decoded answer of get_price: either no price for the
// pair, or a price.
type PriceResult struct {
	available bool
	value     decimal.Decimal
}

// Unavailable is the result for a pair the oracle has no price for.
func Unavailable() PriceResult {
	return PriceResult{}
}

// Available is the result carrying price d.
func Available(d decimal.Decimal) PriceResult {
	return PriceResult{available: true, value: d}
}

// Value returns the price and whether one is available.
func (p PriceResult) Value() (decimal.Decimal, bool) {
	return p.value, p.available
}

// IsAvailable reports whether the result carries a price.
func (p PriceResult) IsAvailable() bool {
	return p.available
}

// Equal reports whether p and o are the same result.
func (p PriceResult) Equal(o PriceResult) bool {
	if p.available != o.available {
		return false
	}
	return !p.available || p.value.Equal(o.value)
}

func (p PriceResult) String() string {
	if !p.available {
		return "unavailable"
	}
	return p.value.String()
}

// MarshalJSON encodes an available price as a decimal string and an
// unavailable one as null.
func (p PriceResult) MarshalJSON() ([]byte, error) {
	if !p.available {
		return []byte("null"), nil
	}
	return json.Marshal(p.value.String())
}

// PriceQuery selects the pair to read or update.
type PriceQuery struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

// Complete reports whether both resources are set.
func (q PriceQuery) Complete() bool {
	return q.Base != "" && q.Quote != ""
}

// Validate checks that both resources are set and are resource addresses.
func (q PriceQuery) Validate() error {
	if !q.Complete() {
		return ErrQueryIncomplete
	}
	if _, err := manifest.ParseAddressOf(q.Base, manifest.EntityResource); err != nil {
		return fmt.Errorf("base: %w", err)
	}
	if _, err := manifest.ParseAddressOf(q.Quote, manifest.EntityResource); err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	return nil
}

// WithDefaults fills an empty base with xrd and an empty quote with the
// session's admin badge.
func (q PriceQuery) WithDefaults(xrd string, snap Snapshot) PriceQuery {
	if q.Base == "" {
		q.Base = xrd
	}
	if q.Quote == "" {
		q.Quote = snap.AdminBadgeAddress
	}
	return q
}
