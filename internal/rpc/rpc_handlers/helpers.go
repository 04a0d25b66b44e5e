package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
	"github.com/shopspring/decimal"
)

var allApiVersions = []int{rpc_types.ApiVersion1}

// parseParams decodes params into v. Absent params leave v untouched.
func parseParams(params json.RawMessage, v interface{}) *rpc_types.RpcError {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return rpc_types.RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}

// PriceQueryParams selects a pair. Empty fields take the session defaults.
type PriceQueryParams struct {
	Base  string `json:"base,omitempty"`
	Quote string `json:"quote,omitempty"`
}

func (p PriceQueryParams) query() oracle.PriceQuery {
	return oracle.PriceQuery{Base: p.Base, Quote: p.Quote}
}

func parseDecimal(field, raw string) (decimal.Decimal, *rpc_types.RpcError) {
	if raw == "" {
		return decimal.Zero, rpc_types.RpcErrorMissingField(field)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, rpc_types.RpcErrorInvalidField(field)
	}
	return d, nil
}

func priceResponse(q oracle.PriceQuery, r oracle.PriceResult) map[string]interface{} {
	response := map[string]interface{}{
		"base":      q.Base,
		"quote":     q.Quote,
		"price":     r,
		"available": r.IsAvailable(),
	}
	if !r.IsAvailable() {
		response["message"] = oracle.NoPriceMessage
	}
	return response
}
