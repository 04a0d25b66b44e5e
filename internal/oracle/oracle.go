// Package oracle orchestrates the price oracle: it composes transaction
// manifests, submits them through the wallet, tracks them to a terminal
// status, decodes the receipts and keeps the session state they produce.
package oracle

import "github.com/shopspring/decimal"

// Protocol constants of the deployed oracle package on RCnet.
const (
	DefaultPackageAddress = "package_tdx_c_1qrw4sgjw670278sj8rpz9ptgk96vgg679866qa3lqq9s002qvf"
	DefaultXRDAddress     = "resource_tdx_c_1qyqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq40v2wv"

	BlueprintName  = "Oracle"
	AdminBadgeName = "Oracle Admin Badge"

	FnInstantiateOracle       = "instantiate_oracle"
	MethodGetPrice            = "get_price"
	MethodUpdatePrice         = "update_price"
	MethodDepositBatch        = "deposit_batch"
	MethodCreateProofByAmount = "create_proof_by_amount"

	// DefaultAdminCount is the number of admin badges minted on instantiation.
	DefaultAdminCount uint32 = 1

	// DecimalPlaces is the precision of the ledger's Decimal type.
	DecimalPlaces = 18

	// NoPriceMessage is shown when the oracle has no price for a pair.
	NoPriceMessage = "No price available for the given addresses"
)

// DefaultProofAmount is the badge amount put in the auth zone for updates.
var DefaultProofAmount = decimal.NewFromInt(1)

// Operation is a user-initiated oracle action.
type Operation int

const (
	OpInstantiate Operation = iota
	OpGetPrice
	OpUpdatePrice
)

func (o Operation) String() string {
	switch o {
	case OpInstantiate:
		return "instantiate"
	case OpGetPrice:
		return "get_price"
	case OpUpdatePrice:
		return "update_price"
	default:
		return "unknown"
	}
}
