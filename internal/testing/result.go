package testing

import (
	"github.com/LeJamon/goRadixOracle/internal/codec/sbor"
	"github.com/LeJamon/goRadixOracle/internal/gateway"
)

// TxResult is the outcome of a transaction on the simulated ledger.
type TxResult struct {
	IntentHash string

	// Status is the terminal status the gateway reports once the transaction
	// is no longer pending.
	Status gateway.TransactionStatus

	// Message is the failure or rejection reason.
	Message string

	// Output holds one value per executed instruction, starting with the fee lock.
	Output []sbor.Value

	// Referenced lists the global entities reported in the receipt.
	Referenced []string
}

// IsSuccess reports whether the transaction committed successfully.
func (r TxResult) IsSuccess() bool {
	return r.Status == gateway.StatusCommittedSuccess
}

// IsCommitted reports whether the transaction was committed, with or
// without success.
func (r TxResult) IsCommitted() bool {
	return r.Status.IsCommitted()
}
