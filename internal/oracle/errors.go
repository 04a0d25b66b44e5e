package oracle

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

var (
	// ErrNotConnected is the wallet's sentinel, re-exported for callers of this package.
	ErrNotConnected = wallet.ErrNotConnected

	ErrNotInstantiated     = errors.New("oracle not instantiated")
	ErrAlreadyInstantiated = errors.New("oracle already instantiated")
	ErrQueryIncomplete     = errors.New("price query needs base and quote resource addresses")
	ErrInvalidPrice        = errors.New("price must be greater than zero and fit the ledger decimal")
	ErrInFlight            = errors.New("operation already in flight")
	ErrSuperseded          = errors.New("operation superseded by a newer request")

	ErrSubmission    = errors.New("transaction submission failed")
	ErrDecode        = errors.New("unexpected receipt shape")
	ErrCommitFailure = errors.New("transaction failed on ledger")
)

// SubmissionError is returned when the wallet did not accept a transaction.
// It is never retried.
type SubmissionError struct {
	Op  Operation
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s: submit: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmission }

// Reason classifies the refusal.
func (e *SubmissionError) Reason() wallet.Reason {
	var se *wallet.SubmitError
	if errors.As(e.Err, &se) {
		return se.Reason
	}
	return wallet.ReasonConnectorFailure
}

// DecodeError is returned when a committed receipt does not have the shape
// the operation expects.
type DecodeError struct {
	Op     Operation
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: decode receipt: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: decode receipt: %s", e.Op, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// CommitFailure is returned when a transaction reached a terminal status
// other than CommittedSuccess.
type CommitFailure struct {
	Op         Operation
	IntentHash string
	Status     gateway.TransactionStatus
	Message    string
}

func (e *CommitFailure) Error() string {
	msg := fmt.Sprintf("%s failed: transaction %s is %s", e.Op, e.IntentHash, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *CommitFailure) Is(target error) bool { return target == ErrCommitFailure }
