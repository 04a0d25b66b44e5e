package rpc_types

import (
	"context"
	"errors"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/tracker"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

// RpcError is the error object of a failed call
type RpcError struct {
	Code        int    `json:"error_code"`
	ErrorString string `json:"error"`
	Type        string `json:"type"`
	Message     string `json:"error_message,omitempty"`
}

func (e RpcError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorString
}

// Error codes
const (
	// Universal errors
	RpcUNKNOWN          = -1
	RpcJSON_RPC         = -32600
	RpcMETHOD_NOT_FOUND = -32601
	RpcINVALID_PARAMS   = -32602
	RpcINTERNAL         = -32603
	RpcPARSE_ERROR      = -32700

	// General purpose errors
	RpcGENERAL             = 1
	RpcMISSING_COMMAND     = 2
	RpcCOMMAND_UNTRUSTED   = 3
	RpcTOO_BUSY            = 6
	RpcINVALID_API_VERSION = 38

	// Wallet errors
	RpcNOT_CONNECTED     = 100
	RpcACCOUNT_NOT_FOUND = 101
	RpcSUBMIT_REFUSED    = 102

	// Oracle session errors
	RpcNOT_INSTANTIATED     = 110
	RpcALREADY_INSTANTIATED = 111
	RpcIN_FLIGHT            = 112
	RpcSUPERSEDED           = 113

	// Transaction errors
	RpcTXN_TIMEOUT    = 120
	RpcTXN_FAILED     = 121
	RpcRECEIPT_DECODE = 122
)

// Standard error constructors
func NewRpcError(code int, error, errorType, message string) *RpcError {
	return &RpcError{
		Code:        code,
		ErrorString: error,
		Type:        errorType,
		Message:     message,
	}
}

func RpcErrorInvalidParams(message string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", message)
}

func RpcErrorMethodNotFound(method string) *RpcError {
	return NewRpcError(RpcMETHOD_NOT_FOUND, "unknownCmd", "unknownCmd", "Unknown method: "+method)
}

func RpcErrorInternal(message string) *RpcError {
	return NewRpcError(RpcINTERNAL, "internal", "internal", message)
}

func RpcErrorCommandUntrusted(method string) *RpcError {
	return NewRpcError(RpcCOMMAND_UNTRUSTED, "commandUntrusted", "commandUntrusted",
		"Method '"+method+"' requires admin privileges")
}

func RpcErrorInvalidApiVersion(version string) *RpcError {
	return NewRpcError(RpcINVALID_API_VERSION, "invalidApiVersion", "invalidApiVersion", "Invalid API version: "+version)
}

// RpcErrorMissingField returns an error for missing required field
func RpcErrorMissingField(field string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", "Missing field '"+field+"'.")
}

// RpcErrorInvalidField returns an error for invalid field value
func RpcErrorInvalidField(field string) *RpcError {
	return NewRpcError(RpcINVALID_PARAMS, "invalidParams", "invalidParams", "Invalid field '"+field+"'.")
}

// RpcErrorFromOracle maps an error returned by the oracle service onto its
// RPC error.
func RpcErrorFromOracle(err error) *RpcError {
	msg := err.Error()
	switch {
	case errors.Is(err, oracle.ErrNotConnected):
		return NewRpcError(RpcNOT_CONNECTED, "notConnected", "wallet", msg)
	case errors.Is(err, wallet.ErrAccountNotFound):
		return NewRpcError(RpcACCOUNT_NOT_FOUND, "actNotFound", "wallet", msg)
	case errors.Is(err, oracle.ErrSubmission):
		return NewRpcError(RpcSUBMIT_REFUSED, "submitRefused", "wallet", msg)
	case errors.Is(err, oracle.ErrNotInstantiated):
		return NewRpcError(RpcNOT_INSTANTIATED, "notInstantiated", "session", msg)
	case errors.Is(err, oracle.ErrAlreadyInstantiated):
		return NewRpcError(RpcALREADY_INSTANTIATED, "alreadyInstantiated", "session", msg)
	case errors.Is(err, oracle.ErrInFlight):
		return NewRpcError(RpcIN_FLIGHT, "inFlight", "session", msg)
	case errors.Is(err, oracle.ErrSuperseded):
		return NewRpcError(RpcSUPERSEDED, "superseded", "session", msg)
	case errors.Is(err, tracker.ErrTimeout):
		return NewRpcError(RpcTXN_TIMEOUT, "txnTimeout", "transaction", msg)
	case errors.Is(err, oracle.ErrCommitFailure):
		return NewRpcError(RpcTXN_FAILED, "txnFailed", "transaction", msg)
	case errors.Is(err, oracle.ErrDecode):
		return NewRpcError(RpcRECEIPT_DECODE, "receiptDecode", "transaction", msg)
	case errors.Is(err, oracle.ErrQueryIncomplete),
		errors.Is(err, oracle.ErrInvalidPrice),
		errors.Is(err, manifest.ErrInvalidAddress):
		return RpcErrorInvalidParams(msg)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewRpcError(RpcTOO_BUSY, "tooBusy", "tooBusy", msg)
	default:
		return RpcErrorInternal(msg)
	}
}
