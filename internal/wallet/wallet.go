// Package wallet defines the wallet connector the oracle client submits
// transactions through, and an HTTP client for a local wallet bridge.
package wallet

import (
	"context"
	"errors"
	"fmt"
)

// Account is an account the user shared with the application.
type Account struct {
	Address      string `json:"address"`
	Label        string `json:"label"`
	AppearanceID int    `json:"appearanceId"`
}

// Persona is the identity the user logged in with.
type Persona struct {
	IdentityAddress string         `json:"identityAddress"`
	Label           string         `json:"label"`
	Data            []PersonaField `json:"data,omitempty"`
}

// PersonaField is one piece of shared persona data.
type PersonaField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// TransactionHandle identifies a submitted transaction.
type TransactionHandle struct {
	IntentHash string `json:"transactionIntentHash"`
}

// Connector is the wallet the user signs with. Submit hands a manifest to
// the wallet for signing and broadcast and returns once the wallet accepted
// it; it does not wait for the transaction to commit.
type Connector interface {
	IsConnected(ctx context.Context) bool
	ConnectedAccounts(ctx context.Context) ([]Account, error)
	ConnectedPersona(ctx context.Context) (*Persona, error)
	Submit(ctx context.Context, manifest string) (TransactionHandle, error)
}

// ErrNotConnected is returned when no wallet session is established.
var ErrNotConnected = errors.New("wallet not connected")

// ErrAccountNotFound is returned by FindAccount.
var ErrAccountNotFound = errors.New("account not shared with the application")

// Reason classifies why the wallet refused a transaction.
type Reason string

const (
	ReasonRejectedByUser   Reason = "rejectedByUser"
	ReasonInvalidManifest  Reason = "invalidManifest"
	ReasonConnectorFailure Reason = "connectorFailure"
)

// SubmitError is returned by Submit when the wallet did not accept the
// transaction.
type SubmitError struct {
	Reason  Reason
	Message string
}

func (e *SubmitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wallet refused transaction: %s", e.Reason)
	}
	return fmt.Sprintf("wallet refused transaction: %s: %s", e.Reason, e.Message)
}

// FindAccount returns the connected account with the given address or
// appearance id. An empty address matches on appearance id.
func FindAccount(accounts []Account, address string, appearanceID int) (Account, error) {
	for _, a := range accounts {
		if address != "" {
			if a.Address == address {
				return a, nil
			}
			continue
		}
		if a.AppearanceID == appearanceID {
			return a, nil
		}
	}
	if address != "" {
		return Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	return Account{}, fmt.Errorf("%w: appearance id %d", ErrAccountNotFound, appearanceID)
}
