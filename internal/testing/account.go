package testing

import (
	"crypto/sha256"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

// DefaultNetwork is the network suffix used for every address the simulated
// ledger hands out.
const DefaultNetwork = "tdx_c_"

// entityIDLen is the length of the entity id encoded in an address.
const entityIDLen = 30

// Account is a test account with a deterministic address.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging
	// and as the wallet label).
	Name string

	// Address is the bech32m account address.
	Address string

	// AppearanceID is assigned when the account is shared through Connect.
	AppearanceID int
}

// NewAccount creates a test account whose address is derived from name.
// Using the same name always produces the same account.
func NewAccount(name string) *Account {
	return &Account{
		Name:    name,
		Address: deriveAddress(manifest.EntityAccount, "account:"+name),
	}
}

// Wallet returns the account as the wallet reports it.
func (a *Account) Wallet() wallet.Account {
	return wallet.Account{
		Address:      a.Address,
		Label:        a.Name,
		AppearanceID: a.AppearanceID,
	}
}

// String returns a string representation of the account.
func (a *Account) String() string {
	return a.Name + " (" + a.Address + ")"
}

// deriveAddress encodes the first entity id bytes of sha256(seed).
func deriveAddress(kind manifest.EntityKind, seed string) string {
	sum := sha256.Sum256([]byte(seed))
	addr, err := manifest.EncodeAddress(kind, DefaultNetwork, sum[:entityIDLen])
	if err != nil {
		panic("failed to encode " + string(kind) + " address for " + seed + ": " + err.Error())
	}
	return addr
}
