package oracle

import (
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
	"github.com/shopspring/decimal"
)

// Composer builds the manifests of the three oracle operations.
type Composer struct {
	PackageAddress string
	AdminCount     uint32
	ProofAmount    decimal.Decimal
}

// NewComposer returns a composer for the oracle package at pkg using the
// default admin count and proof amount.
func NewComposer(pkg string) Composer {
	return Composer{
		PackageAddress: pkg,
		AdminCount:     DefaultAdminCount,
		ProofAmount:    DefaultProofAmount,
	}
}

// Instantiate creates the oracle and deposits everything it returned, the
// admin badges, into account.
func (c Composer) Instantiate(account wallet.Account) (*manifest.Manifest, error) {
	if account.Address == "" {
		return nil, ErrNotConnected
	}
	return manifest.NewBuilder().
		CallFunction(c.PackageAddress, BlueprintName, FnInstantiateOracle, manifest.U32(c.AdminCount)).
		CallMethod(account.Address, MethodDepositBatch, manifest.Expression(manifest.EntireWorktop)).
		Build()
}

// GetPrice reads the price of q from the session's oracle.
func (c Composer) GetPrice(snap Snapshot, q PriceQuery) (*manifest.Manifest, error) {
	if snap.State() != Instantiated {
		return nil, ErrNotInstantiated
	}
	if !q.Complete() {
		return nil, ErrQueryIncomplete
	}
	return manifest.NewBuilder().
		CallMethod(snap.ComponentAddress, MethodGetPrice, manifest.Address(q.Base), manifest.Address(q.Quote)).
		Build()
}

// UpdatePrice proves admin rights from the admin account and then sets the
// price of q. The proof is always the first instruction.
func (c Composer) UpdatePrice(snap Snapshot, q PriceQuery, price decimal.Decimal) (*manifest.Manifest, error) {
	if snap.State() != Instantiated {
		return nil, ErrNotInstantiated
	}
	if !q.Complete() {
		return nil, ErrQueryIncomplete
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, price)
	}
	if !price.Equal(price.Truncate(DecimalPlaces)) {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidPrice, price, DecimalPlaces)
	}
	return manifest.NewBuilder().
		CallMethod(snap.AdminAccount.Address, MethodCreateProofByAmount,
			manifest.Address(snap.AdminBadgeAddress), manifest.Decimal(c.ProofAmount)).
		CallMethod(snap.ComponentAddress, MethodUpdatePrice,
			manifest.Address(q.Base), manifest.Address(q.Quote), manifest.Decimal(price)).
		Build()
}

// Request carries the inputs of any operation for Compose.
type Request struct {
	Op      Operation
	Account wallet.Account
	Query   PriceQuery
	Price   decimal.Decimal
}

// Compose dispatches on req.Op.
func (c Composer) Compose(snap Snapshot, req Request) (*manifest.Manifest, error) {
	switch req.Op {
	case OpInstantiate:
		return c.Instantiate(req.Account)
	case OpGetPrice:
		return c.GetPrice(snap, req.Query)
	case OpUpdatePrice:
		return c.UpdatePrice(snap, req.Query, req.Price)
	default:
		return nil, fmt.Errorf("unknown operation %d", req.Op)
	}
}
