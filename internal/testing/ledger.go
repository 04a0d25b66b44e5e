package testing

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/codec/sbor"
	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/shopspring/decimal"
)

// inverseScale is the number of decimal places the ledger keeps.
const inverseScale = 18

// execution stages the effects of one transaction. Nothing touches the
// ledger until commit, so a failing instruction leaves no trace.
type execution struct {
	env *TestEnv

	worktop  map[string]decimal.Decimal
	authZone map[string]decimal.Decimal
	credits  map[string]map[string]decimal.Decimal

	newComponents []*component
	newResources  []*resource
	priceWrites   map[string]map[pair]decimal.Decimal

	referenced []string
	output     []sbor.Value
	handles    int
}

func newExecution(e *TestEnv) *execution {
	return &execution{
		env:         e,
		worktop:     make(map[string]decimal.Decimal),
		authZone:    make(map[string]decimal.Decimal),
		credits:     make(map[string]map[string]decimal.Decimal),
		priceWrites: make(map[string]map[pair]decimal.Decimal),
	}
}

// run executes every instruction, then checks that nothing was left on the
// worktop. The fee lock the wallet adds comes first in the output.
func (x *execution) run(m *manifest.Manifest) error {
	x.output = append(x.output, sbor.Tuple())

	for i, inst := range m.Instructions {
		var (
			out sbor.Value
			err error
		)
		switch inst.Kind {
		case manifest.KindCallFunction:
			out, err = x.callFunction(inst)
		case manifest.KindCallMethod:
			out, err = x.callMethod(inst)
		default:
			err = fmt.Errorf("unsupported instruction %s", inst.Kind)
		}
		if err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, inst.Name, err)
		}
		x.output = append(x.output, out)
	}

	for res, amount := range x.worktop {
		if !amount.IsZero() {
			return fmt.Errorf("worktop not empty: %s of %s left", amount, res)
		}
	}
	return nil
}

func (x *execution) callFunction(inst manifest.Instruction) (sbor.Value, error) {
	if inst.Target.Raw != x.env.packageAddress {
		return sbor.Value{}, fmt.Errorf("package %s not found", inst.Target.Raw)
	}
	if inst.Blueprint != oracle.BlueprintName {
		return sbor.Value{}, fmt.Errorf("blueprint %q not found", inst.Blueprint)
	}
	if inst.Name != oracle.FnInstantiateOracle {
		return sbor.Value{}, fmt.Errorf("function %q not found", inst.Name)
	}
	if len(inst.Args) != 1 {
		return sbor.Value{}, fmt.Errorf("instantiate_oracle takes 1 argument, got %d", len(inst.Args))
	}
	n, ok := inst.Args[0].(manifest.U32Value)
	if !ok {
		return sbor.Value{}, errors.New("num_of_admins must be u32")
	}
	if n < 1 {
		return sbor.Value{}, errors.New("Must have at least one admin")
	}

	badge := &resource{
		address: x.env.newAddress(manifest.EntityResource),
		name:    x.env.badgeName,
		supply:  decimal.NewFromInt(int64(n)),
	}
	comp := &component{
		address: x.env.newAddress(manifest.EntityComponent),
		badge:   badge.address,
		prices:  make(map[pair]decimal.Decimal),
	}
	x.newResources = append(x.newResources, badge)
	x.newComponents = append(x.newComponents, comp)
	x.worktop[badge.address] = x.worktop[badge.address].Add(badge.supply)
	x.reference(comp.address, badge.address)

	return sbor.Tuple(x.own("bucket"), sbor.Scalar(sbor.KindAddress, comp.address)), nil
}

func (x *execution) callMethod(inst manifest.Instruction) (sbor.Value, error) {
	target := inst.Target.Raw
	if comp := x.component(target); comp != nil {
		switch inst.Name {
		case oracle.MethodGetPrice:
			return x.getPrice(comp, inst.Args)
		case oracle.MethodUpdatePrice:
			return x.updatePrice(comp, inst.Args)
		}
		return sbor.Value{}, fmt.Errorf("method %q not found on component", inst.Name)
	}

	if x.env.isAccount(target) {
		switch inst.Name {
		case oracle.MethodDepositBatch:
			return x.depositBatch(target, inst.Args)
		case oracle.MethodCreateProofByAmount:
			return x.createProof(target, inst.Args)
		}
		return sbor.Value{}, fmt.Errorf("method %q not found on account", inst.Name)
	}

	return sbor.Value{}, fmt.Errorf("entity %s not found", target)
}

func (x *execution) getPrice(comp *component, args []manifest.Value) (sbor.Value, error) {
	base, quote, err := pairArgs(args, 2)
	if err != nil {
		return sbor.Value{}, err
	}
	p, ok := x.price(comp, pair{base, quote})
	if !ok {
		return sbor.Enum(0), nil
	}
	return sbor.Enum(1, sbor.Scalar(sbor.KindDecimal, p.String())), nil
}

func (x *execution) updatePrice(comp *component, args []manifest.Value) (sbor.Value, error) {
	if !x.authZone[comp.badge].IsPositive() {
		return sbor.Value{}, errors.New("Unauthorized: update_price requires a proof of the admin badge")
	}
	base, quote, err := pairArgs(args, 3)
	if err != nil {
		return sbor.Value{}, err
	}
	price, ok := args[2].(manifest.DecimalValue)
	if !ok {
		return sbor.Value{}, errors.New("price must be a Decimal")
	}
	if price.Amount.IsZero() {
		return sbor.Value{}, errors.New("division by zero")
	}
	if !price.Amount.Equal(price.Amount.Truncate(inverseScale)) {
		return sbor.Value{}, fmt.Errorf("decimal %s exceeds %d decimal places", price.Amount, inverseScale)
	}

	writes, ok := x.priceWrites[comp.address]
	if !ok {
		writes = make(map[pair]decimal.Decimal)
		x.priceWrites[comp.address] = writes
	}
	writes[pair{base, quote}] = price.Amount
	writes[pair{quote, base}] = inverse(price.Amount)
	return sbor.Tuple(), nil
}

func (x *execution) depositBatch(account string, args []manifest.Value) (sbor.Value, error) {
	if len(args) != 1 || args[0] != manifest.Expression(manifest.EntireWorktop) {
		return sbor.Value{}, errors.New("deposit_batch expects Expression(\"ENTIRE_WORKTOP\")")
	}
	for res, amount := range x.worktop {
		if amount.IsZero() {
			continue
		}
		held, ok := x.credits[account]
		if !ok {
			held = make(map[string]decimal.Decimal)
			x.credits[account] = held
		}
		held[res] = held[res].Add(amount)
		delete(x.worktop, res)
	}
	return sbor.Tuple(), nil
}

func (x *execution) createProof(account string, args []manifest.Value) (sbor.Value, error) {
	if len(args) != 2 {
		return sbor.Value{}, fmt.Errorf("create_proof_by_amount takes 2 arguments, got %d", len(args))
	}
	res, ok := args[0].(manifest.AddressValue)
	if !ok {
		return sbor.Value{}, errors.New("resource must be an Address")
	}
	amount, ok := args[1].(manifest.DecimalValue)
	if !ok || !amount.Amount.IsPositive() {
		return sbor.Value{}, errors.New("amount must be a positive Decimal")
	}
	if x.holding(account, res.Raw).LessThan(amount.Amount) {
		return sbor.Value{}, fmt.Errorf("insufficient balance of %s for proof", res.Raw)
	}
	x.authZone[res.Raw] = x.authZone[res.Raw].Add(amount.Amount)
	x.reference(account)
	return x.own("proof"), nil
}

// commit applies the staged effects to the ledger. Called with env.mu held.
func (x *execution) commit() {
	e := x.env
	for _, r := range x.newResources {
		e.resources[r.address] = r
	}
	for _, c := range x.newComponents {
		e.components[c.address] = c
	}
	for addr, writes := range x.priceWrites {
		for k, v := range writes {
			e.components[addr].prices[k] = v
		}
	}
	for account, held := range x.credits {
		for res, amount := range held {
			e.credit(account, res, amount)
		}
	}
}

func (x *execution) component(addr string) *component {
	if c, ok := x.env.components[addr]; ok {
		return c
	}
	for _, c := range x.newComponents {
		if c.address == addr {
			return c
		}
	}
	return nil
}

func (x *execution) price(comp *component, k pair) (decimal.Decimal, bool) {
	if p, ok := x.priceWrites[comp.address][k]; ok {
		return p, true
	}
	p, ok := comp.prices[k]
	return p, ok
}

func (x *execution) holding(account, res string) decimal.Decimal {
	return x.env.balances[account][res].Add(x.credits[account][res])
}

func (x *execution) reference(addrs ...string) {
	for _, addr := range addrs {
		seen := false
		for _, r := range x.referenced {
			if r == addr {
				seen = true
				break
			}
		}
		if !seen {
			x.referenced = append(x.referenced, addr)
		}
	}
}

// own returns a transient bucket or proof handle.
func (x *execution) own(kind string) sbor.Value {
	x.handles++
	return sbor.Scalar(sbor.KindOwn, fmt.Sprintf("%s_%d", kind, x.handles))
}

func pairArgs(args []manifest.Value, want int) (string, string, error) {
	if len(args) != want {
		return "", "", fmt.Errorf("expected %d arguments, got %d", want, len(args))
	}
	base, ok := args[0].(manifest.AddressValue)
	if !ok {
		return "", "", errors.New("base must be an Address")
	}
	quote, ok := args[1].(manifest.AddressValue)
	if !ok {
		return "", "", errors.New("quote must be an Address")
	}
	return base.Raw, quote.Raw, nil
}

// inverse computes 1/p truncated to the ledger's decimal places.
func inverse(p decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(p, inverseScale+1).Truncate(inverseScale)
}
