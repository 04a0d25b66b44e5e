package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/LeJamon/goRadixOracle/internal/codec/sbor"
	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
	"github.com/shopspring/decimal"
)

// TestEnv is an in-memory ledger with the oracle package deployed. It acts as
// both the wallet connector and the ledger gateway, so an oracle.Service can
// run against it end to end.
type TestEnv struct {
	t     *testing.T
	mu    sync.Mutex
	clock *ManualClock

	packageAddress string
	xrd            string

	// Wallet session
	connected bool
	accounts  []*Account
	persona   *wallet.Persona

	// Ledger state
	components map[string]*component
	resources  map[string]*resource
	balances   map[string]map[string]decimal.Decimal
	entities   int

	txs          map[string]*transaction
	order        []string
	submitted    []string
	stateVersion int64

	// Fault injection, consumed by the next matching call
	pendingPolls    int
	rejectNext      bool
	userRejectNext  bool
	statusFailures  []int
	outputOverrides []sbor.Value
	badgeName       string
}

type component struct {
	address string
	badge   string
	prices  map[pair]decimal.Decimal
}

type pair struct {
	base, quote string
}

type resource struct {
	address string
	name    string
	supply  decimal.Decimal
}

type transaction struct {
	result       TxResult
	manifest     string
	pending      int
	stateVersion int64

	// settled is set once a status request has reported the terminal
	// status. Receipts are served only after that.
	settled bool
}

// NewTestEnv creates a ledger with the oracle package published at
// oracle.DefaultPackageAddress and the XRD resource at oracle.DefaultXRDAddress.
// The wallet starts disconnected.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	e := &TestEnv{
		t:              t,
		clock:          NewManualClock(),
		packageAddress: oracle.DefaultPackageAddress,
		xrd:            oracle.DefaultXRDAddress,
		components:     make(map[string]*component),
		resources:      make(map[string]*resource),
		balances:       make(map[string]map[string]decimal.Decimal),
		txs:            make(map[string]*transaction),
		persona: &wallet.Persona{
			IdentityAddress: deriveAddress("identity", "persona:operator"),
			Label:           "Oracle Operator",
		},
		badgeName: oracle.AdminBadgeName,
	}
	e.resources[e.xrd] = &resource{address: e.xrd, name: "Radix", supply: decimal.NewFromInt(24_000_000_000)}
	return e
}

// PackageAddress returns the address of the published oracle package.
func (e *TestEnv) PackageAddress() string {
	return e.packageAddress
}

// XRDAddress returns the address of the native token.
func (e *TestEnv) XRDAddress() string {
	return e.xrd
}

// Clock returns the ledger clock.
func (e *TestEnv) Clock() *ManualClock {
	return e.clock
}

// Connect shares accounts with the application, in order, and marks the
// wallet connected. Each account is funded with 1000 XRD.
func (e *TestEnv) Connect(accounts ...*Account) {
	e.t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()

	e.connected = true
	for _, acc := range accounts {
		acc.AppearanceID = len(e.accounts)
		e.accounts = append(e.accounts, acc)
		e.credit(acc.Address, e.xrd, decimal.NewFromInt(1000))
	}
}

// Disconnect ends the wallet session.
func (e *TestEnv) Disconnect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connected = false
}

// SetPersona replaces the logged in persona; nil means no persona.
func (e *TestEnv) SetPersona(p *wallet.Persona) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.persona = p
}

// CreateResource creates a fungible resource named name and returns its address.
func (e *TestEnv) CreateResource(name string) string {
	e.t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()

	addr := e.newAddress(manifest.EntityResource)
	e.resources[addr] = &resource{address: addr, name: name}
	return addr
}

// Balance returns the amount of res held by acc.
func (e *TestEnv) Balance(acc *Account, res string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balances[acc.Address][res]
}

// Price returns the stored price of base in quote on the oracle component.
func (e *TestEnv) Price(componentAddr, base, quote string) (decimal.Decimal, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.components[componentAddr]
	if !ok {
		return decimal.Decimal{}, false
	}
	p, ok := c.prices[pair{base, quote}]
	return p, ok
}

// ResourceName returns the name metadata of a resource.
func (e *TestEnv) ResourceName(addr string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.resources[addr]; ok {
		return r.name
	}
	return ""
}

// SetPendingPolls makes transactions submitted from now on report Pending
// for n status requests before their terminal status.
func (e *TestEnv) SetPendingPolls(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingPolls = n
}

// Settle ends the pending phase of every submitted transaction.
func (e *TestEnv) Settle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tx := range e.txs {
		tx.pending = 0
	}
}

// RejectNext makes the ledger reject the next submitted transaction.
func (e *TestEnv) RejectNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejectNext = true
}

// UserRejectNext makes the user decline the next transaction in the wallet.
func (e *TestEnv) UserRejectNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userRejectNext = true
}

// FailStatusRequests makes the next status requests fail with the given
// HTTP status codes, one code per request.
func (e *TestEnv) FailStatusRequests(codes ...int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusFailures = append(e.statusFailures, codes...)
}

// ReplaceNextOutput replaces the receipt output of the next successful
// transaction, fee lock included.
func (e *TestEnv) ReplaceNextOutput(values ...sbor.Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputOverrides = values
}

// SetBadgeName changes the name given to admin badges minted from now on.
func (e *TestEnv) SetBadgeName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.badgeName = name
}

// Submitted returns the manifests accepted by the wallet, in order.
func (e *TestEnv) Submitted() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.submitted))
	copy(out, e.submitted)
	return out
}

// Transaction returns the result of a submitted transaction.
func (e *TestEnv) Transaction(intentHash string) (TxResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, ok := e.txs[intentHash]
	if !ok {
		return TxResult{}, false
	}
	return tx.result, true
}

// LastTransaction returns the result of the most recent submission.
func (e *TestEnv) LastTransaction() TxResult {
	e.t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.order) == 0 {
		e.t.Fatalf("no transaction submitted")
	}
	return e.txs[e.order[len(e.order)-1]].result
}

func (e *TestEnv) newAddress(kind manifest.EntityKind) string {
	e.entities++
	return deriveAddress(kind, fmt.Sprintf("entity:%d", e.entities))
}

func (e *TestEnv) credit(account, res string, amount decimal.Decimal) {
	held, ok := e.balances[account]
	if !ok {
		held = make(map[string]decimal.Decimal)
		e.balances[account] = held
	}
	held[res] = held[res].Add(amount)
}

func (e *TestEnv) isAccount(addr string) bool {
	pa, err := manifest.ParseAddress(addr)
	return err == nil && pa.Kind == manifest.EntityAccount
}

var (
	_ wallet.Connector = (*TestEnv)(nil)
	_ oracle.Gateway   = (*TestEnv)(nil)
)
