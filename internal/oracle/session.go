package oracle

import (
	"fmt"
	"sync"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

// State is the lifecycle state of a session.
type State int

const (
	Uninstantiated State = iota
	Instantiated
)

func (s State) String() string {
	if s == Instantiated {
		return "instantiated"
	}
	return "uninstantiated"
}

// PriceView is the last price shown to the user.
type PriceView struct {
	Query     PriceQuery  `json:"query"`
	Result    PriceResult `json:"price"`
	Message   string      `json:"message,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Snapshot is a read-only copy of session state.
type Snapshot struct {
	ComponentAddress  string          `json:"component_address,omitempty"`
	AdminBadgeAddress string          `json:"admin_badge_address,omitempty"`
	AdminAccount      *wallet.Account `json:"admin_account,omitempty"`
	LastPrice         *PriceView      `json:"last_price,omitempty"`
}

// State derives the lifecycle state.
func (s Snapshot) State() State {
	if s.ComponentAddress != "" && s.AdminBadgeAddress != "" && s.AdminAccount != nil {
		return Instantiated
	}
	return Uninstantiated
}

// Actions reports which operations are currently enabled.
type Actions struct {
	Instantiate bool `json:"instantiate"`
	GetPrice    bool `json:"get_price"`
	UpdatePrice bool `json:"update_price"`
}

// Actions computes enablement for query given the wallet connection state.
func (s Snapshot) Actions(q PriceQuery, connected bool) Actions {
	ready := connected && s.State() == Instantiated && q.Complete()
	return Actions{
		Instantiate: connected && s.State() == Uninstantiated,
		GetPrice:    ready,
		UpdatePrice: ready,
	}
}

// Session holds the oracle discovered by instantiation and the last price
// read or written. It moves from Uninstantiated to Instantiated exactly once.
// All mutation happens under one lock so readers never see a partially
// populated oracle.
type Session struct {
	mu sync.RWMutex

	component string
	badge     string
	account   *wallet.Account
	price     *PriceView

	now func() time.Time
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ComponentAddress:  s.component,
		AdminBadgeAddress: s.badge,
	}
	if s.account != nil {
		acct := *s.account
		snap.AdminAccount = &acct
	}
	if s.price != nil {
		pv := *s.price
		snap.LastPrice = &pv
	}
	return snap
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.component != "" {
		return Instantiated
	}
	return Uninstantiated
}

// Attach adopts an oracle instantiated elsewhere.
func (s *Session) Attach(component, badge string, account wallet.Account) error {
	if _, err := manifest.ParseAddressOf(component, manifest.EntityComponent); err != nil {
		return fmt.Errorf("component: %w", err)
	}
	if _, err := manifest.ParseAddressOf(badge, manifest.EntityResource); err != nil {
		return fmt.Errorf("admin badge: %w", err)
	}
	if _, err := manifest.ParseAddressOf(account.Address, manifest.EntityAccount); err != nil {
		return fmt.Errorf("admin account: %w", err)
	}
	return s.instantiate(Instantiation{ComponentAddress: component, AdminBadgeAddress: badge}, account, nil)
}

// instantiate performs the Uninstantiated to Instantiated transition. guard,
// when set, is evaluated under the lock and aborts the transition on error.
func (s *Session) instantiate(inst Instantiation, account wallet.Account, guard func() error) error {
	if inst.ComponentAddress == "" || inst.AdminBadgeAddress == "" || account.Address == "" {
		return fmt.Errorf("%w: incomplete oracle", ErrNotInstantiated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if guard != nil {
		if err := guard(); err != nil {
			return err
		}
	}
	if s.component != "" {
		return ErrAlreadyInstantiated
	}

	acct := account
	s.component = inst.ComponentAddress
	s.badge = inst.AdminBadgeAddress
	s.account = &acct
	return nil
}

// recordPrice replaces the price view. guard behaves as in instantiate.
func (s *Session) recordPrice(q PriceQuery, r PriceResult, guard func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if guard != nil {
		if err := guard(); err != nil {
			return err
		}
	}

	pv := &PriceView{Query: q, Result: r, UpdatedAt: s.now()}
	if !r.IsAvailable() {
		pv.Message = NoPriceMessage
	}
	s.price = pv
	return nil
}
