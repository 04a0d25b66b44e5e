package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/tracker"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
	"github.com/shopspring/decimal"
)

// Gateway is the ledger gateway as used by the service.
type Gateway interface {
	tracker.Source
	EntityDetails(ctx context.Context, addresses []string) ([]gateway.EntityDetails, error)
}

// Config holds the protocol constants the service works with.
type Config struct {
	Composer       Composer
	XRDAddress     string
	AdminBadgeName string
}

// DefaultConfig targets the oracle package deployed on RCnet.
func DefaultConfig() Config {
	return Config{
		Composer:       NewComposer(DefaultPackageAddress),
		XRDAddress:     DefaultXRDAddress,
		AdminBadgeName: AdminBadgeName,
	}
}

// Service runs oracle operations end to end: compose, submit, track, decode
// and update the session.
type Service struct {
	cfg     Config
	wallet  wallet.Connector
	gateway Gateway
	tracker *tracker.Tracker
	session *Session
	scopes  *scopes
	logger  *slog.Logger
}

// NewService wires a service. A nil session starts a fresh one.
func NewService(cfg Config, w wallet.Connector, gw Gateway, tr *tracker.Tracker, session *Session, logger *slog.Logger) *Service {
	if session == nil {
		session = NewSession()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AdminBadgeName == "" {
		cfg.AdminBadgeName = AdminBadgeName
	}
	if cfg.XRDAddress == "" {
		cfg.XRDAddress = DefaultXRDAddress
	}
	return &Service{
		cfg:     cfg,
		wallet:  w,
		gateway: gw,
		tracker: tr,
		session: session,
		scopes:  newScopes(),
		logger:  logger,
	}
}

// Session returns the session the service updates.
func (s *Service) Session() *Session {
	return s.session
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Actions reports which operations are enabled for q right now.
func (s *Service) Actions(ctx context.Context, q PriceQuery) Actions {
	snap := s.session.Snapshot()
	a := snap.Actions(q.WithDefaults(s.cfg.XRDAddress, snap), s.wallet.IsConnected(ctx))
	if s.scopes.inFlight(OpInstantiate) {
		a.Instantiate = false
	}
	return a
}

// Accounts lists the accounts shared by the connected wallet.
func (s *Service) Accounts(ctx context.Context) ([]wallet.Account, error) {
	if !s.wallet.IsConnected(ctx) {
		return nil, ErrNotConnected
	}
	return s.wallet.ConnectedAccounts(ctx)
}

// Persona returns the persona of the connected wallet.
func (s *Service) Persona(ctx context.Context) (*wallet.Persona, error) {
	if !s.wallet.IsConnected(ctx) {
		return nil, ErrNotConnected
	}
	return s.wallet.ConnectedPersona(ctx)
}

// Instantiate creates a new oracle administered from account. The session
// becomes Instantiated only when both the component and the admin badge were
// found in the receipt.
func (s *Service) Instantiate(ctx context.Context, account wallet.Account) (Snapshot, error) {
	ctx, sc, err := s.scopes.begin(ctx, OpInstantiate)
	if err != nil {
		return Snapshot{}, err
	}
	defer s.scopes.end(sc)
	logger := s.actionLogger(sc)

	if s.session.State() == Instantiated {
		return Snapshot{}, ErrAlreadyInstantiated
	}
	if !s.wallet.IsConnected(ctx) {
		return Snapshot{}, ErrNotConnected
	}

	m, err := s.cfg.Composer.Instantiate(account)
	if err != nil {
		return Snapshot{}, err
	}

	out, err := s.execute(ctx, sc, m, logger)
	if err != nil {
		return Snapshot{}, err
	}

	entities, err := s.gateway.EntityDetails(ctx, out.Details.Details.ReferencedGlobalEntities)
	if err != nil {
		return Snapshot{}, s.scopeErr(sc, fmt.Errorf("entity details: %w", err))
	}
	inst, err := DecodeInstantiation(entities, s.cfg.AdminBadgeName)
	if err != nil {
		logger.Warn("instantiate receipt incomplete", "intent_hash", out.IntentHash, "error", err)
		return Snapshot{}, err
	}

	if err := s.session.instantiate(inst, account, s.guard(sc)); err != nil {
		return Snapshot{}, err
	}
	logger.Info("oracle instantiated",
		"component", inst.ComponentAddress,
		"admin_badge", inst.AdminBadgeAddress,
		"account", account.Address,
	)
	return s.session.Snapshot(), nil
}

// GetPrice reads the price for q. Empty query fields take their defaults.
func (s *Service) GetPrice(ctx context.Context, q PriceQuery) (PriceResult, error) {
	snap := s.session.Snapshot()
	if snap.State() != Instantiated {
		return PriceResult{}, ErrNotInstantiated
	}
	q = q.WithDefaults(s.cfg.XRDAddress, snap)
	if err := q.Validate(); err != nil {
		return PriceResult{}, err
	}

	ctx, sc, err := s.scopes.begin(ctx, OpGetPrice)
	if err != nil {
		return PriceResult{}, err
	}
	defer s.scopes.end(sc)
	logger := s.actionLogger(sc)

	m, err := s.cfg.Composer.GetPrice(snap, q)
	if err != nil {
		return PriceResult{}, err
	}

	out, err := s.execute(ctx, sc, m, logger)
	if err != nil {
		return PriceResult{}, err
	}

	result, err := DecodePrice(out.Details.Details.Receipt.Output)
	if err != nil {
		logger.Warn("unexpected get_price output", "intent_hash", out.IntentHash, "error", err)
		return PriceResult{}, err
	}

	if err := s.session.recordPrice(q, result, s.guard(sc)); err != nil {
		return PriceResult{}, err
	}
	logger.Info("price read", "base", q.Base, "quote", q.Quote, "price", result.String())
	return result, nil
}

// UpdatePrice sets the price for q. Success is judged by the transaction
// committing successfully; on any failure the session's price is unchanged.
func (s *Service) UpdatePrice(ctx context.Context, q PriceQuery, price decimal.Decimal) error {
	snap := s.session.Snapshot()
	if snap.State() != Instantiated {
		return ErrNotInstantiated
	}
	q = q.WithDefaults(s.cfg.XRDAddress, snap)
	if err := q.Validate(); err != nil {
		return err
	}

	ctx, sc, err := s.scopes.begin(ctx, OpUpdatePrice)
	if err != nil {
		return err
	}
	defer s.scopes.end(sc)
	logger := s.actionLogger(sc)

	m, err := s.cfg.Composer.UpdatePrice(snap, q, price)
	if err != nil {
		return err
	}

	if _, err := s.execute(ctx, sc, m, logger); err != nil {
		return err
	}

	if err := s.session.recordPrice(q, Available(price), s.guard(sc)); err != nil {
		return err
	}
	logger.Info("price updated", "base", q.Base, "quote", q.Quote, "price", price.String())
	return nil
}

// execute submits m, waits for it to settle and requires CommittedSuccess.
func (s *Service) execute(ctx context.Context, sc *scope, m *manifest.Manifest, logger *slog.Logger) (*tracker.Outcome, error) {
	logger.Debug("submitting manifest", "manifest", m.String())

	handle, err := s.wallet.Submit(ctx, m.String())
	if err != nil {
		if serr := s.guard(sc)(); serr != nil {
			return nil, serr
		}
		logger.Warn("transaction not submitted", "error", err)
		return nil, &SubmissionError{Op: sc.op, Err: err}
	}
	logger.Info("transaction submitted", "intent_hash", handle.IntentHash)

	out, err := s.tracker.Track(ctx, handle.IntentHash)
	if err != nil {
		return nil, s.scopeErr(sc, err)
	}

	if out.Status != gateway.StatusCommittedSuccess {
		logger.Warn("transaction failed",
			"intent_hash", out.IntentHash,
			"status", out.Status,
			"error_message", out.ErrorMessage,
		)
		return nil, &CommitFailure{
			Op:         sc.op,
			IntentHash: out.IntentHash,
			Status:     out.Status,
			Message:    out.ErrorMessage,
		}
	}
	if out.Details == nil {
		return nil, &DecodeError{Op: sc.op, Reason: "committed transaction without receipt"}
	}
	return out, nil
}

func (s *Service) guard(sc *scope) func() error {
	return func() error { return s.scopes.check(sc) }
}

// scopeErr reports ErrSuperseded instead of the cancellation it caused.
func (s *Service) scopeErr(sc *scope, err error) error {
	if serr := s.scopes.check(sc); serr != nil && errors.Is(err, context.Canceled) {
		return serr
	}
	return err
}

func (s *Service) actionLogger(sc *scope) *slog.Logger {
	return s.logger.With("action_id", sc.id, "op", sc.op.String())
}
