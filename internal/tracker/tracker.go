// Package tracker polls the gateway until a submitted transaction reaches a
// terminal status and then fetches its receipt.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/cenkalti/backoff/v4"
)

// ErrTimeout is matched by *TimeoutError.
var ErrTimeout = errors.New("transaction tracking timed out")

var errStillPending = errors.New("transaction not yet terminal")

// TimeoutError is returned when a transaction did not reach a terminal status
// within the attempt or time budget.
type TimeoutError struct {
	IntentHash string
	Attempts   int
	LastStatus gateway.TransactionStatus
	Elapsed    time.Duration

	// Err is the last retryable gateway error, if any.
	Err error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("transaction %s still %s after %d attempts in %s",
		e.IntentHash, e.LastStatus, e.Attempts, e.Elapsed.Round(time.Millisecond))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Source is the part of the gateway the tracker reads from.
type Source interface {
	TransactionStatus(ctx context.Context, intentHash string) (*gateway.StatusResponse, error)
	CommittedDetails(ctx context.Context, intentHash string) (*gateway.CommittedDetails, error)
}

// Config bounds the polling schedule.
type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64

	// MaxAttempts caps status requests; 0 means unlimited.
	MaxAttempts int

	// Timeout caps total tracking time; 0 means no limit beyond the context.
	Timeout time.Duration
}

// DefaultConfig returns the polling schedule used when none is configured.
func DefaultConfig() Config {
	return Config{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      1.5,
		MaxAttempts:     60,
		Timeout:         2 * time.Minute,
	}
}

// Outcome is the terminal state of a tracked transaction.
type Outcome struct {
	IntentHash   string
	Status       gateway.TransactionStatus
	ErrorMessage string
	Attempts     int

	// Details is set for committed transactions only.
	Details *gateway.CommittedDetails
}

// Tracker waits for transactions to settle.
type Tracker struct {
	source Source
	cfg    Config
	logger *slog.Logger
}

// New creates a Tracker. Zero fields in cfg take their DefaultConfig value.
func New(source Source, cfg Config, logger *slog.Logger) *Tracker {
	def := DefaultConfig()
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = cfg.InitialInterval
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = def.Multiplier
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{source: source, cfg: cfg, logger: logger}
}

// Config returns the effective polling schedule.
func (t *Tracker) Config() Config {
	return t.cfg
}

func (t *Tracker) policy(ctx context.Context, maxAttempts int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = t.cfg.InitialInterval
	exp.MaxInterval = t.cfg.MaxInterval
	exp.Multiplier = t.cfg.Multiplier
	exp.RandomizationFactor = 0.1
	exp.MaxElapsedTime = 0
	exp.Reset()

	var b backoff.BackOff = exp
	if maxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(maxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

// WaitForTerminal polls the transaction status until it is terminal.
// Pending and Unknown statuses and retryable gateway errors keep polling;
// any other gateway error stops immediately. When the attempt or time budget
// runs out a *TimeoutError is returned. Cancellation of ctx is returned as is.
func (t *Tracker) WaitForTerminal(ctx context.Context, intentHash string) (*gateway.StatusResponse, int, error) {
	start := time.Now()

	tctx, cancel := ctx, context.CancelFunc(func() {})
	if t.cfg.Timeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
	}
	defer cancel()

	var (
		last     *gateway.StatusResponse
		lastErr  error
		attempts int
	)
	operation := func() error {
		attempts++
		resp, err := t.source.TransactionStatus(tctx, intentHash)
		if err != nil {
			if gateway.IsRetryable(err) || tctx.Err() != nil {
				lastErr = err
				return err
			}
			return backoff.Permanent(err)
		}
		last = resp
		lastErr = nil
		if resp.Status.IsTerminal() {
			return nil
		}
		return errStillPending
	}
	notify := func(err error, next time.Duration) {
		t.logger.Debug("transaction not settled",
			"intent_hash", intentHash,
			"attempt", attempts,
			"status", lastStatus(last),
			"retry_in", next,
			"error", err,
		)
	}

	err := backoff.RetryNotify(operation, t.policy(tctx, t.cfg.MaxAttempts), notify)
	if err == nil {
		return last, attempts, nil
	}
	if ctx.Err() != nil {
		return nil, attempts, ctx.Err()
	}
	if errors.Is(err, errStillPending) || errors.Is(err, context.DeadlineExceeded) || gateway.IsRetryable(err) {
		return nil, attempts, &TimeoutError{
			IntentHash: intentHash,
			Attempts:   attempts,
			LastStatus: lastStatus(last),
			Elapsed:    time.Since(start),
			Err:        lastErr,
		}
	}
	return nil, attempts, fmt.Errorf("transaction status %s: %w", intentHash, err)
}

// Track waits for a terminal status and, for committed transactions, fetches
// the receipt.
func (t *Tracker) Track(ctx context.Context, intentHash string) (*Outcome, error) {
	status, attempts, err := t.WaitForTerminal(ctx, intentHash)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		IntentHash:   intentHash,
		Status:       status.Status,
		ErrorMessage: status.ErrorMessage,
		Attempts:     attempts,
	}
	t.logger.Info("transaction settled",
		"intent_hash", intentHash,
		"status", status.Status,
		"attempts", attempts,
	)

	if !status.Status.IsCommitted() {
		return out, nil
	}

	details, err := t.committedDetails(ctx, intentHash)
	if err != nil {
		return nil, fmt.Errorf("committed details %s: %w", intentHash, err)
	}
	out.Details = details
	if out.ErrorMessage == "" {
		out.ErrorMessage = details.Details.Receipt.ErrorMessage
	}
	return out, nil
}

// committedDetails retries retryable receipt fetch failures a few times.
func (t *Tracker) committedDetails(ctx context.Context, intentHash string) (*gateway.CommittedDetails, error) {
	var details *gateway.CommittedDetails
	operation := func() error {
		d, err := t.source.CommittedDetails(ctx, intentHash)
		if err != nil {
			if gateway.IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		details = d
		return nil
	}
	if err := backoff.Retry(operation, t.policy(ctx, 4)); err != nil {
		return nil, err
	}
	return details, nil
}

func lastStatus(s *gateway.StatusResponse) gateway.TransactionStatus {
	if s == nil {
		return gateway.StatusUnknown
	}
	return s.Status
}
