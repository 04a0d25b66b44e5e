package testing

import (
	"sync"
	"time"
)

// roundDuration is how far the ledger clock moves for each committed transaction.
const roundDuration = 5 * time.Second

// ManualClock is the ledger clock of the simulated network. It only moves
// when a transaction commits or a test advances it.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
	round   int64
}

// NewManualClock creates a clock set to the RCnet launch used in tests.
func NewManualClock() *ManualClock {
	return NewManualClockAt(time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC))
}

// NewManualClockAt creates a clock set to t.
func NewManualClockAt(t time.Time) *ManualClock {
	return &ManualClock{current: t}
}

// Now returns the current ledger time.
func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Round returns the number of rounds closed so far.
func (c *ManualClock) Round() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.round
}

// Advance moves the clock forward by d without closing a round.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// CloseRound advances the clock by one round and returns the new time.
func (c *ManualClock) CloseRound() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.round++
	c.current = c.current.Add(roundDuration)
	return c.current
}
