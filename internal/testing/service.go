package testing

import (
	"log/slog"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/tracker"
)

// FastTracking is a polling schedule short enough for tests.
func FastTracking() tracker.Config {
	return tracker.Config{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      1.5,
		MaxAttempts:     50,
		Timeout:         5 * time.Second,
	}
}

// NewService wires an oracle.Service to the environment with the default
// protocol configuration and FastTracking. A nil logger discards output.
func (e *TestEnv) NewService(logger *slog.Logger) *oracle.Service {
	return e.NewServiceWithTracking(FastTracking(), logger)
}

// NewServiceWithTracking is NewService with a custom polling schedule.
func (e *TestEnv) NewServiceWithTracking(cfg tracker.Config, logger *slog.Logger) *oracle.Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tr := tracker.New(e, cfg, logger)
	return oracle.NewService(oracle.DefaultConfig(), e, e, tr, nil, logger)
}
