package config

import (
	"fmt"
	"net/url"
	"time"
)

// GatewayConfig configures the ledger gateway client
type GatewayConfig struct {
	URL       string        `toml:"url" mapstructure:"url"`
	Timeout   time.Duration `toml:"timeout" mapstructure:"timeout"`
	RateLimit float64       `toml:"rate_limit" mapstructure:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int           `toml:"burst" mapstructure:"burst"`
	CacheSize int           `toml:"cache_size" mapstructure:"cache_size"`
}

// WalletConfig configures the wallet bridge client
type WalletConfig struct {
	BridgeURL string        `toml:"bridge_url" mapstructure:"bridge_url"`
	Timeout   time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// Validate validates the gateway configuration
func (g *GatewayConfig) Validate() error {
	if err := validateHTTPURL(g.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", g.Timeout)
	}
	if g.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", g.RateLimit)
	}
	if g.RateLimit > 0 && g.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate_limit is set, got %d", g.Burst)
	}
	if g.CacheSize < 1 {
		return fmt.Errorf("cache_size must be at least 1, got %d", g.CacheSize)
	}
	return nil
}

// Validate validates the wallet configuration
func (w *WalletConfig) Validate() error {
	if err := validateHTTPURL(w.BridgeURL); err != nil {
		return fmt.Errorf("bridge_url: %w", err)
	}
	if w.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", w.Timeout)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}
