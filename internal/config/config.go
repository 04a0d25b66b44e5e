package config

import (
	"fmt"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/tracker"
	"github.com/shopspring/decimal"
)

// Config represents the complete oraclectl configuration
type Config struct {
	Network  NetworkConfig  `toml:"network" mapstructure:"network"`
	Gateway  GatewayConfig  `toml:"gateway" mapstructure:"gateway"`
	Wallet   WalletConfig   `toml:"wallet" mapstructure:"wallet"`
	Oracle   OracleConfig   `toml:"oracle" mapstructure:"oracle"`
	Tracking TrackingConfig `toml:"tracking" mapstructure:"tracking"`
	RPC      RPCConfig      `toml:"rpc" mapstructure:"rpc"`
	Log      LogConfig      `toml:"log" mapstructure:"log"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// NetworkConfig names the Radix network the client talks to
type NetworkConfig struct {
	Name       string `toml:"name" mapstructure:"name"`
	XRDAddress string `toml:"xrd_address" mapstructure:"xrd_address"`
}

// OracleConfig holds the protocol constants of the deployed oracle package
type OracleConfig struct {
	PackageAddress string `toml:"package_address" mapstructure:"package_address"`
	AdminCount     uint32 `toml:"admin_count" mapstructure:"admin_count"`
	ProofAmount    string `toml:"proof_amount" mapstructure:"proof_amount"`
	AdminBadgeName string `toml:"admin_badge_name" mapstructure:"admin_badge_name"`
}

// TrackingConfig is the transaction status polling schedule
type TrackingConfig struct {
	InitialInterval time.Duration `toml:"initial_interval" mapstructure:"initial_interval"`
	MaxInterval     time.Duration `toml:"max_interval" mapstructure:"max_interval"`
	Multiplier      float64       `toml:"multiplier" mapstructure:"multiplier"`
	MaxAttempts     int           `toml:"max_attempts" mapstructure:"max_attempts"`
	Timeout         time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// GetConfigPath returns the path of the file the configuration was read from
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetProofAmount returns the badge amount proven for price updates
func (c *Config) GetProofAmount() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Oracle.ProofAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid proof_amount %q: %w", c.Oracle.ProofAmount, err)
	}
	return d, nil
}

// ServiceConfig builds the oracle service configuration
func (c *Config) ServiceConfig() (oracle.Config, error) {
	proof, err := c.GetProofAmount()
	if err != nil {
		return oracle.Config{}, err
	}
	composer := oracle.NewComposer(c.Oracle.PackageAddress)
	composer.AdminCount = c.Oracle.AdminCount
	composer.ProofAmount = proof

	return oracle.Config{
		Composer:       composer,
		XRDAddress:     c.Network.XRDAddress,
		AdminBadgeName: c.Oracle.AdminBadgeName,
	}, nil
}

// TrackerConfig converts the tracking section
func (c *Config) TrackerConfig() tracker.Config {
	return tracker.Config{
		InitialInterval: c.Tracking.InitialInterval,
		MaxInterval:     c.Tracking.MaxInterval,
		Multiplier:      c.Tracking.Multiplier,
		MaxAttempts:     c.Tracking.MaxAttempts,
		Timeout:         c.Tracking.Timeout,
	}
}
