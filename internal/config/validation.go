package config

import (
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/shopspring/decimal"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := validateNetwork(&config.Network); err != nil {
		return fmt.Errorf("network config validation failed: %w", err)
	}
	if err := config.Gateway.Validate(); err != nil {
		return fmt.Errorf("gateway config validation failed: %w", err)
	}
	if err := config.Wallet.Validate(); err != nil {
		return fmt.Errorf("wallet config validation failed: %w", err)
	}
	if err := validateOracle(config); err != nil {
		return fmt.Errorf("oracle config validation failed: %w", err)
	}
	if err := validateTracking(&config.Tracking); err != nil {
		return fmt.Errorf("tracking config validation failed: %w", err)
	}
	if err := config.RPC.Validate(); err != nil {
		return fmt.Errorf("rpc config validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	// Cross-validation checks
	if err := validateCrossReferences(config); err != nil {
		return fmt.Errorf("cross-validation failed: %w", err)
	}
	return nil
}

func validateNetwork(n *NetworkConfig) error {
	if n.Name == "" {
		return fmt.Errorf("name must be set")
	}
	if _, err := manifest.ParseAddressOf(n.XRDAddress, manifest.EntityResource); err != nil {
		return fmt.Errorf("xrd_address: %w", err)
	}
	return nil
}

func validateOracle(config *Config) error {
	o := &config.Oracle
	if _, err := manifest.ParseAddressOf(o.PackageAddress, manifest.EntityPackage); err != nil {
		return fmt.Errorf("package_address: %w", err)
	}
	if o.AdminCount < 1 {
		return fmt.Errorf("admin_count must be at least 1, got %d", o.AdminCount)
	}
	proof, err := config.GetProofAmount()
	if err != nil {
		return err
	}
	if !proof.IsPositive() {
		return fmt.Errorf("proof_amount must be positive, got %s", proof)
	}
	if proof.GreaterThan(decimal.NewFromInt(int64(o.AdminCount))) {
		return fmt.Errorf("proof_amount %s exceeds the %d badges minted", proof, o.AdminCount)
	}
	if o.AdminBadgeName == "" {
		return fmt.Errorf("admin_badge_name must be set")
	}
	return nil
}

func validateTracking(t *TrackingConfig) error {
	if t.InitialInterval <= 0 {
		return fmt.Errorf("initial_interval must be positive, got %s", t.InitialInterval)
	}
	if t.MaxInterval < t.InitialInterval {
		return fmt.Errorf("max_interval %s is below initial_interval %s", t.MaxInterval, t.InitialInterval)
	}
	if t.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1, got %v", t.Multiplier)
	}
	if t.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must not be negative, got %d", t.MaxAttempts)
	}
	if t.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", t.Timeout)
	}
	if t.MaxAttempts == 0 && t.Timeout == 0 {
		return fmt.Errorf("at least one of max_attempts and timeout must bound tracking")
	}
	return nil
}

// validateCrossReferences checks settings that depend on each other
func validateCrossReferences(config *Config) error {
	xrd, err := manifest.ParseAddress(config.Network.XRDAddress)
	if err != nil {
		return err
	}
	pkg, err := manifest.ParseAddress(config.Oracle.PackageAddress)
	if err != nil {
		return err
	}
	if xrd.Network != pkg.Network {
		return fmt.Errorf("xrd_address is on network %q but package_address is on %q", xrd.Network, pkg.Network)
	}
	return nil
}
