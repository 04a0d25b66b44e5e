package config

import (
	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/spf13/viper"
)

// setDefaults sets default values targeting the oracle package on RCnet
func setDefaults(v *viper.Viper) {
	// Network
	v.SetDefault("network.name", "rcnet")
	v.SetDefault("network.xrd_address", oracle.DefaultXRDAddress)

	// Gateway
	v.SetDefault("gateway.url", gateway.DefaultURL)
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("gateway.rate_limit", 0) // unlimited
	v.SetDefault("gateway.burst", 1)
	v.SetDefault("gateway.cache_size", 256)

	// Wallet bridge
	v.SetDefault("wallet.bridge_url", "http://127.0.0.1:7777")
	v.SetDefault("wallet.timeout", "5m") // the user approves in the wallet

	// Oracle package
	v.SetDefault("oracle.package_address", oracle.DefaultPackageAddress)
	v.SetDefault("oracle.admin_count", oracle.DefaultAdminCount)
	v.SetDefault("oracle.proof_amount", oracle.DefaultProofAmount.String())
	v.SetDefault("oracle.admin_badge_name", oracle.AdminBadgeName)

	// Tracking
	v.SetDefault("tracking.initial_interval", "500ms")
	v.SetDefault("tracking.max_interval", "5s")
	v.SetDefault("tracking.multiplier", 1.5)
	v.SetDefault("tracking.max_attempts", 60)
	v.SetDefault("tracking.timeout", "2m")

	// RPC
	v.SetDefault("rpc.listen", "127.0.0.1:5050")
	v.SetDefault("rpc.admin", []string{})

	// Logging
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
