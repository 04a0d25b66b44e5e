package config

import (
	"fmt"
	"net"
	"strconv"
)

// RPCConfig configures the local JSON-RPC server
type RPCConfig struct {
	Listen string `toml:"listen" mapstructure:"listen"`

	// Admin lists the client IPs allowed to call state-changing methods.
	Admin []string `toml:"admin" mapstructure:"admin"`
}

// Validate validates the rpc configuration
func (r *RPCConfig) Validate() error {
	host, port, err := net.SplitHostPort(r.Listen)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", r.Listen, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("listen port must be between 1 and 65535, got %q", port)
	}
	if host != "" && net.ParseIP(host) == nil && host != "localhost" {
		return fmt.Errorf("listen host must be an IP address, got %q", host)
	}
	for _, ip := range r.Admin {
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("invalid admin IP %q", ip)
		}
	}
	return nil
}

// IsAdmin reports whether ip may call admin methods. An empty admin list
// allows loopback clients only.
func (r *RPCConfig) IsAdmin(ip string) bool {
	if len(r.Admin) == 0 {
		parsed := net.ParseIP(ip)
		return parsed != nil && parsed.IsLoopback()
	}
	for _, a := range r.Admin {
		if a == ip {
			return true
		}
	}
	return false
}
