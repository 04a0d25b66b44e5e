package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oracle.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadDefaultConfig()
	require.NoError(t, err)

	assert.Empty(t, config.GetConfigPath())
	assert.Equal(t, "rcnet", config.Network.Name)
	assert.Equal(t, oracle.DefaultXRDAddress, config.Network.XRDAddress)
	assert.Equal(t, "https://rcnet.radixdlt.com", config.Gateway.URL)
	assert.Equal(t, 10*time.Second, config.Gateway.Timeout)
	assert.Equal(t, 256, config.Gateway.CacheSize)
	assert.Equal(t, 5*time.Minute, config.Wallet.Timeout)
	assert.Equal(t, oracle.DefaultPackageAddress, config.Oracle.PackageAddress)
	assert.Equal(t, uint32(1), config.Oracle.AdminCount)
	assert.Equal(t, oracle.AdminBadgeName, config.Oracle.AdminBadgeName)
	assert.Equal(t, 500*time.Millisecond, config.Tracking.InitialInterval)
	assert.Equal(t, 60, config.Tracking.MaxAttempts)
	assert.Equal(t, "127.0.0.1:5050", config.RPC.Listen)
	assert.Equal(t, "info", config.Log.Level)

	svc, err := config.ServiceConfig()
	require.NoError(t, err)
	def := oracle.DefaultConfig()
	assert.Equal(t, def.XRDAddress, svc.XRDAddress)
	assert.Equal(t, def.AdminBadgeName, svc.AdminBadgeName)
	assert.Equal(t, def.Composer.PackageAddress, svc.Composer.PackageAddress)
	assert.Equal(t, def.Composer.AdminCount, svc.Composer.AdminCount)
	assert.True(t, def.Composer.ProofAmount.Equal(svc.Composer.ProofAmount))
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[gateway]
url = "http://localhost:3333"
rate_limit = 5.0
burst = 2

[oracle]
admin_count = 3
proof_amount = "2"

[tracking]
initial_interval = "100ms"
max_interval = "1s"
max_attempts = 10

[log]
level = "debug"
format = "json"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, config.GetConfigPath())
	assert.Equal(t, "http://localhost:3333", config.Gateway.URL)
	assert.Equal(t, 5.0, config.Gateway.RateLimit)
	assert.Equal(t, 2, config.Gateway.Burst)
	assert.Equal(t, "json", config.Log.Format)

	tc := config.TrackerConfig()
	assert.Equal(t, 100*time.Millisecond, tc.InitialInterval)
	assert.Equal(t, time.Second, tc.MaxInterval)
	assert.Equal(t, 10, tc.MaxAttempts)
	assert.Equal(t, 2*time.Minute, tc.Timeout)

	svc, err := config.ServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), svc.Composer.AdminCount)
	assert.Equal(t, "2", svc.Composer.ProofAmount.String())

	reloaded, err := ReloadConfig(config)
	require.NoError(t, err)
	assert.Equal(t, config, reloaded)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ORACLE_GATEWAY_URL", "https://gateway.example.com")
	t.Setenv("ORACLE_TRACKING_MAX_ATTEMPTS", "7")
	t.Setenv("ORACLE_LOG_LEVEL", "warn")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example.com", config.Gateway.URL)
	assert.Equal(t, 7, config.Tracking.MaxAttempts)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad gateway url", "[gateway]\nurl = \"ftp://x\"", "gateway config"},
		{"zero admins", "[oracle]\nadmin_count = 0", "admin_count"},
		{"proof above supply", "[oracle]\nproof_amount = \"2\"", "exceeds"},
		{"bad proof", "[oracle]\nproof_amount = \"abc\"", "proof_amount"},
		{"package is a component", "[oracle]\npackage_address = \"component_tdx_c_1jgp27m8fykex4e4jtt0l7ze8q528ux2l5wxatzhxanzsjwr0sf\"", "package_address"},
		{"unbounded tracking", "[tracking]\nmax_attempts = 0\ntimeout = \"0s\"", "bound tracking"},
		{"max below initial", "[tracking]\ninitial_interval = \"2s\"\nmax_interval = \"1s\"", "max_interval"},
		{"bad listen", "[rpc]\nlisten = \"nowhere\"", "listen"},
		{"bad log level", "[log]\nlevel = \"chatty\"", "log level"},
		{"rate without burst", "[gateway]\nrate_limit = 1.0\nburst = 0", "burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRPCIsAdmin(t *testing.T) {
	r := RPCConfig{Listen: "127.0.0.1:5050"}
	assert.True(t, r.IsAdmin("127.0.0.1"))
	assert.True(t, r.IsAdmin("::1"))
	assert.False(t, r.IsAdmin("10.0.0.1"))

	r.Admin = []string{"10.0.0.1"}
	assert.True(t, r.IsAdmin("10.0.0.1"))
	assert.False(t, r.IsAdmin("127.0.0.1"))
}

func TestSaveExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.toml")
	require.NoError(t, SaveExampleConfig(path))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, oracle.DefaultPackageAddress, config.Oracle.PackageAddress)
}
