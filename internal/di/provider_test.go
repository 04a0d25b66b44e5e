package di

import (
	"context"
	"testing"

	"github.com/LeJamon/goRadixOracle/internal/config"
	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	jtx "github.com/LeJamon/goRadixOracle/internal/testing"
	"github.com/LeJamon/goRadixOracle/internal/tracker"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestProviderBuildsFromConfig(t *testing.T) {
	cfg := loadDefaults(t)
	c := New()
	p := NewProvider(c, cfg, nil)
	require.NoError(t, p.RegisterAll())

	svc, err := p.GetOracleService()
	require.NoError(t, err)
	assert.Equal(t, cfg.Oracle.PackageAddress, svc.Config().Composer.PackageAddress)
	assert.Equal(t, cfg.Network.XRDAddress, svc.Config().XRDAddress)

	_, err = Resolve[*wallet.Bridge](c, ServiceWallet)
	assert.NoError(t, err)
	_, err = Resolve[*gateway.Client](c, ServiceGateway)
	assert.NoError(t, err)

	tr, err := Resolve[*tracker.Tracker](c, ServiceTracker)
	require.NoError(t, err)
	assert.Equal(t, cfg.Tracking.MaxAttempts, tr.Config().MaxAttempts)

	again, err := p.GetOracleService()
	require.NoError(t, err)
	assert.Same(t, svc, again)
	assert.Same(t, cfg, p.GetConfig())
}

func TestProviderUsesRegisteredCollaborators(t *testing.T) {
	cfg := loadDefaults(t)
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Connect(alice)

	c := New()
	c.Register(ServiceWallet, env)
	c.Register(ServiceGateway, env)
	p := NewProvider(c, cfg, nil)
	require.NoError(t, p.RegisterAll())

	svc, err := p.GetOracleService()
	require.NoError(t, err)
	snap, err := svc.Instantiate(context.Background(), alice.Wallet())
	require.NoError(t, err)
	assert.Equal(t, oracle.Instantiated, snap.State())

	session, err := Resolve[*oracle.Session](c, ServiceSession)
	require.NoError(t, err)
	assert.Same(t, svc.Session(), session)

	srv, err := p.GetRPCServer()
	require.NoError(t, err)
	assert.Contains(t, srv.Methods(), "oracle_get_price")
}

func TestProviderInvalidProofAmount(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Oracle.ProofAmount = "lots"

	p := NewProvider(New(), cfg, nil)
	require.NoError(t, p.RegisterAll())
	_, err := p.GetOracleService()
	assert.ErrorContains(t, err, "proof_amount")
}
