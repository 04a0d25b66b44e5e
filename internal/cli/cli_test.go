package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc"
	jtx "github.com/LeJamon/goRadixOracle/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes oraclectl against env and returns stdout.
func run(t *testing.T, env *jtx.TestEnv, args ...string) (string, error) {
	t.Helper()
	a := &app{overrides: collaborators{wallet: env, gateway: env}}
	cmd := newRootCmd(a)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--quiet"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func newEnv(t *testing.T) (*jtx.TestEnv, *jtx.Account) {
	t.Helper()
	t.Chdir(t.TempDir())
	env := jtx.NewTestEnv(t)
	alice := jtx.NewAccount("alice")
	env.Connect(alice)
	return env, alice
}

func instantiate(t *testing.T, env *jtx.TestEnv) oracle.Snapshot {
	t.Helper()
	out, err := run(t, env, "instantiate")
	require.NoError(t, err)
	var snap oracle.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	return snap
}

func TestVersion(t *testing.T) {
	out, err := run(t, jtx.NewTestEnv(t), "version", "--conf", "/does/not/exist.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "oraclectl version "+Version)
	assert.Contains(t, out, "Go version:")
}

func TestMissingConfigFile(t *testing.T) {
	env, _ := newEnv(t)
	_, err := run(t, env, "accounts", "--conf", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Empty(t, env.Submitted())
}

func TestInvalidConfigFile(t *testing.T) {
	env, _ := newEnv(t)
	path := filepath.Join(t.TempDir(), "oracle.toml")
	require.NoError(t, os.WriteFile(path, []byte("[oracle]\nadmin_count = 0\n"), 0o600))

	_, err := run(t, env, "instantiate", "--conf", path)
	require.Error(t, err)
	assert.Empty(t, env.Submitted())
}

func TestInstantiateCommand(t *testing.T) {
	env, alice := newEnv(t)

	snap := instantiate(t, env)
	tx := env.LastTransaction()
	jtx.RequireCommitSuccess(t, env, tx.IntentHash)
	require.Len(t, tx.Referenced, 2)

	assert.Equal(t, tx.Referenced[0], snap.ComponentAddress)
	assert.Equal(t, tx.Referenced[1], snap.AdminBadgeAddress)
	require.NotNil(t, snap.AdminAccount)
	assert.Equal(t, alice.Address, snap.AdminAccount.Address)
	jtx.RequireBalance(t, env, alice, snap.AdminBadgeAddress, "1")
}

func TestInstantiateSelectsAccount(t *testing.T) {
	env, _ := newEnv(t)
	bob := jtx.NewAccount("bob")
	env.Connect(bob)

	out, err := run(t, env, "instantiate", "--account", bob.Address)
	require.NoError(t, err)
	var snap oracle.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, bob.Address, snap.AdminAccount.Address)

	_, err = run(t, env, "instantiate", "--account-index", "5")
	require.Error(t, err)
	assert.Len(t, env.Submitted(), 1)
}

func TestPriceCommands(t *testing.T) {
	env, _ := newEnv(t)
	snap := instantiate(t, env)
	usd := env.CreateResource("USD")
	attach := []string{"--component", snap.ComponentAddress, "--admin-badge", snap.AdminBadgeAddress}

	out, err := run(t, env, append([]string{"price", "get", "--quote", usd}, attach...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"base": "`+env.XRDAddress()+`",
		"quote": "`+usd+`",
		"price": null,
		"message": "`+oracle.NoPriceMessage+`"
	}`, out)

	out, err = run(t, env, append([]string{"price", "update", "0.04", "--quote", usd}, attach...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base": "`+env.XRDAddress()+`", "quote": "`+usd+`", "price": "0.04"}`, out)
	jtx.RequirePrice(t, env, snap.ComponentAddress, env.XRDAddress(), usd, "0.04")

	out, err = run(t, env, append([]string{"price", "get", "--base", usd, "--quote", env.XRDAddress()}, attach...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"base": "`+usd+`", "quote": "`+env.XRDAddress()+`", "price": "25"}`, out)
}

func TestPriceRequiresOracle(t *testing.T) {
	env, _ := newEnv(t)

	_, err := run(t, env, "price", "get")
	assert.ErrorIs(t, err, oracle.ErrNotInstantiated)

	_, err = run(t, env, "price", "update", "1")
	assert.ErrorIs(t, err, oracle.ErrNotInstantiated)
	assert.Empty(t, env.Submitted())
}

func TestPriceFlagValidation(t *testing.T) {
	env, _ := newEnv(t)
	snap := instantiate(t, env)
	submitted := len(env.Submitted())

	tests := []struct {
		name string
		args []string
	}{
		{name: "component without badge", args: []string{"price", "get", "--component", snap.ComponentAddress}},
		{name: "badge without component", args: []string{"price", "get", "--admin-badge", snap.AdminBadgeAddress}},
		{name: "badge is not a resource", args: []string{"price", "get", "--component", snap.ComponentAddress, "--admin-badge", snap.ComponentAddress}},
		{name: "unparsable price", args: []string{"price", "update", "abc"}},
		{name: "missing price", args: []string{"price", "update"}},
		{name: "zero price", args: []string{"price", "update", "0", "--component", snap.ComponentAddress, "--admin-badge", snap.AdminBadgeAddress}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, env, tt.args...)
			require.Error(t, err)
		})
	}
	assert.Len(t, env.Submitted(), submitted)
}

func TestAccountsCommand(t *testing.T) {
	env, alice := newEnv(t)

	out, err := run(t, env, "accounts", "--persona")
	require.NoError(t, err)

	var got struct {
		Accounts []struct {
			Address string `json:"address"`
			Label   string `json:"label"`
		} `json:"accounts"`
		Persona struct {
			Label string `json:"label"`
		} `json:"persona"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Accounts, 1)
	assert.Equal(t, alice.Address, got.Accounts[0].Address)
	assert.Equal(t, "Oracle Operator", got.Persona.Label)

	env.Disconnect()
	_, err = run(t, env, "accounts")
	assert.ErrorIs(t, err, oracle.ErrNotConnected)
}

func TestHealthEndpoint(t *testing.T) {
	env, _ := newEnv(t)
	a := &app{overrides: collaborators{wallet: env, gateway: env}}
	require.NoError(t, a.initConfig(&bytes.Buffer{}))
	svc, err := a.newService()
	require.NoError(t, err)

	srv := httptest.NewServer(newMux(rpc.NewServer(svc, rpc.Options{})))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServeStopsOnCancel(t *testing.T) {
	env, _ := newEnv(t)
	a := &app{overrides: collaborators{wallet: env, gateway: env}}
	require.NoError(t, a.initConfig(&bytes.Buffer{}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, http.NotFoundHandler(), a)
	}()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestInitConfigRoundTrip(t *testing.T) {
	env, _ := newEnv(t)

	out, err := run(t, env, "init-config")
	require.NoError(t, err)
	assert.Contains(t, out, "oracle.toml")

	_, err = run(t, env, "init-config")
	require.Error(t, err)
	_, err = run(t, env, "init-config", "--force")
	require.NoError(t, err)

	// The written defaults are picked up from the working directory.
	snap := instantiate(t, env)
	assert.NotEmpty(t, snap.ComponentAddress)
}
