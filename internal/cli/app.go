package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/LeJamon/goRadixOracle/internal/di"
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
	"github.com/spf13/cobra"
)

// collaborators replace the bridge and gateway clients built from
// configuration. Tests set them.
type collaborators struct {
	wallet  wallet.Connector
	gateway oracle.Gateway
}

// newProvider registers every service against the loaded configuration.
func (a *app) newProvider() (*di.Provider, error) {
	container := di.New()
	if a.overrides.wallet != nil {
		container.Register(di.ServiceWallet, a.overrides.wallet)
	}
	if a.overrides.gateway != nil {
		container.Register(di.ServiceGateway, a.overrides.gateway)
	}

	provider := di.NewProvider(container, a.cfg, a.logger)
	if err := provider.RegisterAll(); err != nil {
		return nil, err
	}
	return provider, nil
}

// newService wires the oracle service from the loaded configuration.
func (a *app) newService() (*oracle.Service, error) {
	provider, err := a.newProvider()
	if err != nil {
		return nil, err
	}
	return provider.GetOracleService()
}

// attachFlags are the flags that adopt an oracle instantiated by an earlier
// run.
type attachFlags struct {
	component  string
	adminBadge string
	account    string
}

func (f *attachFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.component, "component", "", "oracle component address")
	fs.StringVar(&f.adminBadge, "admin-badge", "", "admin badge resource address")
	fs.StringVar(&f.account, "admin-account", "", "account holding the admin badge (default: first shared account)")
}

// attach adopts the oracle named by the flags. Without --component the
// session stays uninstantiated.
func (f *attachFlags) attach(ctx context.Context, svc *oracle.Service) error {
	if f.component == "" {
		if f.adminBadge != "" {
			return errors.New("--admin-badge requires --component")
		}
		return nil
	}
	if f.adminBadge == "" {
		return errors.New("--component requires --admin-badge")
	}

	account, err := resolveAccount(ctx, svc, f.account, 0)
	if err != nil {
		return err
	}
	return svc.Session().Attach(f.component, f.adminBadge, account)
}

// resolveAccount picks a shared account by address or appearance id.
func resolveAccount(ctx context.Context, svc *oracle.Service, address string, index int) (wallet.Account, error) {
	accounts, err := svc.Accounts(ctx)
	if err != nil {
		return wallet.Account{}, err
	}
	return wallet.FindAccount(accounts, address, index)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
