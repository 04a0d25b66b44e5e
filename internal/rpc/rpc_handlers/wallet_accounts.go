package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
)

// WalletAccountsMethod handles the wallet_accounts RPC method
type WalletAccountsMethod struct {
	Service *oracle.Service
}

func (m *WalletAccountsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	accounts, err := m.Service.Accounts(ctx.Context)
	if err != nil {
		return nil, rpc_types.RpcErrorFromOracle(err)
	}
	return map[string]interface{}{
		"accounts": accounts,
	}, nil
}

func (m *WalletAccountsMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *WalletAccountsMethod) SupportedApiVersions() []int {
	return allApiVersions
}
