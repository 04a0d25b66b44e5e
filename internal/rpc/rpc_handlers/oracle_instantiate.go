package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

// OracleInstantiateMethod handles the oracle_instantiate RPC method
type OracleInstantiateMethod struct {
	Service *oracle.Service
}

// OracleInstantiateParams picks the admin account by address or, when the
// address is empty, by appearance id.
type OracleInstantiateParams struct {
	Account      string `json:"account,omitempty"`
	AccountIndex int    `json:"account_index,omitempty"`
}

func (m *OracleInstantiateMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request OracleInstantiateParams
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}

	accounts, err := m.Service.Accounts(ctx.Context)
	if err != nil {
		return nil, rpc_types.RpcErrorFromOracle(err)
	}
	account, err := wallet.FindAccount(accounts, request.Account, request.AccountIndex)
	if err != nil {
		return nil, rpc_types.RpcErrorFromOracle(err)
	}

	snap, err := m.Service.Instantiate(ctx.Context, account)
	if err != nil {
		return nil, rpc_types.RpcErrorFromOracle(err)
	}

	return map[string]interface{}{
		"component_address":   snap.ComponentAddress,
		"admin_badge_address": snap.AdminBadgeAddress,
		"admin_account":       snap.AdminAccount,
	}, nil
}

func (m *OracleInstantiateMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleAdmin
}

func (m *OracleInstantiateMethod) SupportedApiVersions() []int {
	return allApiVersions
}
