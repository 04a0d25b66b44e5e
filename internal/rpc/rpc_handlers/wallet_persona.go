package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
)

// WalletPersonaMethod handles the wallet_persona RPC method
type WalletPersonaMethod struct {
	Service *oracle.Service
}

func (m *WalletPersonaMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	persona, err := m.Service.Persona(ctx.Context)
	if err != nil {
		return nil, rpc_types.RpcErrorFromOracle(err)
	}
	return map[string]interface{}{
		"persona": persona,
	}, nil
}

func (m *WalletPersonaMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *WalletPersonaMethod) SupportedApiVersions() []int {
	return allApiVersions
}
