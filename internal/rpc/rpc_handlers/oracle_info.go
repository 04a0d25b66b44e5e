package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
)

// OracleInfoMethod handles the oracle_info RPC method. It reports the
// session state and which actions are enabled for the given pair.
type OracleInfoMethod struct {
	Service *oracle.Service
	Network string
}

func (m *OracleInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request PriceQueryParams
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}

	snap := m.Service.Session().Snapshot()
	cfg := m.Service.Config()

	response := map[string]interface{}{
		"network":         m.Network,
		"state":           snap.State().String(),
		"package_address": cfg.Composer.PackageAddress,
		"xrd_address":     cfg.XRDAddress,
		"actions":         m.Service.Actions(ctx.Context, request.query()),
	}
	if snap.State() == oracle.Instantiated {
		response["component_address"] = snap.ComponentAddress
		response["admin_badge_address"] = snap.AdminBadgeAddress
		response["admin_account"] = snap.AdminAccount
	}
	if snap.LastPrice != nil {
		response["last_price"] = snap.LastPrice
	}
	return response, nil
}

func (m *OracleInfoMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *OracleInfoMethod) SupportedApiVersions() []int {
	return allApiVersions
}
