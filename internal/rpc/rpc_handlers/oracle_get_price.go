package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
)

// OracleGetPriceMethod handles the oracle_get_price RPC method
type OracleGetPriceMethod struct {
	Service *oracle.Service
}

func (m *OracleGetPriceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request PriceQueryParams
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}

	result, err := m.Service.GetPrice(ctx.Context, request.query())
	if err != nil {
		return nil, rpc_types.RpcErrorFromOracle(err)
	}

	// The service resolved the defaults; report the pair that was read.
	q := request.query().WithDefaults(m.Service.Config().XRDAddress, m.Service.Session().Snapshot())
	return priceResponse(q, result), nil
}

func (m *OracleGetPriceMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleGuest
}

func (m *OracleGetPriceMethod) SupportedApiVersions() []int {
	return allApiVersions
}
