package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
)

// OracleUpdatePriceMethod handles the oracle_update_price RPC method
type OracleUpdatePriceMethod struct {
	Service *oracle.Service
}

// OracleUpdatePriceParams carries the new price as a decimal string.
type OracleUpdatePriceParams struct {
	PriceQueryParams
	Price string `json:"price"`
}

func (m *OracleUpdatePriceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request OracleUpdatePriceParams
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	price, rpcErr := parseDecimal("price", request.Price)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := m.Service.UpdatePrice(ctx.Context, request.query(), price); err != nil {
		return nil, rpc_types.RpcErrorFromOracle(err)
	}

	q := request.query().WithDefaults(m.Service.Config().XRDAddress, m.Service.Session().Snapshot())
	return priceResponse(q, oracle.Available(price)), nil
}

func (m *OracleUpdatePriceMethod) RequiredRole() rpc_types.Role {
	return rpc_types.RoleAdmin
}

func (m *OracleUpdatePriceMethod) SupportedApiVersions() []int {
	return allApiVersions
}
