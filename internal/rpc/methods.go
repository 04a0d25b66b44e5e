package rpc

import (
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_handlers"
)

// registerAllMethods registers every RPC method against svc
func (s *Server) registerAllMethods(svc *oracle.Service, network string) {
	// Oracle Methods
	s.registry.Register("oracle_info", &rpc_handlers.OracleInfoMethod{Service: svc, Network: network})
	s.registry.Register("oracle_instantiate", &rpc_handlers.OracleInstantiateMethod{Service: svc})
	s.registry.Register("oracle_get_price", &rpc_handlers.OracleGetPriceMethod{Service: svc})
	s.registry.Register("oracle_update_price", &rpc_handlers.OracleUpdatePriceMethod{Service: svc})

	// Wallet Methods
	s.registry.Register("wallet_accounts", &rpc_handlers.WalletAccountsMethod{Service: svc})
	s.registry.Register("wallet_persona", &rpc_handlers.WalletPersonaMethod{Service: svc})
}
