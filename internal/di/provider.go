package di

import (
	"log/slog"

	"github.com/LeJamon/goRadixOracle/internal/config"
	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc"
	"github.com/LeJamon/goRadixOracle/internal/tracker"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config
	logger    *slog.Logger
}

// NewProvider creates a new service provider. A nil logger uses
// slog.Default().
func NewProvider(container *Container, cfg *config.Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		container: container,
		config:    cfg,
		logger:    logger,
	}
}

// RegisterAll registers all services. Instances registered on the
// container beforehand replace the matching builders.
func (p *Provider) RegisterAll() error {
	p.container.Register(ServiceConfig, p.config)
	p.container.Register(ServiceLogger, p.logger)

	// Register builders for lazy instantiation
	p.registerCollaboratorBuilders()
	p.registerOracleBuilders()
	p.registerRPCBuilders()

	return nil
}

// registerCollaboratorBuilders registers the wallet bridge and gateway
// clients.
func (p *Provider) registerCollaboratorBuilders() {
	p.container.RegisterBuilder(ServiceWallet, func(c *Container) (interface{}, error) {
		return wallet.NewBridge(p.config.Wallet.BridgeURL,
			wallet.WithBridgeTimeout(p.config.Wallet.Timeout),
			wallet.WithBridgeLogger(p.logger),
		), nil
	})

	p.container.RegisterBuilder(ServiceGateway, func(c *Container) (interface{}, error) {
		return gateway.NewClient(p.config.Gateway.URL,
			gateway.WithTimeout(p.config.Gateway.Timeout),
			gateway.WithRateLimit(p.config.Gateway.RateLimit, p.config.Gateway.Burst),
			gateway.WithCacheSize(p.config.Gateway.CacheSize),
			gateway.WithLogger(p.logger),
		)
	})
}

// registerOracleBuilders registers the tracker, session and oracle service.
func (p *Provider) registerOracleBuilders() {
	p.container.RegisterBuilder(ServiceTracker, func(c *Container) (interface{}, error) {
		gw, err := Resolve[oracle.Gateway](c, ServiceGateway)
		if err != nil {
			return nil, err
		}
		return tracker.New(gw, p.config.TrackerConfig(), p.logger), nil
	})

	p.container.RegisterBuilder(ServiceSession, func(c *Container) (interface{}, error) {
		return oracle.NewSession(), nil
	})

	p.container.RegisterBuilder(ServiceOracle, func(c *Container) (interface{}, error) {
		cfg, err := p.config.ServiceConfig()
		if err != nil {
			return nil, err
		}
		w, err := Resolve[wallet.Connector](c, ServiceWallet)
		if err != nil {
			return nil, err
		}
		gw, err := Resolve[oracle.Gateway](c, ServiceGateway)
		if err != nil {
			return nil, err
		}
		tr, err := Resolve[*tracker.Tracker](c, ServiceTracker)
		if err != nil {
			return nil, err
		}
		session, err := Resolve[*oracle.Session](c, ServiceSession)
		if err != nil {
			return nil, err
		}
		return oracle.NewService(cfg, w, gw, tr, session, p.logger), nil
	})
}

// registerRPCBuilders registers the JSON-RPC server.
func (p *Provider) registerRPCBuilders() {
	p.container.RegisterBuilder(ServiceRPC, func(c *Container) (interface{}, error) {
		svc, err := Resolve[*oracle.Service](c, ServiceOracle)
		if err != nil {
			return nil, err
		}
		return rpc.NewServer(svc, rpc.Options{
			Network: p.config.Network.Name,
			Timeout: p.config.Tracking.Timeout + p.config.Wallet.Timeout,
			IsAdmin: p.config.RPC.IsAdmin,
			Logger:  p.logger,
		}), nil
	})
}

// GetOracleService returns the oracle service from the container.
func (p *Provider) GetOracleService() (*oracle.Service, error) {
	return Resolve[*oracle.Service](p.container, ServiceOracle)
}

// GetRPCServer returns the JSON-RPC server from the container.
func (p *Provider) GetRPCServer() (*rpc.Server, error) {
	return Resolve[*rpc.Server](p.container, ServiceRPC)
}

// GetConfig returns the configuration from the container.
func (p *Provider) GetConfig() *config.Config {
	return p.config
}
