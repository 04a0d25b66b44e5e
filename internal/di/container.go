// Package di wires the oraclectl services from configuration.
package di

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Container is the dependency injection container.
// It manages service registration and resolution.
type Container struct {
	mu       sync.RWMutex
	services map[string]interface{}
	builders map[string]Builder
	group    singleflight.Group
}

// Builder is a function that creates a service instance. Builders may
// resolve other services from c.
type Builder func(c *Container) (interface{}, error)

// New creates a new dependency injection container.
func New() *Container {
	return &Container{
		services: make(map[string]interface{}),
		builders: make(map[string]Builder),
	}
}

// Register registers a service instance. A registered instance takes
// precedence over a builder of the same name.
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// RegisterBuilder registers a builder function for lazy instantiation.
func (c *Container) RegisterBuilder(name string, builder Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builders[name] = builder
}

// Get retrieves a service by name, building it on first use. Concurrent
// first uses share one build.
func (c *Container) Get(name string) (interface{}, error) {
	c.mu.RLock()
	service, exists := c.services[name]
	builder, hasBuilder := c.builders[name]
	c.mu.RUnlock()

	if exists {
		return service, nil
	}
	if !hasBuilder {
		return nil, fmt.Errorf("service not found: %s", name)
	}

	// The builder runs without the lock held so it can resolve its own
	// dependencies.
	v, err, _ := c.group.Do(name, func() (interface{}, error) {
		c.mu.RLock()
		service, exists := c.services[name]
		c.mu.RUnlock()
		if exists {
			return service, nil
		}

		service, err := builder(c)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", name, err)
		}

		c.mu.Lock()
		c.services[name] = service
		c.mu.Unlock()
		return service, nil
	})
	return v, err
}

// MustGet retrieves a service or panics if not found.
func (c *Container) MustGet(name string) interface{} {
	service, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return service
}

// Has checks if a service is registered.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.services[name]
	if exists {
		return true
	}
	_, exists = c.builders[name]
	return exists
}

// ServiceNames returns all registered service names in sorted order.
func (c *Container) ServiceNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make(map[string]bool)
	for name := range c.services {
		names[name] = true
	}
	for name := range c.builders {
		names[name] = true
	}

	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Resolve retrieves a service and asserts its type.
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	service, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := service.(T)
	if !ok {
		return zero, fmt.Errorf("service %s has type %T, want %T", name, service, zero)
	}
	return typed, nil
}

// Service names constants for type-safe access.
const (
	ServiceConfig  = "config"
	ServiceLogger  = "logger"
	ServiceWallet  = "wallet"
	ServiceGateway = "gateway"
	ServiceTracker = "tracker"
	ServiceSession = "oracle.session"
	ServiceOracle  = "oracle.service"
	ServiceRPC     = "rpc.server"
)
