// Package di provides a small service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves registered services.
type ServiceRegistry interface {
	Get(key string) any
}

// Container registers services and lazily built factories.
type Container interface {
	ServiceRegistry
	Register(key string, value any)
	RegisterFactory(key string, factory func(ServiceRegistry) any)
}

// Token identifies a service of type T.
type Token[T any] struct {
	key string
}

// NewToken creates a typed token for key.
func NewToken[T any](key string) Token[T] {
	return Token[T]{key: key}
}

// Key returns the registry key.
func (t Token[T]) Key() string {
	return t.key
}

// RegisterToken registers a lazily built singleton for the token.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.key, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the service for the token. It panics when the service is
// missing or has the wrong type, both of which are wiring bugs.
func GetToken[T any](r ServiceRegistry, token Token[T]) T {
	v := r.Get(token.key)
	if v == nil {
		panic(fmt.Sprintf("di: service %q not registered", token.key))
	}
	svc, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has type %T", token.key, v))
	}
	return svc
}

type container struct {
	mu        sync.Mutex
	services  map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services:  make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[key] = value
}

func (c *container) RegisterFactory(key string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[key] = factory
}

// Get returns the service for key, building it on first use.
func (c *container) Get(key string) any {
	c.mu.Lock()
	if v, ok := c.services[key]; ok {
		c.mu.Unlock()
		return v
	}
	factory, ok := c.factories[key]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	// Build outside the lock: factories resolve their own dependencies.
	v := factory(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.services[key]; ok {
		return existing
	}
	c.services[key] = v
	return v
}
