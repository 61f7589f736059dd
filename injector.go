package inject

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/junioryono/inject/internal/graph"
)

// Injector is a scope that can satisfy dependencies. *Container implements
// it; other implementations (such as DigInjector) can act as ancestors of a
// Container.
type Injector interface {
	// Get returns the value for token, searching ancestors. It fails with a
	// NoProviderError when nothing provides token.
	Get(token any) (any, error)

	// GetOr is like Get but returns notFoundValue instead of failing.
	GetOr(token any, notFoundValue any) (any, error)

	// TryGetLocal resolves key in this scope only. found is false when the
	// scope has no provider for key.
	TryGetLocal(ctx context.Context, key *Key) (value any, found bool, err error)

	// Parent returns the enclosing scope, or nil for a root.
	Parent() Injector
}

var (
	injectorType  = TypeOf[Injector]()
	containerType = reflect.TypeOf((*Container)(nil))
)

var _ Injector = (*Container)(nil)

// Container is the runtime object graph built from resolved providers.
//
// Each key is instantiated at most once per container; the instance is
// cached for the container's lifetime. A container never writes to its
// parent. Containers are safe for concurrent use.
type Container struct {
	id       string
	resolver *Resolver
	parent   Injector

	order     []*ResolvedProvider
	providers map[int]*ResolvedProvider
	graph     *graph.DependencyGraph

	cache  *instanceCache
	flight *singleflight.Group

	// call is set on the views handed to factories that depend on the
	// container itself.
	call *factoryCall
}

// factoryCall is the resolution path of one running factory. Lookups made
// through a container bound to it continue that path until the factory
// returns.
type factoryCall struct {
	ctx  context.Context
	done atomic.Bool
}

// bind returns a view of c that shares its providers and cache and resolves
// on call's path.
func (c *Container) bind(call *factoryCall) *Container {
	bound := *c
	bound.call = call
	return &bound
}

// pathContext returns the path lookups through c start from.
func (c *Container) pathContext() context.Context {
	if c.call != nil && !c.call.done.Load() {
		return c.call.ctx
	}
	return context.Background()
}

// ID returns the container's unique identifier.
func (c *Container) ID() string {
	return c.id
}

// Parent implements Injector.
func (c *Container) Parent() Injector {
	return c.parent
}

// Resolver returns the resolver that created the container.
func (c *Container) Resolver() *Resolver {
	return c.resolver
}

// Providers returns the container's resolved providers in declaration order.
func (c *Container) Providers() []*ResolvedProvider {
	return append([]*ResolvedProvider(nil), c.order...)
}

// String implements fmt.Stringer.
func (c *Container) String() string {
	return fmt.Sprintf("Container{id: %s, providers: %d}", c.id, len(c.order))
}

// Get implements Injector.
//
// Example:
//
//	engine, err := c.Get(inject.TypeOf[*Engine]())
func (c *Container) Get(token any) (any, error) {
	return c.get(c.pathContext(), token, nil, false)
}

// GetOr implements Injector.
func (c *Container) GetOr(token any, notFoundValue any) (any, error) {
	return c.get(c.pathContext(), token, notFoundValue, true)
}

// GetAsync is Get wrapped in an already completed Future.
func (c *Container) GetAsync(token any) *Future {
	return completedFuture(c.Get(token))
}

// GetOrAsync is GetOr wrapped in an already completed Future.
func (c *Container) GetOrAsync(token any, notFoundValue any) *Future {
	return completedFuture(c.GetOr(token, notFoundValue))
}

// ResolveAndInstantiate resolves one ad-hoc provider declaration and builds
// it against this container. The result is never cached, so every call
// builds a new instance; its dependencies are still shared.
//
// Example:
//
//	car, err := c.ResolveAndInstantiate(inject.TypeOf[*Car]())
func (c *Container) ResolveAndInstantiate(provider any) (any, error) {
	resolved, err := c.resolver.Resolve(provider)
	if err != nil {
		return nil, err
	}

	if len(resolved) != 1 {
		return nil, &InvalidProviderError{
			Value:  provider,
			Reason: fmt.Sprintf("expected a single provider, got %d", len(resolved)),
		}
	}

	return c.instantiateProvider(c.pathContext(), resolved[0])
}

// CreateChild resolves providers with the container's resolver into a new
// container whose parent is c.
func (c *Container) CreateChild(providers ...any) (*Container, error) {
	return c.resolver.ResolveAndCreateChild(c, providers...)
}

func (c *Container) get(ctx context.Context, token any, notFoundValue any, hasNotFound bool) (any, error) {
	start := time.Now()

	key, err := c.resolver.keys.Get(token)
	if err != nil {
		return nil, err
	}

	value, found, err := c.lookup(ctx, key, VisibilityDefault)
	if err == nil && !found {
		if hasNotFound {
			return notFoundValue, nil
		}
		err = &NoProviderError{Key: key}
	}

	hooks := c.resolver.hooks
	if err != nil {
		c.resolver.logger.Warn("resolution failed",
			zap.String("container", c.id),
			zap.Stringer("key", key),
			zap.Error(err),
		)
		if hooks.OnError != nil {
			hooks.OnError(key, err)
		}
		return nil, err
	}

	if hooks.OnResolved != nil {
		hooks.OnResolved(key, value, time.Since(start))
	}
	return value, nil
}

// isSelfKey reports whether key names the resolving container itself.
func isSelfKey(key *Key) bool {
	return key.Token == injectorType || key.Token == containerType
}

// lookup walks the container chain according to visibility.
func (c *Container) lookup(ctx context.Context, key *Key, visibility Visibility) (any, bool, error) {
	if isSelfKey(key) {
		return c, true, nil
	}

	if visibility == VisibilitySelf {
		return c.TryGetLocal(ctx, key)
	}

	var start Injector = c
	if visibility == VisibilitySkipSelf {
		start = c.parent
	}

	for inj := start; inj != nil; inj = inj.Parent() {
		value, found, err := inj.TryGetLocal(ctx, key)
		if err != nil || found {
			return value, found, err
		}
	}

	return nil, false, nil
}

// TryGetLocal implements Injector. It consults only this container's cache
// and providers; a missing provider is reported as found == false.
func (c *Container) TryGetLocal(ctx context.Context, key *Key) (any, bool, error) {
	key, err := c.resolver.keys.Get(key)
	if err != nil {
		return nil, false, err
	}

	if value, ok := c.cache.get(key.ID); ok {
		return value, true, nil
	}

	provider, ok := c.providers[key.ID]
	if !ok {
		return nil, false, nil
	}

	ctx, err = enterResolution(ctx, c, key)
	if err != nil {
		return nil, false, err
	}

	value, err, _ := c.flight.Do(strconv.Itoa(key.ID), func() (any, error) {
		if value, ok := c.cache.get(key.ID); ok {
			return value, nil
		}

		start := time.Now()
		value, err := c.instantiateProvider(ctx, provider)
		if err != nil {
			return nil, err
		}
		duration := time.Since(start)

		c.resolver.logger.Debug("provider instantiated",
			zap.String("container", c.id),
			zap.Stringer("key", key),
			zap.Bool("multi", provider.Multi),
			zap.Duration("duration", duration),
		)
		if hook := c.resolver.hooks.OnInstantiated; hook != nil {
			hook(key, duration)
		}

		return c.cache.set(key.ID, value), nil
	})
	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

// instantiateProvider builds a provider's value: the single factory's
// result, or the ordered results of every factory of a multi-provider.
func (c *Container) instantiateProvider(ctx context.Context, provider *ResolvedProvider) (any, error) {
	if !provider.Multi {
		return c.instantiateFactory(ctx, provider.Key, provider.Factory())
	}

	values := make([]any, len(provider.Factories))
	for i, factory := range provider.Factories {
		value, err := c.instantiateFactory(ctx, provider.Key, factory)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (c *Container) instantiateFactory(ctx context.Context, key *Key, factory *ResolvedFactory) (any, error) {
	call := &factoryCall{ctx: ctx}
	defer call.done.Store(true)

	args := make([]any, len(factory.Dependencies))
	for i, dep := range factory.Dependencies {
		if isSelfKey(dep.Key) {
			args[i] = c.bind(call)
			continue
		}

		value, err := c.resolveDependency(ctx, dep)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}

	return callFactory(key, factory.Factory, args)
}

func (c *Container) resolveDependency(ctx context.Context, dep *Dependency) (any, error) {
	value, found, err := c.lookup(ctx, dep.Key, dep.Visibility)
	if err != nil {
		return nil, err
	}

	if !found {
		if dep.Optional {
			return nil, nil
		}
		return nil, &NoProviderError{Key: dep.Key}
	}

	return value, nil
}

// callFactory runs a factory, converting a panic into a ConstructorPanicError.
func callFactory(key *Key, factory FactoryFunc, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &ConstructorPanicError{
				Key:   key,
				Panic: r,
				Stack: debug.Stack(),
			}
		}
	}()

	return factory(args...)
}
