package inject

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/junioryono/inject/internal/reflection"
)

// Resolver turns provider declarations into containers. It bundles the key
// registry, the Introspector and the ambient logging and hooks shared by
// every container it creates. A Resolver is safe for concurrent use.
type Resolver struct {
	keys         *KeyRegistry
	introspector Introspector
	analyzer     *reflection.Analyzer
	logger       *zap.Logger
	hooks        Hooks
}

// NewResolver creates a Resolver with its own key registry and the
// reflection Introspector unless overridden by options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		keys:   NewKeyRegistry(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt.apply(r)
		}
	}

	if r.introspector == nil {
		r.introspector = NewReflectionIntrospector()
	}
	r.analyzer = reflection.New()

	return r
}

// Keys returns the resolver's key registry.
func (r *Resolver) Keys() *KeyRegistry {
	return r.keys
}

// Resolve normalizes, extracts and merges provider declarations into one
// ResolvedProvider per key, in order of first declaration.
//
// Declarations may be Provider, *Provider, reflect.Type (class shorthand),
// Module or arbitrarily nested slices of these.
func (r *Resolver) Resolve(providers ...any) ([]*ResolvedProvider, error) {
	normalized, err := normalizeProviders(providers, nil)
	if err != nil {
		return nil, err
	}

	resolved := make([]*ResolvedProvider, 0, len(normalized))
	for _, p := range normalized {
		rp, err := r.resolveProvider(p)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, rp)
	}

	merged, err := mergeProviders(resolved)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("resolved providers",
		zap.Int("declarations", len(normalized)),
		zap.Int("keys", len(merged)),
	)

	return merged, nil
}

// ResolveAndCreate resolves providers into a new root container.
//
// Example:
//
//	c, err := resolver.ResolveAndCreate(
//	    inject.TypeOf[*Engine](),
//	    inject.TypeOf[*Car](),
//	)
func (r *Resolver) ResolveAndCreate(providers ...any) (*Container, error) {
	return r.ResolveAndCreateChild(nil, providers...)
}

// ResolveAndCreateChild resolves providers into a new container whose
// lookups fall back to parent. parent may be nil.
func (r *Resolver) ResolveAndCreateChild(parent Injector, providers ...any) (*Container, error) {
	resolved, err := r.Resolve(providers...)
	if err != nil {
		return nil, err
	}
	return r.FromResolvedProviders(resolved, parent)
}

// FromResolvedProviders binds already resolved providers to a new container,
// so one resolved set can back many containers without re-running
// extraction. The slice is not retained.
func (r *Resolver) FromResolvedProviders(resolved []*ResolvedProvider, parent Injector) (*Container, error) {
	providers, err := r.adopt(resolved)
	if err != nil {
		return nil, err
	}

	c := &Container{
		id:        uuid.NewString(),
		resolver:  r,
		parent:    parent,
		order:     providers,
		providers: make(map[int]*ResolvedProvider, len(providers)),
		cache:     newInstanceCache(),
		flight:    &singleflight.Group{},
	}

	for _, rp := range providers {
		if _, exists := c.providers[rp.Key.ID]; exists {
			return nil, &InvalidProviderError{Value: rp, Reason: fmt.Sprintf("duplicate resolved provider for %s", rp.Key.DisplayName())}
		}
		c.providers[rp.Key.ID] = rp
	}

	if c.graph, err = buildGraph(r, providers); err != nil {
		r.logger.Warn("container rejected",
			zap.String("container", c.id),
			zap.Error(err),
		)
		return nil, err
	}

	fields := []zap.Field{
		zap.String("container", c.id),
		zap.Int("providers", len(providers)),
	}
	if pc, ok := parent.(*Container); ok {
		fields = append(fields, zap.String("parent", pc.id))
	} else if parent != nil {
		fields = append(fields, zap.String("parent", fmt.Sprintf("%T", parent)))
	}
	r.logger.Debug("container created", fields...)

	return c, nil
}

// adopt validates resolved providers and maps keys minted by another
// registry onto this resolver's registry.
func (r *Resolver) adopt(resolved []*ResolvedProvider) ([]*ResolvedProvider, error) {
	providers := make([]*ResolvedProvider, 0, len(resolved))

	for _, rp := range resolved {
		if rp == nil || rp.Key == nil {
			return nil, &InvalidProviderError{Value: rp, Reason: "resolved provider must have a key"}
		}
		if !rp.Multi && len(rp.Factories) != 1 {
			return nil, &InvalidProviderError{Value: rp, Reason: "a single provider must have exactly one factory"}
		}

		if rp.Key.owner == r.keys && r.ownsDependencies(rp) {
			providers = append(providers, rp)
			continue
		}

		rekeyed, err := r.rekeyProvider(rp)
		if err != nil {
			return nil, err
		}
		providers = append(providers, rekeyed)
	}

	return providers, nil
}

func (r *Resolver) ownsDependencies(rp *ResolvedProvider) bool {
	for _, f := range rp.Factories {
		for _, dep := range f.Dependencies {
			if dep.Key.owner != r.keys {
				return false
			}
		}
	}
	return true
}

func (r *Resolver) rekeyProvider(rp *ResolvedProvider) (*ResolvedProvider, error) {
	key, err := r.keys.Get(rp.Key)
	if err != nil {
		return nil, err
	}

	factories := make([]*ResolvedFactory, len(rp.Factories))
	for i, f := range rp.Factories {
		deps := make([]*Dependency, len(f.Dependencies))
		for j, dep := range f.Dependencies {
			depKey, err := r.keys.Get(dep.Key)
			if err != nil {
				return nil, err
			}
			deps[j] = &Dependency{Key: depKey, Optional: dep.Optional, Visibility: dep.Visibility}
		}
		factories[i] = &ResolvedFactory{Factory: f.Factory, Dependencies: deps}
	}

	return &ResolvedProvider{Key: key, Factories: factories, Multi: rp.Multi}, nil
}
