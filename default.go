package inject

import (
	"sync/atomic"
)

// defaultResolver holds the Resolver used by the package-level functions.
var defaultResolver atomic.Pointer[Resolver]

func init() {
	defaultResolver.Store(NewResolver())
}

// SetDefault sets the Resolver used by the package-level functions.
// This is similar to slog.SetDefault. Containers already created keep the
// resolver they were created with.
func SetDefault(r *Resolver) error {
	if r == nil {
		return ErrResolverNil
	}
	defaultResolver.Store(r)
	return nil
}

// Default returns the Resolver used by the package-level functions. Its
// key registry is shared by every container created through them.
func Default() *Resolver {
	return defaultResolver.Load()
}

// Resolve resolves providers with the default Resolver.
func Resolve(providers ...any) ([]*ResolvedProvider, error) {
	return Default().Resolve(providers...)
}

// ResolveAndCreate creates a root container with the default Resolver.
func ResolveAndCreate(providers ...any) (*Container, error) {
	return Default().ResolveAndCreate(providers...)
}

// ResolveAndCreateChild creates a child of parent with the default Resolver.
func ResolveAndCreateChild(parent Injector, providers ...any) (*Container, error) {
	return Default().ResolveAndCreateChild(parent, providers...)
}

// FromResolvedProviders binds resolved providers with the default Resolver.
func FromResolvedProviders(resolved []*ResolvedProvider, parent Injector) (*Container, error) {
	return Default().FromResolvedProviders(resolved, parent)
}
