package inject

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Resolver.
type Option interface {
	apply(*Resolver)
}

type optionFunc func(*Resolver)

func (f optionFunc) apply(r *Resolver) {
	f(r)
}

// Hooks are callbacks invoked by containers during resolution. Any of them
// may be nil. They are called synchronously and must be safe for concurrent use.
type Hooks struct {
	// OnResolved is called after a successful top-level Get with the total
	// time spent, including cache hits.
	OnResolved func(key *Key, instance any, duration time.Duration)

	// OnError is called when a top-level Get fails.
	OnError func(key *Key, err error)

	// OnInstantiated is called once per key per container, after the
	// provider's factories ran successfully.
	OnInstantiated func(key *Key, duration time.Duration)
}

// WithKeyRegistry sets the registry keys are minted from. Resolvers that
// share a registry produce interchangeable keys.
func WithKeyRegistry(keys *KeyRegistry) Option {
	return optionFunc(func(r *Resolver) {
		if keys != nil {
			r.keys = keys
		}
	})
}

// WithIntrospector sets the Introspector used for class providers and for
// factories declared without Deps.
func WithIntrospector(introspector Introspector) Option {
	return optionFunc(func(r *Resolver) {
		if introspector != nil {
			r.introspector = introspector
		}
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// WithHooks registers resolution callbacks. Later calls replace earlier ones.
//
// Example:
//
//	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
//	resolver := inject.NewResolver(inject.WithHooks(collector.Hooks()))
func WithHooks(hooks Hooks) Option {
	return optionFunc(func(r *Resolver) {
		r.hooks = hooks
	})
}
