// Package inject provides a hierarchical, reflection-driven dependency
// injector for Go applications.
//
// # Overview
//
// Providers declare how to build the value for a token. A Resolver turns
// provider declarations into ResolvedProviders and binds them to a Container.
// Containers build each value at most once and fall back to their parent for
// tokens they do not provide themselves. The library provides:
//   - Value, class, alias and factory providers
//   - Multi-providers that collect contributions into an ordered list
//   - Child containers with Self and SkipSelf visibility modifiers
//   - Optional dependencies
//   - Cycle detection when a container is created and while it resolves
//   - Struct tag or table based constructor descriptions
//   - Thread-safe operations
//
// # Basic Usage
//
// Declare providers, create a container and resolve:
//
//	type Car struct {
//	    Engine *Engine `inject:""`
//	}
//
//	c, err := inject.ResolveAndCreate(
//	    inject.TypeOf[*Engine](),
//	    inject.TypeOf[*Car](),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	car, err := inject.GetType[*Car](c)
//
// # Tokens
//
// A token identifies a dependency. Types are the usual tokens; strings and
// InjectionToken values name dependencies that have no type of their own:
//
//	var APIURL = inject.NewInjectionToken("api.url")
//
//	c, err := inject.ResolveAndCreate(inject.Value(APIURL, "https://example.com"))
//	url, err := inject.Get[string](c, APIURL)
//
// Every token is mapped to a Key with a dense numeric ID by the resolver's
// KeyRegistry.
//
// # Providers
//
//	inject.Value(token, value)                 // a constant
//	inject.Class(token, inject.TypeOf[*Impl]()) // built from struct tags
//	inject.Existing(alias, token)              // the value of another token
//	inject.Factory(token, fn)                  // the result of calling fn
//
// A bare reflect.Type is shorthand for a class provider for itself.
// Declarations may be nested in slices and Modules; they are flattened in
// order. A later declaration for the same token replaces an earlier one.
//
// # Struct Tags
//
// The reflection Introspector injects exported fields carrying a tag:
//
//	type Service struct {
//	    DB     *Database `inject:""`
//	    Cache  Cache     `inject:"optional"`
//	    Parent *Service  `inject:"skipself"`
//	    Local  *Config   `inject:"self"`
//	    URL    string    `name:"api.url"`
//	}
//
// Types without tags can be described with a Table, and several
// introspectors can be combined with ChainIntrospectors.
//
// # Multi-Providers
//
// Providers marked AsMulti contribute to a list:
//
//	inject.Value("middleware", auth, inject.AsMulti())
//	inject.Value("middleware", logging, inject.AsMulti())
//
//	handlers, err := inject.GetMulti[Middleware](c, "middleware")
//
// Mixing multi and regular providers for one token is an error.
//
// # Hierarchies
//
// A child container resolves its own providers first and then asks its
// ancestors. Instances are cached in the container that provides them, so
// children share their parent's instances:
//
//	child, err := c.CreateChild(inject.TypeOf[*RequestContext]())
//
// A DigInjector mounts a go.uber.org/dig container as an ancestor.
//
// # Thread Safety
//
// Resolvers, key registries and containers are safe for concurrent use.
// Concurrent lookups of the same key build it once.
//
// # Error Handling
//
// inject provides detailed error types for different failure scenarios:
//   - NoProviderError: nothing visible provides a required key
//   - CircularDependencyError: a dependency cycle was detected
//   - InvalidProviderError: a declaration has an unsupported shape
//   - MixedMultiProviderError: multi and regular providers share a token
//   - NoAnnotationError: a constructor parameter has no usable token
//   - ConstructorPanicError: a factory panicked
//
// Each matches its sentinel (ErrNoProvider, ErrCircularDependency, ...) with
// errors.Is. Errors returned by factories are passed through unchanged.
package inject
