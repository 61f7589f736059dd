package inject

import (
	"reflect"
)

// Provider declares how a container builds the value for a token.
//
// Exactly one construction strategy may be set. When none of UseClass,
// UseExisting and UseFactory is set the provider returns UseValue.
// Providers are usually built with Value, Class, Existing and Factory.
type Provider struct {
	// Provide is the token this provider is registered for.
	Provide any

	// UseValue is returned as-is.
	UseValue any

	// UseClass is built by the resolver's Introspector.
	UseClass reflect.Type

	// UseExisting aliases another token.
	UseExisting any

	// UseFactory is called with the resolved dependencies. It may be a
	// FactoryFunc or any Go function returning a value and an optional error.
	UseFactory any

	// Deps lists the factory's dependency tokens. When nil the dependencies
	// are taken from the Introspector.
	Deps []any

	// Multi contributes to a list of values instead of a single value.
	Multi bool
}

// ProviderOption configures a Provider built by one of the helpers.
type ProviderOption interface {
	applyProviderOption(*Provider)
}

type providerOptionFunc func(*Provider)

func (f providerOptionFunc) applyProviderOption(p *Provider) {
	f(p)
}

// AsMulti marks the provider as one contribution to a multi-provider.
func AsMulti() ProviderOption {
	return providerOptionFunc(func(p *Provider) {
		p.Multi = true
	})
}

// WithDeps sets the factory's dependency tokens explicitly.
func WithDeps(tokens ...any) ProviderOption {
	return providerOptionFunc(func(p *Provider) {
		p.Deps = append([]any{}, tokens...)
	})
}

// Value provides a constant.
//
// Example:
//
//	inject.Value(inject.TypeOf[*Config](), &Config{Debug: true})
func Value(token, value any, opts ...ProviderOption) Provider {
	return newProvider(Provider{Provide: token, UseValue: value}, opts)
}

// Class provides an instance of class built by the Introspector.
//
// Example:
//
//	inject.Class(inject.TypeOf[Engine](), inject.TypeOf[*TurboEngine]())
func Class(token any, class reflect.Type, opts ...ProviderOption) Provider {
	return newProvider(Provider{Provide: token, UseClass: class}, opts)
}

// Existing aliases token to the value of another token.
func Existing(token, existing any, opts ...ProviderOption) Provider {
	return newProvider(Provider{Provide: token, UseExisting: existing}, opts)
}

// Factory provides the result of calling factory.
//
// Example:
//
//	inject.Factory(inject.TypeOf[*Car](), func(e *Engine) *Car {
//	    return &Car{Engine: e}
//	})
func Factory(token, factory any, opts ...ProviderOption) Provider {
	return newProvider(Provider{Provide: token, UseFactory: factory}, opts)
}

func newProvider(p Provider, opts []ProviderOption) Provider {
	for _, opt := range opts {
		if opt != nil {
			opt.applyProviderOption(&p)
		}
	}
	return p
}

// strategies counts how many construction strategies are set.
func (p *Provider) strategies() int {
	n := 0
	if p.UseClass != nil {
		n++
	}
	if p.UseExisting != nil {
		n++
	}
	if p.UseFactory != nil {
		n++
	}
	if p.UseValue != nil {
		n++
	}
	return n
}

func (p *Provider) validate() error {
	if p.Provide == nil {
		return &InvalidProviderError{Value: *p, Reason: "provide token must be set"}
	}

	if p.strategies() > 1 {
		return &InvalidProviderError{Value: *p, Reason: "only one of UseValue, UseClass, UseExisting and UseFactory may be set"}
	}

	return nil
}

// normalizeProviders flattens nested declarations and modules depth-first,
// expanding a bare reflect.Type to a class provider for itself.
func normalizeProviders(providers []any, res []Provider) ([]Provider, error) {
	for _, decl := range providers {
		var err error
		res, err = normalizeProvider(decl, res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func normalizeProvider(decl any, res []Provider) ([]Provider, error) {
	switch p := decl.(type) {
	case reflect.Type:
		if p == nil {
			return nil, &InvalidProviderError{Value: decl, Reason: "type cannot be nil"}
		}
		return append(res, Provider{Provide: p, UseClass: p}), nil
	case Provider:
		if err := p.validate(); err != nil {
			return nil, err
		}
		return append(res, p), nil
	case *Provider:
		if p == nil {
			return nil, &InvalidProviderError{Value: decl, Reason: "provider cannot be nil"}
		}
		if err := p.validate(); err != nil {
			return nil, err
		}
		return append(res, *p), nil
	case Module:
		return normalizeModule(p, res)
	case *Module:
		if p == nil {
			return nil, &InvalidProviderError{Value: decl, Reason: "module cannot be nil"}
		}
		return normalizeModule(*p, res)
	case []any:
		return normalizeProviders(p, res)
	}

	v := reflect.ValueOf(decl)
	if v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
		for i := 0; i < v.Len(); i++ {
			var err error
			res, err = normalizeProvider(v.Index(i).Interface(), res)
			if err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	return nil, &InvalidProviderError{Value: decl, Reason: "only Provider values, reflect.Type, modules and slices of them are allowed"}
}
