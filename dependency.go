package inject

import (
	"fmt"
)

// Dependency describes one argument of a constructor or factory.
type Dependency struct {
	Key        *Key
	Optional   bool
	Visibility Visibility
}

// String implements fmt.Stringer.
func (d *Dependency) String() string {
	s := d.Key.DisplayName()
	if d.Optional {
		s += " (optional)"
	}
	if d.Visibility != VisibilityDefault {
		s += " (" + d.Visibility.String() + ")"
	}
	return s
}

// ResolvedFactory is a construction function plus its ordered dependencies.
type ResolvedFactory struct {
	Factory      FactoryFunc
	Dependencies []*Dependency
}

// resolveFactory turns a canonical provider into a ResolvedFactory.
func (r *Resolver) resolveFactory(p Provider) (*ResolvedFactory, error) {
	switch {
	case p.UseClass != nil:
		factory, err := r.introspector.Factory(p.UseClass)
		if err != nil {
			return nil, err
		}
		deps, err := r.dependenciesFor(p.UseClass)
		if err != nil {
			return nil, err
		}
		return &ResolvedFactory{Factory: factory, Dependencies: deps}, nil

	case p.UseExisting != nil:
		key, err := r.keys.Get(p.UseExisting)
		if err != nil {
			return nil, err
		}
		return &ResolvedFactory{
			Factory:      func(args ...any) (any, error) { return args[0], nil },
			Dependencies: []*Dependency{{Key: key}},
		}, nil

	case p.UseFactory != nil:
		factory, err := funcFactory(r.analyzer, p.UseFactory)
		if err != nil {
			return nil, &InvalidProviderError{Value: p, Reason: err.Error()}
		}
		deps, err := r.constructDependencies(p)
		if err != nil {
			return nil, err
		}
		return &ResolvedFactory{Factory: factory, Dependencies: deps}, nil

	default:
		value := p.UseValue
		return &ResolvedFactory{
			Factory: func(...any) (any, error) { return value, nil },
		}, nil
	}
}

// constructDependencies uses the explicit Deps list when present, otherwise
// asks the Introspector about the factory function itself.
func (r *Resolver) constructDependencies(p Provider) ([]*Dependency, error) {
	if p.Deps == nil {
		if _, ok := p.UseFactory.(FactoryFunc); ok {
			return nil, nil
		}
		if _, ok := p.UseFactory.(func(...any) (any, error)); ok {
			return nil, nil
		}
		return r.dependenciesFor(p.UseFactory)
	}

	deps := make([]*Dependency, len(p.Deps))
	for i, token := range p.Deps {
		switch a := token.(type) {
		case injectAnnotation:
			token = a.token
		case Annotation:
			return nil, &InvalidProviderError{Value: p, Reason: fmt.Sprintf("deps entry %d must be a token, got %s", i, a)}
		}

		key, err := r.keys.Get(token)
		if err != nil {
			return nil, err
		}
		deps[i] = &Dependency{Key: key}
	}
	return deps, nil
}

// dependenciesFor extracts one Dependency per introspected parameter.
func (r *Resolver) dependenciesFor(subject any) ([]*Dependency, error) {
	params, err := r.introspector.Parameters(subject)
	if err != nil {
		return nil, err
	}

	for _, param := range params {
		if len(param) == 0 {
			return nil, noAnnotationError(subject, params)
		}
	}

	deps := make([]*Dependency, len(params))
	for i, param := range params {
		dep, err := r.extractToken(subject, param, params)
		if err != nil {
			return nil, err
		}
		deps[i] = dep
	}
	return deps, nil
}

// extractToken scans annotations in order; later tokens and visibility
// modifiers override earlier ones.
func (r *Resolver) extractToken(owner any, param Parameter, params []Parameter) (*Dependency, error) {
	var token any
	optional := false
	visibility := VisibilityDefault

	for _, a := range param {
		switch a := a.(type) {
		case tokenAnnotation:
			token = a.token
		case injectAnnotation:
			token = a.token
		case optionalAnnotation:
			optional = true
		case selfAnnotation:
			visibility = VisibilitySelf
		case skipSelfAnnotation:
			visibility = VisibilitySkipSelf
		}
	}

	if token == nil {
		return nil, noAnnotationError(owner, params)
	}

	key, err := r.keys.Get(token)
	if err != nil {
		return nil, err
	}

	return &Dependency{Key: key, Optional: optional, Visibility: visibility}, nil
}

func noAnnotationError(owner any, params []Parameter) error {
	signature := make([]string, len(params))
	for i, p := range params {
		signature[i] = p.String()
	}

	return &NoAnnotationError{Owner: formatSubject(owner), Signature: signature}
}
