package inject

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/junioryono/inject/internal/reflection"
)

// FactoryFunc builds an instance from positionally resolved arguments.
type FactoryFunc func(args ...any) (any, error)

// Introspector supplies construction functions and per-parameter annotations
// for constructor-like types. It is the only place where a container learns
// about constructor signatures.
type Introspector interface {
	// Factory returns a function that builds an instance of t from its
	// resolved parameters.
	Factory(t reflect.Type) (FactoryFunc, error)

	// Parameters returns one annotation list per parameter of subject,
	// which is either a reflect.Type or a function value.
	Parameters(subject any) ([]Parameter, error)
}

// reflectionIntrospector derives parameters from struct tags and function
// signatures.
type reflectionIntrospector struct {
	analyzer *reflection.Analyzer
}

// NewReflectionIntrospector returns an Introspector backed by reflection.
//
// Struct types (or pointers to structs) are built by assigning their tagged
// exported fields in declaration order:
//
//	type Car struct {
//	    Engine  *Engine  `inject:""`
//	    Radio   *Radio   `inject:"optional"`
//	    Parent  *Garage  `inject:"skipself"`
//	    Primary *Engine  `name:"primary"` // string token "primary"
//	}
//
// Function subjects contribute one Token annotation per parameter type.
func NewReflectionIntrospector() Introspector {
	return &reflectionIntrospector{analyzer: reflection.New()}
}

func (ri *reflectionIntrospector) Factory(t reflect.Type) (FactoryFunc, error) {
	info, err := ri.analyzer.AnalyzeStruct(t)
	if err != nil {
		return nil, introspectionError(t, err)
	}

	return func(args ...any) (any, error) {
		value, err := reflection.Construct(info, args)
		if err != nil {
			return nil, argumentError(t, err)
		}
		return value, nil
	}, nil
}

func (ri *reflectionIntrospector) Parameters(subject any) ([]Parameter, error) {
	if t, ok := subject.(reflect.Type); ok {
		info, err := ri.analyzer.AnalyzeStruct(t)
		if err != nil {
			return nil, introspectionError(t, err)
		}

		params := make([]Parameter, len(info.Fields))
		for i, field := range info.Fields {
			params[i] = fieldParameter(field)
		}
		return params, nil
	}

	info, err := ri.analyzer.AnalyzeFunc(subject)
	if err != nil {
		return nil, introspectionError(subject, err)
	}

	params := make([]Parameter, len(info.Params))
	for i, p := range info.Params {
		params[i] = Param(Token(p))
	}
	return params, nil
}

func fieldParameter(field reflection.FieldInfo) Parameter {
	param := Param(Token(field.Type))

	if field.Tag.Name != "" {
		param = append(param, Inject(field.Tag.Name))
	}
	if field.Tag.Optional {
		param = append(param, Optional())
	}
	for _, m := range field.Tag.Modifiers {
		switch m {
		case "self":
			param = append(param, Self())
		case "skipself":
			param = append(param, SkipSelf())
		}
	}

	return param
}

func introspectionError(subject any, err error) error {
	if errors.Is(err, reflection.ErrUnsupported) {
		return fmt.Errorf("%w: %s", ErrNotIntrospectable, formatSubject(subject))
	}
	return &ReflectionAnalysisError{Subject: subject, Cause: err}
}

func argumentError(owner reflect.Type, err error) error {
	var argErr *reflection.ArgumentError
	if errors.As(err, &argErr) {
		return &TypeMismatchError{
			Expected: argErr.Expected,
			Actual:   argErr.Actual,
			Context:  fmt.Sprintf("argument %d of %s", argErr.Index, formatType(owner)),
		}
	}
	return err
}

// funcFactory adapts an arbitrary Go function into a FactoryFunc.
func funcFactory(analyzer *reflection.Analyzer, fn any) (FactoryFunc, error) {
	switch f := fn.(type) {
	case FactoryFunc:
		return f, nil
	case func(args ...any) (any, error):
		return f, nil
	}

	info, err := analyzer.AnalyzeFunc(fn)
	if err != nil {
		return nil, err
	}

	fnType := reflect.TypeOf(fn)
	return func(args ...any) (any, error) {
		value, err := reflection.Call(fn, info, args)
		if err != nil {
			return nil, argumentError(fnType, err)
		}
		return value, nil
	}, nil
}

// Table is an Introspector built from explicitly registered descriptors.
// It lets a type declare its constructor and parameter annotations without
// struct tags, e.g. from generated code.
//
// Example:
//
//	table := inject.NewTable()
//	table.Register(inject.TypeOf[*Car](),
//	    func(args ...any) (any, error) { return &Car{Engine: args[0].(Engine)}, nil },
//	    inject.Param(inject.Token(inject.TypeOf[Engine]()), inject.Inject(inject.TypeOf[*TurboEngine]())),
//	)
type Table struct {
	mu      sync.RWMutex
	entries map[reflect.Type]tableEntry
}

type tableEntry struct {
	factory FactoryFunc
	params  []Parameter
}

// NewTable creates an empty descriptor table.
func NewTable() *Table {
	return &Table{entries: make(map[reflect.Type]tableEntry)}
}

// Register describes how to build t. A later registration for the same type
// replaces the earlier one.
func (tb *Table) Register(t reflect.Type, factory FactoryFunc, params ...Parameter) error {
	if t == nil {
		return &InvalidTokenError{Token: t, Reason: "type cannot be nil"}
	}
	if factory == nil {
		return ErrFactoryNil
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.entries[t] = tableEntry{
		factory: factory,
		params:  append([]Parameter(nil), params...),
	}
	return nil
}

// Factory implements Introspector.
func (tb *Table) Factory(t reflect.Type) (FactoryFunc, error) {
	tb.mu.RLock()
	defer tb.mu.RUnlock()

	entry, ok := tb.entries[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotIntrospectable, formatSubject(t))
	}
	return entry.factory, nil
}

// Parameters implements Introspector. Only registered types are known.
func (tb *Table) Parameters(subject any) ([]Parameter, error) {
	t, ok := subject.(reflect.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotIntrospectable, formatSubject(subject))
	}

	tb.mu.RLock()
	defer tb.mu.RUnlock()

	entry, ok := tb.entries[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotIntrospectable, formatSubject(t))
	}
	return append([]Parameter(nil), entry.params...), nil
}

// Len returns the number of registered types.
func (tb *Table) Len() int {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return len(tb.entries)
}

type chainIntrospector []Introspector

// ChainIntrospectors consults each introspector in order and uses the first
// answer that is not ErrNotIntrospectable.
//
// Example:
//
//	inject.NewResolver(inject.WithIntrospector(
//	    inject.ChainIntrospectors(table, inject.NewReflectionIntrospector()),
//	))
func ChainIntrospectors(introspectors ...Introspector) Introspector {
	chain := make(chainIntrospector, 0, len(introspectors))
	for _, in := range introspectors {
		if in != nil {
			chain = append(chain, in)
		}
	}
	return chain
}

func (c chainIntrospector) Factory(t reflect.Type) (FactoryFunc, error) {
	for _, in := range c {
		factory, err := in.Factory(t)
		if errors.Is(err, ErrNotIntrospectable) {
			continue
		}
		return factory, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotIntrospectable, formatSubject(t))
}

func (c chainIntrospector) Parameters(subject any) ([]Parameter, error) {
	for _, in := range c {
		params, err := in.Parameters(subject)
		if errors.Is(err, ErrNotIntrospectable) {
			continue
		}
		return params, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotIntrospectable, formatSubject(subject))
}

func formatSubject(subject any) string {
	if t, ok := subject.(reflect.Type); ok {
		return formatType(t)
	}
	if subject != nil && reflect.TypeOf(subject).Kind() == reflect.Func {
		return reflect.TypeOf(subject).String()
	}
	return formatToken(subject)
}
