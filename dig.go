package inject

import (
	"context"
	"reflect"
	"sync"

	"go.uber.org/dig"
)

// DigInjector mounts a dig container as an Injector, so that a Container can
// fall back to types constructed by dig. Only reflect.Type tokens are
// visible; dig decides construction and caching for them.
//
// Example:
//
//	dc := dig.New()
//	dc.Provide(NewDatabase)
//
//	c, err := inject.ResolveAndCreateChild(inject.NewDigInjector(dc), inject.TypeOf[*Repository]())
type DigInjector struct {
	container *dig.Container
	parent    Injector

	mu     sync.RWMutex
	invoke map[reflect.Type]digInvoker
}

// digInvoker invokes a function taking a generated dig.In struct with a
// single field and stores the field in *target.
type digInvoker struct {
	optional func(target *reflect.Value) error
	required func(target *reflect.Value) error
}

var _ Injector = (*DigInjector)(nil)

// NewDigInjector wraps c. parent may be nil.
func NewDigInjector(c *dig.Container, parent ...Injector) *DigInjector {
	d := &DigInjector{
		container: c,
		invoke:    make(map[reflect.Type]digInvoker),
	}
	if len(parent) > 0 {
		d.parent = parent[0]
	}
	return d
}

// Container returns the wrapped dig container.
func (d *DigInjector) Container() *dig.Container {
	return d.container
}

// Parent implements Injector.
func (d *DigInjector) Parent() Injector {
	return d.parent
}

// Get implements Injector.
func (d *DigInjector) Get(token any) (any, error) {
	key, err := looseKey(token)
	if err != nil {
		return nil, err
	}

	value, found, err := d.get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &NoProviderError{Key: key}
	}
	return value, nil
}

// GetOr implements Injector.
func (d *DigInjector) GetOr(token any, notFoundValue any) (any, error) {
	key, err := looseKey(token)
	if err != nil {
		return nil, err
	}

	value, found, err := d.get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return notFoundValue, nil
	}
	return value, nil
}

func (d *DigInjector) get(key *Key) (any, bool, error) {
	ctx := context.Background()
	for inj := Injector(d); inj != nil; inj = inj.Parent() {
		value, found, err := inj.TryGetLocal(ctx, key)
		if err != nil || found {
			return value, found, err
		}
	}
	return nil, false, nil
}

// looseKey wraps a token in a Key that belongs to no registry. Containers
// map such keys onto their own registry.
func looseKey(token any) (*Key, error) {
	if key, ok := token.(*Key); ok && key != nil {
		return key, nil
	}
	if err := validateToken(token); err != nil {
		return nil, err
	}
	return &Key{Token: token, ID: -1}, nil
}

// TryGetLocal implements Injector.
func (d *DigInjector) TryGetLocal(_ context.Context, key *Key) (any, bool, error) {
	return d.tryGet(key.Token)
}

func (d *DigInjector) tryGet(token any) (any, bool, error) {
	t, ok := token.(reflect.Type)
	if !ok || t == nil {
		return nil, false, nil
	}

	inv := d.invoker(t)

	// An optional field is left zero when dig has no provider. Only a zero
	// result needs the second, required invocation to tell the two apart.
	var value reflect.Value
	if err := inv.optional(&value); err != nil {
		return nil, false, err
	}
	if !value.IsZero() {
		return value.Interface(), true, nil
	}

	if err := inv.required(&value); err != nil {
		return nil, false, nil
	}
	return value.Interface(), true, nil
}

func (d *DigInjector) invoker(t reflect.Type) digInvoker {
	d.mu.RLock()
	inv, ok := d.invoke[t]
	d.mu.RUnlock()
	if ok {
		return inv
	}

	inv = digInvoker{
		optional: d.makeInvoke(t, `optional:"true"`),
		required: d.makeInvoke(t, ""),
	}

	d.mu.Lock()
	d.invoke[t] = inv
	d.mu.Unlock()
	return inv
}

func (d *DigInjector) makeInvoke(t reflect.Type, tag reflect.StructTag) func(*reflect.Value) error {
	in := reflect.StructOf([]reflect.StructField{
		{
			Name:      "In",
			Anonymous: true,
			Type:      reflect.TypeOf(dig.In{}),
		},
		{
			Name: "Value",
			Type: t,
			Tag:  tag,
		},
	})
	fnType := reflect.FuncOf([]reflect.Type{in}, nil, false)

	return func(target *reflect.Value) error {
		fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
			*target = args[0].Field(1)
			return nil
		})
		return d.container.Invoke(fn.Interface())
	}
}
