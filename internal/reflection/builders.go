package reflection

import (
	"fmt"
	"reflect"
)

// ArgumentError reports an argument that cannot be assigned to its parameter.
type ArgumentError struct {
	Index    int
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %d: cannot use %v as %v", e.Index, e.Actual, e.Expected)
}

// Construct builds a new value of the analyzed struct, assigning args to the
// injectable fields in order. Nil arguments leave the field at its zero value.
func Construct(info *StructInfo, args []any) (any, error) {
	if len(args) != len(info.Fields) {
		return nil, fmt.Errorf("%v expects %d arguments, got %d", info.Type, len(info.Fields), len(args))
	}

	ptr := reflect.New(info.Struct)
	structValue := ptr.Elem()

	for i, field := range info.Fields {
		value, err := argumentValue(i, args[i], field.Type)
		if err != nil {
			return nil, err
		}

		target := structValue.Field(field.Index)
		if target.CanSet() {
			target.Set(value)
		}
	}

	if info.IsPointer {
		return ptr.Interface(), nil
	}
	return structValue.Interface(), nil
}

// Call invokes fn positionally with args and unwraps its optional error result.
func Call(fn any, info *FuncInfo, args []any) (any, error) {
	if len(args) != len(info.Params) {
		return nil, fmt.Errorf("%v expects %d arguments, got %d", info.Type, len(info.Params), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		value, err := argumentValue(i, arg, info.Params[i])
		if err != nil {
			return nil, err
		}
		in[i] = value
	}

	results := reflect.ValueOf(fn).Call(in)

	if info.HasErrorReturn {
		if errValue := results[1]; !errValue.IsNil() {
			return nil, errValue.Interface().(error)
		}
	}

	return results[0].Interface(), nil
}

// argumentValue converts an argument for a parameter of type t.
func argumentValue(index int, arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}

	value := reflect.ValueOf(arg)
	if !value.Type().AssignableTo(t) {
		return reflect.Value{}, &ArgumentError{Index: index, Expected: t, Actual: value.Type()}
	}

	if value.Type() != t {
		// Assign through an interface-typed value so the result has type t.
		converted := reflect.New(t).Elem()
		converted.Set(value)
		return converted, nil
	}

	return value, nil
}
