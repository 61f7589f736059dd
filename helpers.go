package inject

import (
	"fmt"
	"reflect"
)

// Get resolves token from inj and asserts the result to T. A nil value
// yields the zero T.
//
// Example:
//
//	url, err := inject.Get[string](c, APIURL)
func Get[T any](inj Injector, token any) (T, error) {
	var zero T

	instance, err := inj.Get(token)
	if err != nil {
		return zero, err
	}

	return assertAs[T](instance, "type assertion")
}

// GetType resolves the token TypeOf[T]() from inj.
//
// Example:
//
//	engine, err := inject.GetType[*Engine](c)
func GetType[T any](inj Injector) (T, error) {
	return Get[T](inj, TypeOf[T]())
}

// GetMulti resolves a multi-provider token and asserts every element to T.
func GetMulti[T any](inj Injector, token any) ([]T, error) {
	instance, err := inj.Get(token)
	if err != nil {
		return nil, err
	}

	values, ok := instance.([]any)
	if !ok {
		return nil, &TypeMismatchError{
			Expected: reflect.TypeOf([]any(nil)),
			Actual:   reflect.TypeOf(instance),
			Context:  "multi provider " + formatToken(token),
		}
	}

	results := make([]T, 0, len(values))
	for i, v := range values {
		result, err := assertAs[T](v, fmt.Sprintf("item %d of %s", i, formatToken(token)))
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// MustGet resolves token and panics on error.
func MustGet[T any](inj Injector, token any) T {
	result, err := Get[T](inj, token)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", formatToken(token), err))
	}
	return result
}

// MustGetType resolves TypeOf[T]() and panics on error.
func MustGetType[T any](inj Injector) T {
	return MustGet[T](inj, TypeOf[T]())
}

func assertAs[T any](instance any, context string) (T, error) {
	var zero T
	if instance == nil {
		return zero, nil
	}

	result, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Expected: TypeOf[T](),
			Actual:   reflect.TypeOf(instance),
			Context:  context,
		}
	}
	return result, nil
}
