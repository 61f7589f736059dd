package inject

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/junioryono/inject/internal/graph"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Typed errors below match these through errors.Is.

var (
	// Declaration errors.
	ErrInvalidProvider    = errors.New("invalid provider")
	ErrMixedMultiProvider = errors.New("cannot mix multi providers and regular providers")
	ErrInvalidToken       = errors.New("invalid token")
	ErrFactoryNil         = errors.New("factory cannot be nil")

	// Introspection errors.
	ErrNoAnnotation       = errors.New("cannot resolve all parameters")
	ErrNotIntrospectable  = errors.New("not introspectable")
	ErrReflectionAnalysis = errors.New("reflection analysis failed")

	// Resolution errors.
	ErrNoProvider         = errors.New("no provider")
	ErrCircularDependency = graph.ErrCircularDependency
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrConstructorPanic   = errors.New("constructor panicked")

	// Configuration errors.
	ErrResolverNil = errors.New("resolver cannot be nil")
)

var (
	_ error = (*InvalidProviderError)(nil)
	_ error = (*NoProviderError)(nil)
	_ error = (*MixedMultiProviderError)(nil)
	_ error = (*NoAnnotationError)(nil)
	_ error = (*InvalidTokenError)(nil)
	_ error = (*TypeMismatchError)(nil)
	_ error = (*ReflectionAnalysisError)(nil)
	_ error = (*ConstructorPanicError)(nil)
	_ error = ModuleError{}
	_ error = CircularDependencyError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// InvalidProviderError indicates a declaration matched none of the provider
// shapes, or a Provider that is malformed. Reason says which.
type InvalidProviderError struct {
	Value  any
	Reason string
}

func (e *InvalidProviderError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid provider - only Provider values and reflect.Type are allowed, got: %s", describeValue(e.Value))
	}
	return fmt.Sprintf("invalid provider - %s, got: %s", e.Reason, describeValue(e.Value))
}

func (e *InvalidProviderError) Is(target error) bool {
	return target == ErrInvalidProvider
}

// NoProviderError indicates a required key could not be resolved anywhere in
// the visible part of the container chain.
type NoProviderError struct {
	Key *Key
}

func (e *NoProviderError) Error() string {
	return "no provider for " + e.Key.DisplayName()
}

func (e *NoProviderError) Is(target error) bool {
	return target == ErrNoProvider
}

// MixedMultiProviderError indicates two declarations for the same token
// disagree on Multi.
type MixedMultiProviderError struct {
	Existing *ResolvedProvider
	Incoming *ResolvedProvider
}

func (e *MixedMultiProviderError) Error() string {
	return fmt.Sprintf("cannot mix multi providers and regular providers, got: %s and %s", e.Existing, e.Incoming)
}

func (e *MixedMultiProviderError) Is(target error) bool {
	return target == ErrMixedMultiProvider
}

// NoAnnotationError indicates a parameter whose dependency token could not be
// determined. Signature holds one entry per parameter, "?" for unannotated ones.
type NoAnnotationError struct {
	Owner     string
	Signature []string
}

func (e *NoAnnotationError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("cannot resolve all parameters for '%s'(%s).\n\n", e.Owner, strings.Join(e.Signature, ", ")))
	b.WriteString("To resolve this:\n")
	b.WriteString("  • Tag every injected struct field with `inject:\"\"`\n")
	b.WriteString("  • Register explicit parameters for the type with Table.Register\n")
	b.WriteString("  • Pass Deps for factory providers\n")
	return b.String()
}

func (e *NoAnnotationError) Is(target error) bool {
	return target == ErrNoAnnotation
}

// InvalidTokenError indicates a value that cannot identify a dependency.
type InvalidTokenError struct {
	Token  any
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token %s: %s", describeValue(e.Token), e.Reason)
}

func (e *InvalidTokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// TypeMismatchError indicates a type assertion or assignment failed.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "argument 1 of *Car", "type assertion", etc.
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ReflectionAnalysisError wraps failures while analyzing a constructor or type.
type ReflectionAnalysisError struct {
	Subject any
	Cause   error
}

func (e *ReflectionAnalysisError) Error() string {
	return fmt.Sprintf("reflection analysis failed for %s: %v", formatSubject(e.Subject), e.Cause)
}

func (e *ReflectionAnalysisError) Unwrap() error {
	return e.Cause
}

func (e *ReflectionAnalysisError) Is(target error) bool {
	return target == ErrReflectionAnalysis
}

// ConstructorPanicError indicates a factory panicked during instantiation.
// It captures the panic value and stack trace for debugging.
type ConstructorPanicError struct {
	Key   *Key
	Panic any
	Stack []byte
}

func (e *ConstructorPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("constructor for %s panicked: %v\n", e.Key.DisplayName(), e.Panic))

	if len(e.Stack) > 0 {
		b.WriteString("\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

func (e *ConstructorPanicError) Is(target error) bool {
	return target == ErrConstructorPanic
}

// ModuleError wraps a declaration error with the module it came from.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// CircularDependencyError reports a dependency cycle. Path lists the keys of
// the cycle in resolution order.
type CircularDependencyError = graph.CircularDependencyError

// IsNoProvider reports whether err means a dependency had no provider.
func IsNoProvider(err error) bool {
	return errors.Is(err, ErrNoProvider)
}

// IsCircularDependency reports whether err is a circular dependency error.
func IsCircularDependency(err error) bool {
	return errors.Is(err, ErrCircularDependency)
}

// describeValue renders arbitrary declarations for error messages.
func describeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case Provider:
		return describeProvider(x)
	case *Provider:
		if x == nil {
			return "(*Provider)(nil)"
		}
		return describeProvider(*x)
	case reflect.Type:
		return formatType(x)
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func describeProvider(p Provider) string {
	var b strings.Builder
	b.WriteString("{provide: ")
	b.WriteString(formatToken(p.Provide))
	if p.UseClass != nil {
		b.WriteString(", useClass: " + formatType(p.UseClass))
	}
	if p.UseExisting != nil {
		b.WriteString(", useExisting: " + formatToken(p.UseExisting))
	}
	if p.UseFactory != nil {
		b.WriteString(", useFactory: " + reflect.TypeOf(p.UseFactory).String())
	}
	if p.UseValue != nil {
		b.WriteString(fmt.Sprintf(", useValue: %v", p.UseValue))
	}
	if p.Multi {
		b.WriteString(", multi: true")
	}
	b.WriteString("}")
	return b.String()
}
