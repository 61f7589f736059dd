package inject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Visibility constrains which injector scope may satisfy a dependency.
type Visibility int

const (
	// VisibilityDefault looks in the requesting container, then its ancestors.
	VisibilityDefault Visibility = iota

	// VisibilitySelf looks only in the requesting container.
	VisibilitySelf

	// VisibilitySkipSelf starts the lookup at the parent container.
	VisibilitySkipSelf
)

// String returns the string representation of the Visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityDefault:
		return "Default"
	case VisibilitySelf:
		return "Self"
	case VisibilitySkipSelf:
		return "SkipSelf"
	default:
		return fmt.Sprintf("Unknown(%d)", int(v))
	}
}

// IsValid checks if the visibility is one of the defined values.
func (v Visibility) IsValid() bool {
	return v >= VisibilityDefault && v <= VisibilitySkipSelf
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "default", "":
		*v = VisibilityDefault
	case "self":
		*v = VisibilitySelf
	case "skipself":
		*v = VisibilitySkipSelf
	default:
		return fmt.Errorf("invalid visibility: %q", string(text))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Visibility) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Visibility) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return v.UnmarshalText([]byte(s))
}

// Annotation is one marker attached to a constructor or factory parameter.
// The set of annotations is closed: Token, Inject, Optional, Self and SkipSelf.
type Annotation interface {
	fmt.Stringer
	annotation()
}

// Parameter is the ordered annotation list of a single parameter.
type Parameter []Annotation

// Param builds a Parameter from annotations.
func Param(annotations ...Annotation) Parameter {
	return Parameter(annotations)
}

// String renders the parameter the way it appears in error signatures.
func (p Parameter) String() string {
	if len(p) == 0 {
		return "?"
	}

	parts := make([]string, len(p))
	for i, a := range p {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

type tokenAnnotation struct{ token any }

type injectAnnotation struct{ token any }

type optionalAnnotation struct{}

type selfAnnotation struct{}

type skipSelfAnnotation struct{}

func (tokenAnnotation) annotation()    {}
func (injectAnnotation) annotation()   {}
func (optionalAnnotation) annotation() {}
func (selfAnnotation) annotation()     {}
func (skipSelfAnnotation) annotation() {}

func (a tokenAnnotation) String() string  { return formatToken(a.token) }
func (a injectAnnotation) String() string { return "@Inject(" + formatToken(a.token) + ")" }
func (optionalAnnotation) String() string { return "@Optional" }
func (selfAnnotation) String() string     { return "@Self" }
func (skipSelfAnnotation) String() string { return "@SkipSelf" }

// Token marks the parameter's declared type or token.
func Token(token any) Annotation {
	return tokenAnnotation{token: token}
}

// Inject overrides the parameter's token.
//
// Example:
//
//	table.Register(inject.TypeOf[*Car](), newCar,
//	    inject.Param(inject.Token(inject.TypeOf[Engine]()), inject.Inject(inject.TypeOf[*TurboEngine]())))
func Inject(token any) Annotation {
	return injectAnnotation{token: token}
}

// Optional resolves the parameter to nil when no provider exists.
func Optional() Annotation {
	return optionalAnnotation{}
}

// Self restricts the lookup to the requesting container.
func Self() Annotation {
	return selfAnnotation{}
}

// SkipSelf starts the lookup at the requesting container's parent.
func SkipSelf() Annotation {
	return skipSelfAnnotation{}
}
