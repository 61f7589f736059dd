package inject

import (
	"fmt"
	"reflect"
	"sync"
)

// Key pairs a token with the dense integer identity assigned by a KeyRegistry.
// Containers use the ID as their cache index.
//
// Keys should not be created directly; use KeyRegistry.Get.
type Key struct {
	// Token is the value the key was created for.
	Token any

	// ID is unique within the owning registry, starting at 0.
	ID int

	owner *KeyRegistry
}

// DisplayName returns a human readable form of the key's token.
func (k *Key) DisplayName() string {
	if k == nil {
		return "<nil>"
	}
	return formatToken(k.Token)
}

// String implements fmt.Stringer.
func (k *Key) String() string {
	if k == nil {
		return "Key(<nil>)"
	}
	return fmt.Sprintf("Key(%s#%d)", k.DisplayName(), k.ID)
}

// KeyRegistry hands out exactly one Key per distinct token for its lifetime.
// Keys are never evicted. A registry is safe for concurrent use.
type KeyRegistry struct {
	mu   sync.Mutex
	keys map[any]*Key
}

// NewKeyRegistry creates an empty registry.
func NewKeyRegistry() *KeyRegistry {
	return &KeyRegistry{
		keys: make(map[any]*Key),
	}
}

// Get returns the Key for token, creating it on first use.
// Passing a *Key of this registry returns it unchanged; a *Key minted
// elsewhere is mapped to this registry's key for the same token.
func (r *KeyRegistry) Get(token any) (*Key, error) {
	if key, ok := token.(*Key); ok && key != nil {
		if key.owner == r {
			return key, nil
		}
		token = key.Token
	}

	if err := validateToken(token); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if key, ok := r.keys[token]; ok {
		return key, nil
	}

	key := &Key{Token: token, ID: len(r.keys), owner: r}
	r.keys[token] = key
	return key, nil
}

// NumberOfKeys returns the number of keys created so far.
func (r *KeyRegistry) NumberOfKeys() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func validateToken(token any) error {
	if token == nil {
		return &InvalidTokenError{Token: token, Reason: "token must be defined"}
	}

	if !reflect.TypeOf(token).Comparable() {
		return &InvalidTokenError{Token: token, Reason: "token must be comparable"}
	}

	// Interface-typed values can still hide non-comparable dynamic values,
	// e.g. an array of any holding a slice.
	if !reflect.ValueOf(token).Comparable() {
		return &InvalidTokenError{Token: token, Reason: "token must be comparable"}
	}

	return nil
}

// InjectionToken is an opaque token for dependencies that have no Go type
// of their own, such as configuration values. Tokens compare by pointer.
//
// Example:
//
//	var APIURL = inject.NewInjectionToken("api.url")
//
//	c, _ := inject.ResolveAndCreate(inject.Value(APIURL, "https://example.com"))
type InjectionToken struct {
	desc string
}

// NewInjectionToken creates a token with the given description.
func NewInjectionToken(desc string) *InjectionToken {
	return &InjectionToken{desc: desc}
}

// String implements fmt.Stringer.
func (t *InjectionToken) String() string {
	return "InjectionToken " + t.desc
}

// TypeOf returns the reflect.Type of T, which is the token used for
// constructor-like types.
//
// Example:
//
//	engine := inject.TypeOf[*Engine]()
//	logger := inject.TypeOf[Logger]() // interface types work too
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// formatToken renders a token for error messages.
func formatToken(token any) string {
	switch t := token.(type) {
	case nil:
		return "<nil>"
	case reflect.Type:
		return formatType(t)
	case *InjectionToken:
		return t.String()
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
