package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// ErrUnsupported is returned for subjects the analyzer cannot describe.
var ErrUnsupported = errors.New("unsupported subject")

// Analyzer performs reflection-based analysis of struct types and functions.
// It caches analysis results for performance.
type Analyzer struct {
	mu      sync.RWMutex
	structs map[reflect.Type]*StructInfo
	funcs   map[reflect.Type]*FuncInfo
}

// StructInfo describes a struct type whose tagged fields are its parameters.
type StructInfo struct {
	Type      reflect.Type // as requested, possibly a pointer
	Struct    reflect.Type // the struct itself
	IsPointer bool
	Fields    []FieldInfo
}

// FieldInfo describes one injectable field.
type FieldInfo struct {
	Name  string
	Type  reflect.Type
	Index int
	Tag   TagInfo
}

// FuncInfo describes a function's parameters and results.
type FuncInfo struct {
	Type           reflect.Type
	Params         []reflect.Type
	HasErrorReturn bool
}

// TagInfo contains parsed struct tag information.
type TagInfo struct {
	Optional bool
	// Name overrides the field's token with a string token.
	Name string
	// Modifiers lists visibility modifiers in declaration order
	// ("self" or "skipself").
	Modifiers []string
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		structs: make(map[reflect.Type]*StructInfo),
		funcs:   make(map[reflect.Type]*FuncInfo),
	}
}

// AnalyzeStruct describes a struct or pointer-to-struct type. Only exported
// fields carrying an `inject`, `optional` or `name` tag are parameters.
func (a *Analyzer) AnalyzeStruct(t reflect.Type) (*StructInfo, error) {
	if t == nil {
		return nil, fmt.Errorf("type cannot be nil")
	}

	a.mu.RLock()
	if cached, ok := a.structs[t]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	info := &StructInfo{Type: t, Struct: t}
	if t.Kind() == reflect.Pointer {
		info.IsPointer = true
		info.Struct = t.Elem()
	}

	if info.Struct.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct or pointer to struct", ErrUnsupported, t)
	}

	for i := 0; i < info.Struct.NumField(); i++ {
		field := info.Struct.Field(i)
		if !field.IsExported() {
			continue
		}

		tagInfo, ok, err := ParseFieldTags(field.Tag)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if !ok {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:  field.Name,
			Type:  field.Type,
			Index: i,
			Tag:   tagInfo,
		})
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cached, ok := a.structs[t]; ok {
		return cached, nil
	}
	a.structs[t] = info

	return info, nil
}

// AnalyzeFunc describes a function value. Functions must return one value,
// optionally followed by an error, and must not be variadic.
func (a *Analyzer) AnalyzeFunc(fn any) (*FuncInfo, error) {
	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T is not a function", ErrUnsupported, fn)
	}
	if val.IsNil() {
		return nil, fmt.Errorf("function cannot be nil")
	}

	typ := val.Type()

	a.mu.RLock()
	if cached, ok := a.funcs[typ]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	if typ.IsVariadic() {
		return nil, fmt.Errorf("variadic function %v is not supported", typ)
	}

	info := &FuncInfo{Type: typ}

	switch typ.NumOut() {
	case 1:
		if typ.Out(0) == errType {
			return nil, fmt.Errorf("function %v must return a value", typ)
		}
	case 2:
		if typ.Out(1) != errType {
			return nil, fmt.Errorf("second return value of %v must be error", typ)
		}
		info.HasErrorReturn = true
	default:
		return nil, fmt.Errorf("function %v must return a value and an optional error", typ)
	}

	info.Params = make([]reflect.Type, typ.NumIn())
	for i := range info.Params {
		info.Params[i] = typ.In(i)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cached, ok := a.funcs[typ]; ok {
		return cached, nil
	}
	a.funcs[typ] = info

	return info, nil
}

// ParseFieldTags parses the DI tags of a struct field. The bool result
// reports whether the field takes part in injection at all.
//
// Supported forms:
//
//	`inject:""`                   inject by field type
//	`inject:"optional,self"`      modifiers, applied in order
//	`inject:"name=primary"`       inject the string token "primary"
//	`optional:"true"`             same as inject:"optional"
//	`name:"primary"`              same as inject:"name=primary"
//	`inject:"-"`                  never injected
func ParseFieldTags(tag reflect.StructTag) (TagInfo, bool, error) {
	info := TagInfo{}
	participates := false

	if val, ok := tag.Lookup("inject"); ok {
		if val == "-" {
			return info, false, nil
		}
		participates = true

		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			switch {
			case part == "":
			case part == "optional":
				info.Optional = true
			case part == "self":
				info.Modifiers = append(info.Modifiers, "self")
			case part == "skipself":
				info.Modifiers = append(info.Modifiers, "skipself")
			case strings.HasPrefix(part, "name="):
				info.Name = strings.TrimPrefix(part, "name=")
			default:
				return info, false, fmt.Errorf("unknown inject tag option %q", part)
			}
		}
	}

	if val, ok := tag.Lookup("optional"); ok {
		participates = true
		info.Optional = info.Optional || val == "true"
	}

	if val, ok := tag.Lookup("name"); ok {
		participates = true
		info.Name = val
	}

	return info, participates, nil
}
