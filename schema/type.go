package schema

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a Type.
type Kind uint8

// Type kinds.
const (
	KindInvalid Kind = iota
	KindScalar       // leaf value type, e.g. int64, time.Time
	KindStruct       // struct with known fields
	KindSlice        // []T
	KindArray        // [N]T
	KindMap          // map[K]V
	KindPointer      // *T
	KindRef          // named type not yet resolved
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindScalar:  "scalar",
	KindStruct:  "struct",
	KindSlice:   "slice",
	KindArray:   "array",
	KindMap:     "map",
	KindPointer: "pointer",
	KindRef:     "ref",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Type describes a declared Go type as seen by the schema layer.
//
// Composite kinds carry their type arguments in Args: the element of a
// slice, array or pointer and the key and value of a map. Struct kinds
// carry their fields. A KindRef is a named reference that must be
// resolved through a Universe before its fields can be inspected.
type Type struct {
	Name   string
	Kind   Kind
	Args   []*Type
	Fields []*Field
	Len    int // array length, KindArray only
}

// String returns the qualified type name.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Generic reports whether the type carries type arguments.
func (t *Type) Generic() bool {
	return t != nil && len(t.Args) > 0
}

// Elem returns the element type of a slice, array or pointer, or the
// value type of a map. It returns nil for other kinds.
func (t *Type) Elem() *Type {
	switch t.Kind {
	case KindSlice, KindArray, KindPointer:
		return t.Args[0]
	case KindMap:
		return t.Args[1]
	}
	return nil
}

// Scalar and reference constructors.

// Scalar returns a scalar type with the given qualified name.
func Scalar(name string) *Type {
	return &Type{Name: name, Kind: KindScalar}
}

// Ref returns an unresolved reference to a named type.
func Ref(name string) *Type {
	return &Type{Name: name, Kind: KindRef}
}

// SliceOf returns the []elem type.
func SliceOf(elem *Type) *Type {
	return &Type{Name: "[]" + elem.Name, Kind: KindSlice, Args: []*Type{elem}}
}

// ArrayOf returns the [n]elem type.
func ArrayOf(n int, elem *Type) *Type {
	return &Type{Name: "[" + strconv.Itoa(n) + "]" + elem.Name, Kind: KindArray, Args: []*Type{elem}, Len: n}
}

// PointerTo returns the *elem type.
func PointerTo(elem *Type) *Type {
	return &Type{Name: "*" + elem.Name, Kind: KindPointer, Args: []*Type{elem}}
}

// MapOf returns the map[key]elem type.
func MapOf(key, elem *Type) *Type {
	return &Type{Name: "map[" + key.Name + "]" + elem.Name, Kind: KindMap, Args: []*Type{key, elem}}
}

// Builtin scalar types known to every Universe.
var (
	Bool    = Scalar("bool")
	Int     = Scalar("int")
	Int8    = Scalar("int8")
	Int16   = Scalar("int16")
	Int32   = Scalar("int32")
	Int64   = Scalar("int64")
	Uint    = Scalar("uint")
	Uint8   = Scalar("uint8")
	Uint16  = Scalar("uint16")
	Uint32  = Scalar("uint32")
	Uint64  = Scalar("uint64")
	Float32 = Scalar("float32")
	Float64 = Scalar("float64")
	String  = Scalar("string")
	Bytes   = Scalar("[]byte")
	Time    = Scalar(NameOf(reflect.TypeOf(time.Time{})))
	UUID    = Scalar(NameOf(reflect.TypeOf(uuid.UUID{})))
	Decimal = Scalar(NameOf(reflect.TypeOf(decimal.Decimal{})))
	Rat     = Scalar(NameOf(reflect.TypeOf(big.Rat{})))
)

// builtins lists the scalar types registered in every new Universe.
var builtins = []*Type{
	Bool, Int, Int8, Int16, Int32, Int64,
	Uint, Uint8, Uint16, Uint32, Uint64,
	Float32, Float64, String, Bytes,
	Time, UUID, Decimal, Rat,
}

// scalarNames holds the named struct or array types that are treated as
// opaque scalars instead of being expanded.
var scalarNames = map[string]bool{
	Time.Name:    true,
	UUID.Name:    true,
	Decimal.Name: true,
	Rat.Name:     true,
}

// "byte" is an alias of uint8 that users write in type names.
var aliases = map[string]string{
	"byte": "uint8",
	"rune": "int32",
}

// NameOf returns the canonical qualified name of a reflect.Type.
// Named types are qualified by their package path, []uint8 is written
// []byte and composite types are named from their components.
func NameOf(rt reflect.Type) string {
	if rt.Name() != "" {
		if pkg := rt.PkgPath(); pkg != "" {
			return pkg + "." + rt.Name()
		}
		return rt.Name()
	}
	switch rt.Kind() {
	case reflect.Pointer:
		return "*" + NameOf(rt.Elem())
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 && rt.Elem().Name() == "uint8" {
			return "[]byte"
		}
		return "[]" + NameOf(rt.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(rt.Len()) + "]" + NameOf(rt.Elem())
	case reflect.Map:
		return "map[" + NameOf(rt.Key()) + "]" + NameOf(rt.Elem())
	}
	return rt.String()
}

// TypeOf builds the Type of a reflect.Type. Named struct types that are
// not well-known scalars come back as references; loaders register their
// fields in a Universe separately.
func TypeOf(rt reflect.Type) *Type {
	name := NameOf(rt)
	if scalarNames[name] || name == "[]byte" {
		return Scalar(name)
	}
	switch rt.Kind() {
	case reflect.Pointer:
		return PointerTo(TypeOf(rt.Elem()))
	case reflect.Slice:
		return SliceOf(TypeOf(rt.Elem()))
	case reflect.Array:
		return ArrayOf(rt.Len(), TypeOf(rt.Elem()))
	case reflect.Map:
		return MapOf(TypeOf(rt.Key()), TypeOf(rt.Elem()))
	case reflect.Struct, reflect.Interface, reflect.Func, reflect.Chan:
		return Ref(name)
	}
	return Scalar(name)
}

// ParseType parses a Go type expression such as "[]int32", "*time.Time"
// or "map[string][]byte". Named components are returned as references
// unless they are builtin scalars; callers resolve them through a
// Universe.
func ParseType(expr string) (*Type, error) {
	p := &typeParser{s: strings.TrimSpace(expr)}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	if p.s != "" {
		return nil, &parseError{expr: expr, msg: "unexpected trailing " + strconv.Quote(p.s)}
	}
	return t, nil
}

type parseError struct {
	expr, msg string
}

func (e *parseError) Error() string {
	return "invalid type expression " + strconv.Quote(e.expr) + ": " + e.msg
}

type typeParser struct {
	s string
}

func (p *typeParser) parse() (*Type, error) {
	switch {
	case p.s == "":
		return nil, &parseError{msg: "missing type"}
	case strings.HasPrefix(p.s, "*"):
		p.s = p.s[1:]
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return PointerTo(elem), nil
	case strings.HasPrefix(p.s, "[]"):
		p.s = p.s[2:]
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		if elem.Name == "uint8" {
			return Bytes, nil
		}
		return SliceOf(elem), nil
	case strings.HasPrefix(p.s, "["):
		end := strings.IndexByte(p.s, ']')
		if end < 0 {
			return nil, &parseError{expr: p.s, msg: "unterminated array length"}
		}
		n, err := strconv.Atoi(p.s[1:end])
		if err != nil || n < 0 {
			return nil, &parseError{expr: p.s, msg: "invalid array length"}
		}
		p.s = p.s[end+1:]
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return ArrayOf(n, elem), nil
	case strings.HasPrefix(p.s, "map["):
		p.s = p.s[len("map["):]
		key, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(p.s, "]") {
			return nil, &parseError{expr: p.s, msg: "expected ] after map key"}
		}
		p.s = p.s[1:]
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return MapOf(key, elem), nil
	}
	end := strings.IndexAny(p.s, "]")
	if end < 0 {
		end = len(p.s)
	}
	name := strings.TrimSpace(p.s[:end])
	p.s = p.s[end:]
	if a, ok := aliases[name]; ok {
		name = a
	}
	for _, b := range builtins {
		if b.Name == name {
			return b, nil
		}
	}
	return Ref(name), nil
}
