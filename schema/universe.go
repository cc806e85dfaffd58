package schema

import (
	"fmt"
	"sync"

	veloxspanner "github.com/syssam/velox-spanner"
)

// Universe is the set of types and entities a mapping may reference.
// It is populated while the metadata snapshot is loaded and only read
// afterwards; lookups are safe for concurrent use.
type Universe struct {
	mu       sync.RWMutex
	types    map[string]*Type
	entities map[string]*Entity
	order    []string
}

// NewUniverse returns a Universe holding the builtin scalar types and
// the given extra types.
func NewUniverse(types ...*Type) *Universe {
	u := &Universe{
		types:    make(map[string]*Type, len(builtins)+len(types)),
		entities: make(map[string]*Entity),
	}
	for _, t := range builtins {
		u.types[t.Name] = t
	}
	for _, t := range types {
		u.types[t.Name] = t
	}
	return u
}

// Register adds a named type. Registering a KindRef is an error since it
// would never resolve to anything. A struct type may be registered again
// only with the same fields.
func (u *Universe) Register(t *Type) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("schema: register type: missing name")
	}
	if t.Kind == KindRef {
		return fmt.Errorf("schema: register type %q: cannot register an unresolved reference", t.Name)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if prev, ok := u.types[t.Name]; ok && prev != t {
		switch {
		case prev.Kind != t.Kind:
			return fmt.Errorf("schema: register type %q: already registered as %s", t.Name, prev.Kind)
		case prev.Kind == KindStruct && !sameFields(prev.Fields, t.Fields):
			return fmt.Errorf("schema: register type %q: already registered with different fields", t.Name)
		case prev.Kind == KindStruct:
			// Identical redeclaration; entities may already point at prev.
			return nil
		}
	}
	u.types[t.Name] = t
	return nil
}

// sameFields reports whether two field lists declare the same names,
// columns and types in the same order.
func sameFields(a, b []*Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Column != b[i].Column || a[i].Type.String() != b[i].Type.String() {
			return false
		}
	}
	return true
}

// RegisterEntity adds an entity and its struct type.
func (u *Universe) RegisterEntity(e *Entity) error {
	if e == nil || e.Name == "" {
		return fmt.Errorf("schema: register entity: missing name")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.entities[e.Name]; ok {
		return fmt.Errorf("schema: entity %q registered twice", e.Name)
	}
	u.entities[e.Name] = e
	u.types[e.Name] = e.Type()
	u.order = append(u.order, e.Name)
	return nil
}

// Entity returns the entity registered under the qualified name.
func (u *Universe) Entity(name string) (*Entity, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if e, ok := u.entities[name]; ok {
		return e, nil
	}
	return nil, veloxspanner.NewTypeResolutionError(name, "no entity with this name")
}

// Entities returns the registered entities in registration order.
func (u *Universe) Entities() []*Entity {
	u.mu.RLock()
	defer u.mu.RUnlock()
	entities := make([]*Entity, 0, len(u.order))
	for _, name := range u.order {
		entities = append(entities, u.entities[name])
	}
	return entities
}

// Lookup returns the named type without parsing composite expressions.
func (u *Universe) Lookup(name string) (*Type, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	t, ok := u.types[name]
	return t, ok
}

// Resolve resolves a type expression. Composite expressions such as
// "[]int32" or "map[string]*Key" are parsed and their components
// resolved recursively; named types must be registered.
func (u *Universe) Resolve(name string) (*Type, error) {
	if t, ok := u.Lookup(name); ok {
		return t, nil
	}
	t, err := ParseType(name)
	if err != nil {
		return nil, veloxspanner.NewTypeResolutionError(name, err.Error())
	}
	return u.ResolveType(t)
}

// ResolveType returns t with every reference replaced by the registered
// type it names. Types without references are returned unchanged.
func (u *Universe) ResolveType(t *Type) (*Type, error) {
	if t == nil {
		return nil, veloxspanner.NewTypeResolutionError("<nil>", "missing type")
	}
	switch t.Kind {
	case KindRef:
		rt, ok := u.Lookup(t.Name)
		if !ok {
			return nil, veloxspanner.NewTypeResolutionError(t.Name, "")
		}
		return rt, nil
	case KindSlice, KindArray, KindPointer, KindMap:
		args := make([]*Type, len(t.Args))
		changed := false
		for i, a := range t.Args {
			ra, err := u.ResolveType(a)
			if err != nil {
				return nil, err
			}
			args[i] = ra
			changed = changed || ra != a
		}
		if !changed {
			return t, nil
		}
		rt := *t
		rt.Args = args
		return &rt, nil
	}
	return t, nil
}
