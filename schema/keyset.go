package schema

import (
	"cmp"
	"slices"
)

// KeyField identifies a primary key field by its declared type name and
// field name. Two key fields are equal when both components are.
type KeyField struct {
	Type string
	Name string
}

// String returns the key field as Type.Name.
func (k KeyField) String() string {
	return k.Type + "." + k.Name
}

// KeySet is a set of primary key fields.
type KeySet map[KeyField]struct{}

// NewKeySet returns the key set of the given fields.
func NewKeySet(fields ...*Field) KeySet {
	s := make(KeySet, len(fields))
	for _, f := range fields {
		s[KeyField{Type: f.Type.String(), Name: f.Name}] = struct{}{}
	}
	return s
}

// Len returns the number of key fields.
func (s KeySet) Len() int { return len(s) }

// Contains reports whether k is in the set.
func (s KeySet) Contains(k KeyField) bool {
	_, ok := s[k]
	return ok
}

// ContainsAll reports whether every key of o is in s.
func (s KeySet) ContainsAll(o KeySet) bool {
	for k := range o {
		if !s.Contains(k) {
			return false
		}
	}
	return true
}

// Sorted returns the keys ordered by name, then type.
func (s KeySet) Sorted() []KeyField {
	keys := make([]KeyField, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b KeyField) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return keys
}
