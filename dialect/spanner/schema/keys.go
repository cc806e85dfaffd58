// Package schema derives Spanner table metadata from velox entities:
// primary keys, interleaving and the table lookup used by the
// migration layer.
package schema

import (
	veloxspanner "github.com/syssam/velox-spanner"
	"github.com/syssam/velox-spanner/schema"
	"github.com/syssam/velox-spanner/schema/field"
)

// ResolveIdentifierFields returns the primary key fields of the entity as
// a KeySet. When the entity has an embedded identifier, every field of the
// embedded struct is a key field; otherwise the fields marked as
// identifiers are. An entity without keys yields an empty set.
func ResolveIdentifierFields(u *schema.Universe, e *schema.Entity) (schema.KeySet, error) {
	fields, err := PrimaryKeyFields(u, e)
	if err != nil {
		return nil, err
	}
	return schema.NewKeySet(fields...), nil
}

// PrimaryKeyFields returns the primary key fields of the entity in
// declaration order.
func PrimaryKeyFields(u *schema.Universe, e *schema.Entity) ([]*schema.Field, error) {
	for _, f := range e.Fields {
		if !field.IsEmbeddedID(f) {
			continue
		}
		t, err := u.ResolveType(f.Type)
		if err != nil {
			return nil, err
		}
		for t.Kind == schema.KindPointer {
			if t, err = u.ResolveType(t.Elem()); err != nil {
				return nil, err
			}
		}
		if t.Kind != schema.KindStruct {
			return nil, veloxspanner.NewTypeResolutionError(t.Name, "embedded identifier is not a struct")
		}
		return t.Fields, nil
	}
	var keys []*schema.Field
	for _, f := range e.Fields {
		if field.IsID(f) {
			keys = append(keys, f)
		}
	}
	return keys, nil
}
