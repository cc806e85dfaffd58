package load

import (
	"github.com/syssam/velox-spanner/schema"
)

// TypeArguments returns the resolved type arguments of the declared type
// of the named field, e.g. [int32] for a []int32 field. Fields of a
// non-generic type yield an empty slice.
//
// It fails with a FieldNotFoundError when the entity does not declare the
// field and with a TypeResolutionError when an argument names a type the
// universe does not know.
func TypeArguments(u *schema.Universe, e *schema.Entity, fieldName string) ([]*schema.Type, error) {
	f, err := e.FieldOrFail(fieldName)
	if err != nil {
		return nil, err
	}
	args := f.TypeArgs()
	resolved := make([]*schema.Type, 0, len(args))
	for _, a := range args {
		ra, err := u.ResolveType(a)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ra)
	}
	return resolved, nil
}
