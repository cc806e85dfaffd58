// Package spanner maps Go element types to Spanner column types and runs
// batched DDL statements.
package spanner

import (
	veloxspanner "github.com/syssam/velox-spanner"
	"github.com/syssam/velox-spanner/schema"
)

// TypeCode is a Spanner scalar type name.
type TypeCode string

// Spanner type codes usable as array elements.
const (
	Int64     TypeCode = "INT64"
	Float64   TypeCode = "FLOAT64"
	String    TypeCode = "STRING"
	Timestamp TypeCode = "TIMESTAMP"
	Bool      TypeCode = "BOOL"
	Numeric   TypeCode = "NUMERIC"
	Bytes     TypeCode = "BYTES"
)

// String returns the type code.
func (c TypeCode) String() string { return string(c) }

// typeCodes is matched in order; the first entry whose type matches wins.
var typeCodes = []struct {
	types []*schema.Type
	code  TypeCode
}{
	{[]*schema.Type{schema.Int, schema.Int32, schema.Int64}, Int64},
	{[]*schema.Type{schema.Float64}, Float64},
	{[]*schema.Type{schema.String, schema.UUID}, String},
	{[]*schema.Type{schema.Time}, Timestamp},
	{[]*schema.Type{schema.Bool}, Bool},
	{[]*schema.Type{schema.Rat, schema.Decimal}, Numeric},
	{[]*schema.Type{schema.Bytes}, Bytes},
}

// ElementTypeCode returns the Spanner type code for an array element type.
// Pointers are matched on their element. Types outside the mapping table
// fail with an UnsupportedTypeError.
func ElementTypeCode(t *schema.Type) (TypeCode, error) {
	if t == nil {
		return "", veloxspanner.NewUnsupportedTypeError("<nil>")
	}
	elem := t
	for elem.Kind == schema.KindPointer && len(elem.Args) == 1 {
		elem = elem.Args[0]
	}
	for _, entry := range typeCodes {
		for _, typ := range entry.types {
			if elem.Name == typ.Name {
				return entry.code, nil
			}
		}
	}
	return "", veloxspanner.NewUnsupportedTypeError(t.Name)
}

// ArrayType returns the Spanner array column type of the element code,
// e.g. ARRAY<INT64>.
func ArrayType(code TypeCode) string {
	return "ARRAY<" + string(code) + ">"
}
