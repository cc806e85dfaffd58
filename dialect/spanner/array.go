package spanner

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syssam/velox-spanner/compiler/load"
	"github.com/syssam/velox-spanner/schema"
)

// ErrInvalidArrayField is returned when an array column is requested for
// a field that is not a slice.
var ErrInvalidArrayField = errors.New("velox-spanner: invalid array field")

// InvalidArrayFieldError reports a field that cannot be mapped to an
// ARRAY column.
type InvalidArrayFieldError struct {
	Entity string
	Field  string
	Type   string
	Reason string
}

// Error returns the error string.
func (e *InvalidArrayFieldError) Error() string {
	return fmt.Sprintf("velox-spanner: field %q of %s (%s) cannot be an array column: %s", e.Field, e.Entity, e.Type, e.Reason)
}

// Is reports whether the target error matches InvalidArrayFieldError.
func (e *InvalidArrayFieldError) Is(err error) bool {
	return err == ErrInvalidArrayField
}

// IsInvalidArrayField returns true if the error is an InvalidArrayFieldError.
func IsInvalidArrayField(err error) bool {
	var e *InvalidArrayFieldError
	return errors.As(err, &e)
}

// ArrayColumn describes a Spanner ARRAY column backed by a slice field.
type ArrayColumn struct {
	Entity string
	Field  *schema.Field
	Elem   *schema.Type
	Code   TypeCode
}

// NewArrayColumn returns the array column of the named slice field. The
// element type is the field's single type argument.
func NewArrayColumn(u *schema.Universe, e *schema.Entity, fieldName string) (*ArrayColumn, error) {
	f, err := e.FieldOrFail(fieldName)
	if err != nil {
		return nil, err
	}
	if f.Type == nil || f.Type.Kind != schema.KindSlice {
		return nil, &InvalidArrayFieldError{Entity: e.Name, Field: f.Name, Type: f.Type.String(), Reason: "not a slice"}
	}
	args, err := load.TypeArguments(u, e, fieldName)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, &InvalidArrayFieldError{Entity: e.Name, Field: f.Name, Type: f.Type.String(), Reason: "missing element type"}
	}
	code, err := ElementTypeCode(args[0])
	if err != nil {
		return nil, fmt.Errorf("field %q of %s: %w", f.Name, e.Name, err)
	}
	return &ArrayColumn{Entity: e.Name, Field: f, Elem: args[0], Code: code}, nil
}

// TypeName returns the column type, e.g. ARRAY<STRING>.
func (c *ArrayColumn) TypeName() string {
	return ArrayType(c.Code)
}

// ColumnName returns the storage column of the field.
func (c *ArrayColumn) ColumnName() string {
	return c.Field.ColumnName()
}

var (
	int64Type    = reflect.TypeOf(int64(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	driverValuer = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
)

// Value converts a slice field value into an array the Spanner driver
// accepts. Integer elements are widened to int64, UUIDs are written as
// strings and decimals as big.Rat values. Pointer elements keep nil
// entries. Elements whose type maps to another type code than the
// column's are rejected.
func (c *ArrayColumn) Value(v any) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("velox-spanner: %s value must be a slice, got %T", c.TypeName(), v)
	}
	if rv.IsNil() {
		return nil, nil
	}
	et := rv.Type().Elem()
	ptr := et.Kind() == reflect.Pointer
	if ptr {
		et = et.Elem()
	}
	if err := c.checkElem(et); err != nil {
		return nil, err
	}
	conv := elemConverter(et)
	if conv == nil {
		return rv.Interface(), nil
	}
	if !ptr {
		out := reflect.MakeSlice(reflect.SliceOf(conv.to), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := conv.fn(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out.Index(i).Set(ev)
		}
		return out.Interface(), nil
	}
	out := reflect.MakeSlice(reflect.SliceOf(reflect.PointerTo(conv.to)), rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev := rv.Index(i)
		if ev.IsNil() {
			continue
		}
		cv, err := conv.fn(ev.Elem())
		if err != nil {
			return nil, err
		}
		p := reflect.New(conv.to)
		p.Elem().Set(cv)
		out.Index(i).Set(p)
	}
	return out.Interface(), nil
}

// kindCodes maps the kinds of named element types, e.g. type Score int32,
// to their type code.
var kindCodes = map[reflect.Kind]TypeCode{
	reflect.Int:     Int64,
	reflect.Int32:   Int64,
	reflect.Int64:   Int64,
	reflect.Float64: Float64,
	reflect.String:  String,
	reflect.Bool:    Bool,
}

// checkElem fails when elements of type et cannot be stored in the column.
// Interface elements and unknown driver.Valuer types are left to the driver.
func (c *ArrayColumn) checkElem(et reflect.Type) error {
	code, err := ElementTypeCode(schema.TypeOf(et))
	if err != nil {
		if et.Kind() == reflect.Interface || et.Implements(driverValuer) {
			return nil
		}
		code = kindCodes[et.Kind()]
	}
	if code != c.Code {
		return fmt.Errorf("velox-spanner: %s value cannot hold %s elements", c.TypeName(), et)
	}
	return nil
}

type converter struct {
	to reflect.Type
	fn func(reflect.Value) (reflect.Value, error)
}

// elemConverter returns the conversion for element types the driver does
// not accept as is, or nil.
func elemConverter(et reflect.Type) *converter {
	switch {
	case et == uuidType:
		return &converter{
			to: reflect.TypeOf(""),
			fn: func(v reflect.Value) (reflect.Value, error) {
				return reflect.ValueOf(v.Interface().(uuid.UUID).String()), nil
			},
		}
	case et == decimalType:
		return &converter{
			to: reflect.TypeOf(big.Rat{}),
			fn: func(v reflect.Value) (reflect.Value, error) {
				d := v.Interface().(decimal.Decimal)
				r, ok := new(big.Rat).SetString(d.String())
				if !ok {
					return reflect.Value{}, fmt.Errorf("velox-spanner: cannot convert decimal %s to NUMERIC", d)
				}
				return reflect.ValueOf(*r), nil
			},
		}
	case et.Implements(driverValuer):
		return nil
	case et != int64Type && (et.Kind() == reflect.Int || et.Kind() == reflect.Int32 || et.Kind() == reflect.Int64):
		return &converter{
			to: int64Type,
			fn: func(v reflect.Value) (reflect.Value, error) {
				return reflect.ValueOf(v.Int()), nil
			},
		}
	}
	return nil
}

// Scan converts an array read from the driver into a []any. Typed slices
// and arrays are copied element by element.
func (c *ArrayColumn) Scan(src any) ([]any, error) {
	switch src := src.(type) {
	case nil:
		return nil, nil
	case []any:
		return append([]any(nil), src...), nil
	case []byte:
		return nil, fmt.Errorf("velox-spanner: cannot scan BYTES into %s", c.TypeName())
	}
	rv := reflect.ValueOf(src)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("velox-spanner: cannot scan %T into %s", src, c.TypeName())
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
