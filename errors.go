package veloxspanner

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for schema derivation failures.
var (
	// ErrUnsupportedType is returned when an array element type has no Spanner type code.
	ErrUnsupportedType = errors.New("velox-spanner: unsupported type")

	// ErrFieldNotFound is returned when a mapping references a field the entity does not declare.
	ErrFieldNotFound = errors.New("velox-spanner: field not found")

	// ErrTypeResolution is returned when a type name cannot be resolved in the type universe.
	ErrTypeResolution = errors.New("velox-spanner: type resolution failed")

	// ErrEntityNotMapped is returned when an entity is absent from the metadata snapshot.
	ErrEntityNotMapped = errors.New("velox-spanner: entity not mapped")
)

// UnsupportedTypeError is returned by the type mapper for element
// types that cannot be stored in a Spanner ARRAY column.
type UnsupportedTypeError struct {
	Type string // Qualified name of the offending type
}

// Error returns the error string.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("velox-spanner: %s has no Spanner type code", e.Type)
}

// Is reports whether the target error matches UnsupportedTypeError.
// This allows errors.Is(err, ErrUnsupportedType) to return true.
func (e *UnsupportedTypeError) Is(err error) bool {
	return err == ErrUnsupportedType
}

// NewUnsupportedTypeError returns a new UnsupportedTypeError for the given type name.
func NewUnsupportedTypeError(typ string) *UnsupportedTypeError {
	return &UnsupportedTypeError{Type: typ}
}

// IsUnsupportedType returns true if the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedType)
}

// FieldNotFoundError represents a lookup of a field that an entity does not declare.
type FieldNotFoundError struct {
	Entity string // Qualified entity name
	Field  string // Requested field name
}

// Error returns the error string.
func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("velox-spanner: field %q not found on %s", e.Field, e.Entity)
}

// Is reports whether the target error matches FieldNotFoundError.
func (e *FieldNotFoundError) Is(err error) bool {
	return err == ErrFieldNotFound
}

// NewFieldNotFoundError returns a new FieldNotFoundError.
func NewFieldNotFoundError(entity, field string) *FieldNotFoundError {
	return &FieldNotFoundError{Entity: entity, Field: field}
}

// IsFieldNotFound returns true if the error is a FieldNotFoundError.
func IsFieldNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *FieldNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrFieldNotFound)
}

// TypeResolutionError represents a type name that could not be resolved.
type TypeResolutionError struct {
	Name   string // Type name as referenced by the mapping
	Reason string // Optional detail
}

// Error returns the error string.
func (e *TypeResolutionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("velox-spanner: cannot resolve type %q: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("velox-spanner: cannot resolve type %q", e.Name)
}

// Is reports whether the target error matches TypeResolutionError.
func (e *TypeResolutionError) Is(err error) bool {
	return err == ErrTypeResolution
}

// NewTypeResolutionError returns a new TypeResolutionError.
func NewTypeResolutionError(name, reason string) *TypeResolutionError {
	return &TypeResolutionError{Name: name, Reason: reason}
}

// IsTypeResolution returns true if the error is a TypeResolutionError.
func IsTypeResolution(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeResolutionError
	return errors.As(err, &e) || errors.Is(err, ErrTypeResolution)
}

// EntityNotMappedError represents a lookup of an entity that is not
// bound to any table in the metadata snapshot.
type EntityNotMappedError struct {
	Entity string
}

// Error returns the error string.
func (e *EntityNotMappedError) Error() string {
	return fmt.Sprintf("velox-spanner: could not find table for entity %s", e.Entity)
}

// Is reports whether the target error matches EntityNotMappedError.
func (e *EntityNotMappedError) Is(err error) bool {
	return err == ErrEntityNotMapped
}

// NewEntityNotMappedError returns a new EntityNotMappedError.
func NewEntityNotMappedError(entity string) *EntityNotMappedError {
	return &EntityNotMappedError{Entity: entity}
}

// IsEntityNotMapped returns true if the error is an EntityNotMappedError.
func IsEntityNotMapped(err error) bool {
	if err == nil {
		return false
	}
	var e *EntityNotMappedError
	return errors.As(err, &e) || errors.Is(err, ErrEntityNotMapped)
}

// IsConfigError reports whether err signals a broken mapping configuration,
// i.e. a field or type the mapping references could not be located.
func IsConfigError(err error) bool {
	return IsFieldNotFound(err) || IsTypeResolution(err)
}
