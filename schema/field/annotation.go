// Package field provides the field-level markers that identify primary key fields.
package field

import "github.com/syssam/velox-spanner/schema"

// AnnotationName is the name of the field marker annotation.
const AnnotationName = "Field"

// Annotation marks a field as part of the entity identifier.
type Annotation struct {
	// ID marks a simple identifier field. An entity may have several.
	ID bool

	// EmbeddedID marks a field whose type is a composite key struct.
	// Every field of that struct is a key column.
	EmbeddedID bool
}

// Name describes the annotation name.
func (Annotation) Name() string {
	return AnnotationName
}

// Merge implements the schema.Merger interface.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	var ant Annotation
	switch other := other.(type) {
	case Annotation:
		ant = other
	case *Annotation:
		if other != nil {
			ant = *other
		}
	default:
		return a
	}
	a.ID = a.ID || ant.ID
	a.EmbeddedID = a.EmbeddedID || ant.EmbeddedID
	return a
}

// ID marks a field as an identifier field.
func ID() Annotation {
	return Annotation{ID: true}
}

// EmbeddedID marks a field as an embedded composite identifier.
func EmbeddedID() Annotation {
	return Annotation{EmbeddedID: true}
}

// Of returns the marker attached to f. Fields without a marker return
// the zero Annotation.
func Of(f *schema.Field) Annotation {
	an, ok := f.Annotation(AnnotationName)
	if !ok {
		return Annotation{}
	}
	switch an := an.(type) {
	case Annotation:
		return an
	case *Annotation:
		if an != nil {
			return *an
		}
	}
	return Annotation{}
}

// IsID reports whether f is marked as an identifier field.
func IsID(f *schema.Field) bool {
	return Of(f).ID
}

// IsEmbeddedID reports whether f is marked as an embedded identifier.
func IsEmbeddedID(f *schema.Field) bool {
	return Of(f).EmbeddedID
}

var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Merger     = (*Annotation)(nil)
)
