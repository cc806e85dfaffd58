// Package spannerschema provides Spanner-specific annotations for velox entities.
// An interleaved entity declares its parent table through Annotations:
//
//	func (Album) Annotations() []schema.Annotation {
//	    return []schema.Annotation{
//	        spannerschema.InterleaveIn(Singer{}),
//	        spannerschema.OnDeleteCascade(),
//	    }
//	}
//
// or, as a struct literal:
//
//	spannerschema.Annotation{
//	    ParentEntity:  "example.com/app.Singer",
//	    CascadeDelete: true,
//	}
package spannerschema

import (
	"reflect"

	"github.com/syssam/velox-spanner/schema"
)

// AnnotationName is the name used for Spanner annotations.
const AnnotationName = "spanner"

// Annotation holds Spanner-specific settings for an entity.
type Annotation struct {
	// ParentEntity is the qualified name of the entity whose table this
	// entity's table is interleaved in. Empty means not interleaved.
	ParentEntity string

	// CascadeDelete adds ON DELETE CASCADE to the interleave clause, so
	// deleting a parent row deletes its child rows.
	CascadeDelete bool

	// Table overrides the table name of the entity.
	Table string
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

// Merge implements the schema.Merger interface.
// Later annotations override earlier ones for the fields they set.
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
	return Merge(a, ant)
}

var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Merger     = (*Annotation)(nil)
)

// InterleaveIn declares that the entity's table is interleaved in the
// table of the parent entity. The parent is given as a value or pointer
// of its Go type.
//
// Example:
//
//	spannerschema.InterleaveIn(Singer{})
func InterleaveIn(parent any) Annotation {
	rt := reflect.TypeOf(parent)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil {
		return Annotation{}
	}
	return Annotation{ParentEntity: schema.NameOf(rt)}
}

// InterleaveInName declares the parent entity by its qualified name.
// Use it when the parent type is not importable, e.g. in generated code.
func InterleaveInName(name string) Annotation {
	return Annotation{ParentEntity: name}
}

// OnDeleteCascade sets ON DELETE CASCADE on the interleave clause.
func OnDeleteCascade() Annotation {
	return Annotation{CascadeDelete: true}
}

// Table sets the table name of the entity.
//
// Example:
//
//	spannerschema.Table("Albums")
func Table(name string) Annotation {
	return Annotation{Table: name}
}

// Getters for use by dialects.

// GetParentEntity returns the parent entity name and whether the entity is interleaved.
func (a Annotation) GetParentEntity() (string, bool) {
	return a.ParentEntity, a.ParentEntity != ""
}

// GetTable returns the table name and whether it was set.
func (a Annotation) GetTable() (string, bool) {
	return a.Table, a.Table != ""
}

// Merge combines multiple Spanner annotations into one.
// Later annotations override earlier ones.
func Merge(annotations ...Annotation) Annotation {
	result := Annotation{}
	for _, a := range annotations {
		if a.ParentEntity != "" {
			result.ParentEntity = a.ParentEntity
		}
		if a.CascadeDelete {
			result.CascadeDelete = a.CascadeDelete
		}
		if a.Table != "" {
			result.Table = a.Table
		}
	}
	return result
}

// Of returns the Spanner annotation stored in an annotation map.
func Of(annotations map[string]any) (Annotation, bool) {
	switch an := annotations[AnnotationName].(type) {
	case Annotation:
		return an, true
	case *Annotation:
		if an != nil {
			return *an, true
		}
	}
	return Annotation{}, false
}
