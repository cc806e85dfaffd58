package schema

import (
	veloxspanner "github.com/syssam/velox-spanner"
)

// Field describes a declared field of an entity or key struct.
type Field struct {
	Name        string         `json:"name,omitempty"`
	Column      string         `json:"column,omitempty"`
	Type        *Type          `json:"type,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// TypeArgs returns the type arguments of the field's declared type,
// or nil when the type is not generic.
func (f *Field) TypeArgs() []*Type {
	if f.Type == nil {
		return nil
	}
	return f.Type.Args
}

// Annotation returns the field annotation registered under name.
func (f *Field) Annotation(name string) (any, bool) {
	an, ok := f.Annotations[name]
	return an, ok
}

// ColumnName returns the storage column of the field.
func (f *Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// AddAnnotation attaches an annotation to the field.
func (f *Field) AddAnnotation(an Annotation) {
	if f.Annotations == nil {
		f.Annotations = make(map[string]any)
	}
	AddAnnotation(f.Annotations, an)
}

// Entity describes a mapped entity: its qualified type name, the table
// it is stored in, its declared fields in order and the annotations
// attached to the type itself.
//
// Entities are built once by a loader and must not be modified after
// they are registered in a Universe.
type Entity struct {
	Name        string         `json:"name,omitempty"`
	Table       string         `json:"table,omitempty"`
	Fields      []*Field       `json:"fields,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// Field returns the declared field with the given name.
func (e *Entity) Field(name string) (*Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FieldOrFail returns the declared field with the given name, or a
// FieldNotFoundError.
func (e *Entity) FieldOrFail(name string) (*Field, error) {
	if f, ok := e.Field(name); ok {
		return f, nil
	}
	return nil, veloxspanner.NewFieldNotFoundError(e.Name, name)
}

// Annotation returns the entity annotation registered under name.
func (e *Entity) Annotation(name string) (any, bool) {
	an, ok := e.Annotations[name]
	return an, ok
}

// AddAnnotation attaches an annotation to the entity.
func (e *Entity) AddAnnotation(an Annotation) {
	if e.Annotations == nil {
		e.Annotations = make(map[string]any)
	}
	AddAnnotation(e.Annotations, an)
}

// Type returns the struct type of the entity.
func (e *Entity) Type() *Type {
	return &Type{Name: e.Name, Kind: KindStruct, Fields: e.Fields}
}
