// Package load builds entity descriptors from Go struct types and from
// YAML metadata snapshots, and registers them in a schema.Universe.
package load

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/syssam/velox-spanner/dialect/spannerschema"
	"github.com/syssam/velox-spanner/schema"
	"github.com/syssam/velox-spanner/schema/field"
)

// TagName is the struct tag read by the loader. Supported options:
//
//	`spanner:"id"`           simple identifier field
//	`spanner:"embedded_id"`  composite identifier struct
//	`spanner:"column=Name"`  storage column override
//	`spanner:"-"`            field is not mapped
//
// Options are comma separated, e.g. `spanner:"id,column=SingerId"`.
// Tagged fields must be exported.
const TagName = "spanner"

// Annotator is implemented by entity types that carry annotations.
type Annotator interface {
	Annotations() []schema.Annotation
}

// Loader introspects Go struct types once and caches the resulting
// entities. Every entity it loads is registered in its universe.
type Loader struct {
	u       *schema.Universe
	cache   sync.Map // map[reflect.Type]*schema.Entity
	mu      sync.Mutex
	pending map[reflect.Type]bool // struct types being loaded, guarded by mu
}

// NewLoader returns a loader registering into u.
func NewLoader(u *schema.Universe) *Loader {
	return &Loader{u: u, pending: make(map[reflect.Type]bool)}
}

// Universe returns the universe the loader registers into.
func (l *Loader) Universe() *schema.Universe {
	return l.u
}

// Entities loads the given entity values, e.g. load.Entities(u, Singer{}, Album{}).
func Entities(u *schema.Universe, values ...any) ([]*schema.Entity, error) {
	return NewLoader(u).LoadAll(values...)
}

// LoadAll loads every value in order.
func (l *Loader) LoadAll(values ...any) ([]*schema.Entity, error) {
	entities := make([]*schema.Entity, 0, len(values))
	for _, v := range values {
		e, err := l.Load(v)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// Load returns the entity descriptor of v, a struct value or pointer.
func (l *Loader) Load(v any) (*schema.Entity, error) {
	if v == nil {
		return nil, fmt.Errorf("load: nil entity")
	}
	rt := indirect(reflect.TypeOf(v))
	if cached, ok := l.cache.Load(rt); ok {
		return cached.(*schema.Entity), nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache.Load(rt); ok {
		return cached.(*schema.Entity), nil
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("load: invalid entity type %s: %s", rt, rt.Kind())
	}
	l.pending[rt] = true
	defer delete(l.pending, rt)
	e := &schema.Entity{
		Name:        schema.NameOf(rt),
		Annotations: make(map[string]any),
	}
	if err := l.loadAnnotations(e, rt); err != nil {
		return nil, fmt.Errorf("entity %q: %w", e.Name, err)
	}
	fields, err := l.loadFields(rt, map[reflect.Type]bool{})
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", e.Name, err)
	}
	e.Fields = fields
	e.Table = inflect.Pluralize(rt.Name())
	if an, ok := spannerschema.Of(e.Annotations); ok {
		if table, ok := an.GetTable(); ok {
			e.Table = table
		}
	}
	if err := l.u.RegisterEntity(e); err != nil {
		return nil, err
	}
	l.cache.Store(rt, e)
	return e, nil
}

func (l *Loader) loadAnnotations(e *schema.Entity, rt reflect.Type) error {
	an, ok := reflect.New(rt).Interface().(Annotator)
	if !ok {
		return nil
	}
	ants, err := safeAnnotations(an)
	if err != nil {
		return err
	}
	for _, at := range ants {
		if at == nil {
			continue
		}
		e.AddAnnotation(at)
	}
	return nil
}

// loadFields returns the mapped fields of a struct type. Anonymous
// struct fields without a tag are flattened in place, the way the
// promoted fields of an embedded base struct belong to the outer type.
func (l *Loader) loadFields(rt reflect.Type, visiting map[reflect.Type]bool) ([]*schema.Field, error) {
	if visiting[rt] {
		return nil, fmt.Errorf("struct %s embeds itself", rt)
	}
	visiting[rt] = true
	defer delete(visiting, rt)

	var fields []*schema.Field
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		if sf.Anonymous && !hasTag {
			if et := indirect(sf.Type); et.Kind() == reflect.Struct && !isScalar(et) {
				embedded, err := l.loadFields(et, visiting)
				if err != nil {
					return nil, err
				}
				fields = append(fields, embedded...)
				continue
			}
		}
		if !sf.IsExported() {
			if hasTag {
				return nil, fmt.Errorf("field %q: %s tag on unexported field", sf.Name, TagName)
			}
			continue
		}
		f, err := l.loadField(sf, tag)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (l *Loader) loadField(sf reflect.StructField, tag string) (*schema.Field, error) {
	f := &schema.Field{
		Name: sf.Name,
		Type: schema.TypeOf(sf.Type),
	}
	opts, err := parseTag(tag)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", sf.Name, err)
	}
	f.Column = opts.column
	if opts.id {
		f.AddAnnotation(field.ID())
	}
	if opts.embeddedID {
		if et := indirect(sf.Type); et.Kind() != reflect.Struct || isScalar(et) {
			return nil, fmt.Errorf("field %q: embedded_id requires a struct type, got %s", sf.Name, sf.Type)
		}
		f.AddAnnotation(field.EmbeddedID())
	}
	if err := l.registerStructs(sf.Type); err != nil {
		return nil, fmt.Errorf("field %q: %w", sf.Name, err)
	}
	return f, nil
}

// registerStructs registers every named struct type reachable from rt
// through pointers, slices, arrays and maps, so references to them
// resolve later.
func (l *Loader) registerStructs(rt reflect.Type) error {
	switch rt.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return l.registerStructs(rt.Elem())
	case reflect.Map:
		if err := l.registerStructs(rt.Key()); err != nil {
			return err
		}
		return l.registerStructs(rt.Elem())
	case reflect.Struct:
	default:
		return nil
	}
	if isScalar(rt) || rt.Name() == "" || l.pending[rt] {
		return nil
	}
	name := schema.NameOf(rt)
	if t, ok := l.u.Lookup(name); ok && t.Kind == schema.KindStruct {
		return nil
	}
	l.pending[rt] = true
	defer delete(l.pending, rt)
	fields, err := l.loadFields(rt, map[reflect.Type]bool{})
	if err != nil {
		return err
	}
	return l.u.Register(&schema.Type{Name: name, Kind: schema.KindStruct, Fields: fields})
}

type tagOptions struct {
	id, embeddedID bool
	column         string
}

func parseTag(tag string) (tagOptions, error) {
	var opts tagOptions
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == "id":
			opts.id = true
		case part == "embedded_id":
			opts.embeddedID = true
		case strings.HasPrefix(part, "column="):
			opts.column = strings.TrimPrefix(part, "column=")
		default:
			return opts, fmt.Errorf("unknown %s tag option %q", TagName, part)
		}
	}
	if opts.id && opts.embeddedID {
		return opts, fmt.Errorf("id and embedded_id are mutually exclusive")
	}
	return opts, nil
}

func isScalar(rt reflect.Type) bool {
	return schema.TypeOf(rt).Kind == schema.KindScalar
}

// safeAnnotations wraps the Annotations method with recover to ensure no panics in loading.
func safeAnnotations(an Annotator) (ants []schema.Annotation, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Annotations panics: %v", an, v)
			ants = nil
		}
	}()
	return an.Annotations(), nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
