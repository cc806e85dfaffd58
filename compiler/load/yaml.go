package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	veloxspanner "github.com/syssam/velox-spanner"
	"github.com/syssam/velox-spanner/dialect/spannerschema"
	"github.com/syssam/velox-spanner/schema"
	"github.com/syssam/velox-spanner/schema/field"
)

// File is the YAML form of a metadata snapshot as exported by a host
// mapping phase:
//
//	types:
//	  - name: app.AlbumKey
//	    fields:
//	      - {name: SingerID, type: int64}
//	      - {name: AlbumID, type: int64}
//	entities:
//	  - name: app.Singer
//	    fields:
//	      - {name: SingerID, type: int64, id: true}
//	  - name: app.Album
//	    table: Albums
//	    interleave: {parent: app.Singer, cascade_delete: true}
//	    fields:
//	      - {name: Key, type: app.AlbumKey, embedded_id: true}
//	      - {name: Genres, type: "[]string"}
type File struct {
	Types    []TypeSpec   `yaml:"types"`
	Entities []EntitySpec `yaml:"entities"`
}

// TypeSpec declares a key struct type.
type TypeSpec struct {
	Name   string      `yaml:"name"`
	Fields []FieldSpec `yaml:"fields"`
}

// EntitySpec declares a mapped entity.
type EntitySpec struct {
	Name       string          `yaml:"name"`
	Table      string          `yaml:"table"`
	Interleave *InterleaveSpec `yaml:"interleave"`
	Fields     []FieldSpec     `yaml:"fields"`
}

// InterleaveSpec declares the parent of an interleaved entity.
type InterleaveSpec struct {
	Parent        string `yaml:"parent"`
	CascadeDelete bool   `yaml:"cascade_delete"`
}

// FieldSpec declares a field. Type is a Go type expression; named types
// that are not declared anywhere stay unresolved until they are used.
type FieldSpec struct {
	Name       string `yaml:"name"`
	Column     string `yaml:"column"`
	Type       string `yaml:"type"`
	ID         bool   `yaml:"id"`
	EmbeddedID bool   `yaml:"embedded_id"`
}

// DecodeFile decodes a YAML snapshot. Unknown keys are rejected. The
// documents of a multi-document stream are concatenated in order.
func DecodeFile(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{}
	for {
		var doc File
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decoding snapshot: %w", err)
		}
		f.Types = append(f.Types, doc.Types...)
		f.Entities = append(f.Entities, doc.Entities...)
	}
}

// FromYAML decodes a YAML snapshot and registers its types and entities in u.
func FromYAML(u *schema.Universe, data []byte) ([]*schema.Entity, error) {
	f, err := DecodeFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return f.Register(u)
}

// Files reads and decodes the snapshot files concurrently, then registers
// them in u in argument order.
func Files(ctx context.Context, u *schema.Universe, paths ...string) ([]*schema.Entity, error) {
	files := make([]*File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading snapshot file: %w", err)
			}
			f, err := DecodeFile(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var entities []*schema.Entity
	for i, f := range files {
		es, err := f.Register(u)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", paths[i], err)
		}
		entities = append(entities, es...)
	}
	return entities, nil
}

// Register adds the file's types and entities to u and returns the entities
// in declaration order.
func (f *File) Register(u *schema.Universe) ([]*schema.Entity, error) {
	for _, ts := range f.Types {
		if ts.Name == "" {
			return nil, fmt.Errorf("type: missing name")
		}
		fields, err := specFields(ts.Fields)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", ts.Name, err)
		}
		if err := u.Register(&schema.Type{Name: ts.Name, Kind: schema.KindStruct, Fields: fields}); err != nil {
			return nil, err
		}
	}
	entities := make([]*schema.Entity, 0, len(f.Entities))
	for _, es := range f.Entities {
		e, err := es.entity()
		if err != nil {
			return nil, err
		}
		if err := u.RegisterEntity(e); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (es EntitySpec) entity() (*schema.Entity, error) {
	if es.Name == "" {
		return nil, fmt.Errorf("entity: missing name")
	}
	fields, err := specFields(es.Fields)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", es.Name, err)
	}
	e := &schema.Entity{
		Name:        es.Name,
		Table:       es.Table,
		Fields:      fields,
		Annotations: make(map[string]any),
	}
	if e.Table == "" {
		e.Table = inflect.Pluralize(shortName(es.Name))
	}
	if il := es.Interleave; il != nil {
		if il.Parent == "" {
			return nil, fmt.Errorf("entity %q: interleave: missing parent", es.Name)
		}
		e.AddAnnotation(spannerschema.Annotation{ParentEntity: il.Parent, CascadeDelete: il.CascadeDelete})
	}
	return e, nil
}

func specFields(specs []FieldSpec) ([]*schema.Field, error) {
	fields := make([]*schema.Field, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, fs := range specs {
		if fs.Name == "" {
			return nil, fmt.Errorf("field: missing name")
		}
		if seen[fs.Name] {
			return nil, fmt.Errorf("field %q: declared twice", fs.Name)
		}
		seen[fs.Name] = true
		if fs.ID && fs.EmbeddedID {
			return nil, fmt.Errorf("field %q: id and embedded_id are mutually exclusive", fs.Name)
		}
		typ, err := schema.ParseType(fs.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fs.Name, veloxspanner.NewTypeResolutionError(fs.Type, err.Error()))
		}
		f := &schema.Field{Name: fs.Name, Column: fs.Column, Type: typ}
		if fs.ID {
			f.AddAnnotation(field.ID())
		}
		if fs.EmbeddedID {
			f.AddAnnotation(field.EmbeddedID())
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// shortName strips the package qualifier of a type name.
func shortName(name string) string {
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		return name[i+1:]
	}
	return name
}
