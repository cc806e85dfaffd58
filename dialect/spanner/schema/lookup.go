package schema

import (
	"fmt"
	"log/slog"
	"strings"

	atlas "ariga.io/atlas/sql/schema"

	veloxspanner "github.com/syssam/velox-spanner"
	"github.com/syssam/velox-spanner/dialect/spanner"
	"github.com/syssam/velox-spanner/schema"
	"github.com/syssam/velox-spanner/schema/field"
)

// Snapshot is the bound metadata of a set of entities: one atlas table
// per entity, and the mapping between the two. A Snapshot is read-only
// and safe for concurrent use.
type Snapshot struct {
	u        *schema.Universe
	logger   *slog.Logger
	schema   *atlas.Schema
	entities []*schema.Entity
	byTable  map[*atlas.Table]*schema.Entity
	byEntity map[string]*atlas.Table
}

// Binder binds entities to atlas tables.
type Binder struct {
	u      *schema.Universe
	logger *slog.Logger
}

// NewBinder returns a binder resolving types in u.
func NewBinder(u *schema.Universe, opts ...Option) *Binder {
	return &Binder{u: u, logger: newOptions(opts).logger}
}

// Bind binds the entities with a default Binder.
func Bind(u *schema.Universe, entities ...*schema.Entity) (*Snapshot, error) {
	return NewBinder(u).Bind(entities...)
}

// Bind builds a table for each entity. With no entities, every entity
// registered in the universe is bound. Entity names and table names must
// be unique; table names are compared case-insensitively.
func (b *Binder) Bind(entities ...*schema.Entity) (*Snapshot, error) {
	if len(entities) == 0 {
		entities = b.u.Entities()
	}
	s := &Snapshot{
		u:        b.u,
		logger:   b.logger,
		schema:   atlas.New(""),
		entities: make([]*schema.Entity, 0, len(entities)),
		byTable:  make(map[*atlas.Table]*schema.Entity, len(entities)),
		byEntity: make(map[string]*atlas.Table, len(entities)),
	}
	tableNames := make(map[string]string, len(entities))
	for _, e := range entities {
		if _, ok := s.byEntity[e.Name]; ok {
			return nil, fmt.Errorf("bind: entity %q bound twice", e.Name)
		}
		if e.Table == "" {
			return nil, fmt.Errorf("bind: entity %q: missing table name", e.Name)
		}
		if prev, ok := tableNames[strings.ToLower(e.Table)]; ok {
			return nil, fmt.Errorf("bind: entities %q and %q share table %q", prev, e.Name, e.Table)
		}
		t, err := b.table(e)
		if err != nil {
			return nil, fmt.Errorf("bind: entity %q: %w", e.Name, err)
		}
		tableNames[strings.ToLower(e.Table)] = e.Name
		s.schema.AddTables(t)
		s.entities = append(s.entities, e)
		s.byTable[t] = e
		s.byEntity[e.Name] = t
	}
	return s, nil
}

func (b *Binder) table(e *schema.Entity) (*atlas.Table, error) {
	t := atlas.NewTable(e.Table)
	keys, kerr := PrimaryKeyFields(b.u, e)
	if kerr != nil {
		b.logger.Warn("cannot resolve primary key, table has none", "entity", e.Name, "table", e.Table, "error", kerr)
	}
	keyCols := make(map[*schema.Field]*atlas.Column, len(keys))
	for _, f := range e.Fields {
		if field.IsEmbeddedID(f) {
			if kerr != nil {
				continue
			}
			for _, kf := range keys {
				c, err := b.column(e, kf, true)
				if err != nil {
					return nil, err
				}
				keyCols[kf] = c
				t.AddColumns(c)
			}
			continue
		}
		c, err := b.column(e, f, field.IsID(f))
		if err != nil {
			return nil, err
		}
		if field.IsID(f) {
			keyCols[f] = c
		}
		t.AddColumns(c)
	}
	if kerr != nil || len(keys) == 0 {
		return t, nil
	}
	parts := make([]*atlas.Column, 0, len(keys))
	for _, kf := range keys {
		parts = append(parts, keyCols[kf])
	}
	return t.SetPrimaryKey(atlas.NewPrimaryKey(parts...)), nil
}

// column returns the atlas column of a field. Slice fields become ARRAY
// columns; Spanner does not allow them in primary keys.
func (b *Binder) column(e *schema.Entity, f *schema.Field, key bool) (*atlas.Column, error) {
	if f.Type == nil {
		return nil, veloxspanner.NewTypeResolutionError("<nil>", fmt.Sprintf("field %q has no type", f.Name))
	}
	if f.Type.Kind == schema.KindSlice {
		if key {
			return nil, fmt.Errorf("field %q: ARRAY column cannot be part of the primary key", f.Name)
		}
		ac, err := spanner.NewArrayColumn(b.u, e, f.Name)
		if err != nil {
			return nil, err
		}
		return &atlas.Column{
			Name: f.ColumnName(),
			Type: &atlas.ColumnType{Type: &atlas.UnsupportedType{T: ac.TypeName()}, Raw: ac.TypeName(), Null: true},
		}, nil
	}
	t, err := b.u.ResolveType(f.Type)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	code, err := spanner.ElementTypeCode(t)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	typ, raw := columnType(code)
	return &atlas.Column{
		Name: f.ColumnName(),
		Type: &atlas.ColumnType{Type: typ, Raw: raw, Null: t.Kind == schema.KindPointer && !key},
	}, nil
}

// columnType returns the atlas type and DDL spelling of a scalar column.
func columnType(code spanner.TypeCode) (atlas.Type, string) {
	switch code {
	case spanner.Int64:
		return &atlas.IntegerType{T: code.String()}, code.String()
	case spanner.Float64:
		return &atlas.FloatType{T: code.String()}, code.String()
	case spanner.String:
		return &atlas.StringType{T: code.String()}, "STRING(MAX)"
	case spanner.Timestamp:
		return &atlas.TimeType{T: code.String()}, code.String()
	case spanner.Bool:
		return &atlas.BoolType{T: code.String()}, code.String()
	case spanner.Numeric:
		return &atlas.DecimalType{T: code.String()}, code.String()
	case spanner.Bytes:
		return &atlas.BinaryType{T: code.String()}, "BYTES(MAX)"
	}
	return &atlas.UnsupportedType{T: code.String()}, code.String()
}

// Universe returns the universe the snapshot was bound in.
func (s *Snapshot) Universe() *schema.Universe { return s.u }

// Schema returns the atlas schema holding the bound tables.
func (s *Snapshot) Schema() *atlas.Schema { return s.schema }

// Tables returns the bound tables in binding order.
func (s *Snapshot) Tables() []*atlas.Table {
	return append([]*atlas.Table(nil), s.schema.Tables...)
}

// Entities returns the bound entities in binding order.
func (s *Snapshot) Entities() []*schema.Entity {
	return append([]*schema.Entity(nil), s.entities...)
}

// EntityForTable returns the entity bound to the table. Tables are
// matched by identity, not by name.
func (s *Snapshot) EntityForTable(t *atlas.Table) (*schema.Entity, bool) {
	e, ok := s.byTable[t]
	return e, ok
}

// TableForEntity returns the table bound to the entity, or an
// EntityNotMappedError.
func (s *Snapshot) TableForEntity(e *schema.Entity) (*atlas.Table, error) {
	if e != nil {
		if t, ok := s.byEntity[e.Name]; ok {
			return t, nil
		}
		return nil, veloxspanner.NewEntityNotMappedError(e.Name)
	}
	return nil, veloxspanner.NewEntityNotMappedError("<nil>")
}

// InterleaveForTable returns the interleave declaration of the entity
// bound to t. It returns nil for tables without an entity or without a
// declaration.
func (s *Snapshot) InterleaveForTable(t *atlas.Table) (*Interleave, error) {
	e, ok := s.EntityForTable(t)
	if !ok {
		return nil, nil
	}
	return InterleaveOf(s.u, e)
}
