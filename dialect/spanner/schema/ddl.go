package schema

import (
	"strings"

	atlas "ariga.io/atlas/sql/schema"
)

// InterleaveClause returns the interleave clause of a CREATE TABLE
// statement for t, e.g.
//
//	INTERLEAVE IN PARENT Singers ON DELETE CASCADE
//
// It returns an empty string for tables that are not interleaved, and
// an EntityNotMappedError when the parent entity has no table in s.
func (s *Snapshot) InterleaveClause(t *atlas.Table) (string, error) {
	il, err := s.InterleaveForTable(t)
	if err != nil || il == nil {
		return "", err
	}
	parent, err := s.TableForEntity(il.Parent)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("INTERLEAVE IN PARENT ")
	b.WriteString(parent.Name)
	if il.CascadeDelete {
		b.WriteString(" ON DELETE CASCADE")
	}
	return b.String(), nil
}

// ColumnType returns the Spanner type of a bound column, e.g. INT64,
// STRING(MAX) or ARRAY<STRING>.
func ColumnType(c *atlas.Column) string {
	if c == nil || c.Type == nil {
		return ""
	}
	if c.Type.Raw != "" {
		return c.Type.Raw
	}
	switch t := c.Type.Type.(type) {
	case *atlas.IntegerType:
		return t.T
	case *atlas.FloatType:
		return t.T
	case *atlas.StringType:
		return t.T
	case *atlas.TimeType:
		return t.T
	case *atlas.BoolType:
		return t.T
	case *atlas.DecimalType:
		return t.T
	case *atlas.BinaryType:
		return t.T
	case *atlas.UnsupportedType:
		return t.T
	}
	return ""
}

// PrimaryKeyColumns returns the names of the primary key columns of t in
// key order.
func PrimaryKeyColumns(t *atlas.Table) []string {
	if t.PrimaryKey == nil {
		return nil
	}
	names := make([]string, 0, len(t.PrimaryKey.Parts))
	for _, p := range t.PrimaryKey.Parts {
		if p.C != nil {
			names = append(names, p.C.Name)
		}
	}
	return names
}
