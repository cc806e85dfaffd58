package spanner_test

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	veloxspanner "github.com/syssam/velox-spanner"
	"github.com/syssam/velox-spanner/compiler/load"
	"github.com/syssam/velox-spanner/dialect/spanner"
	"github.com/syssam/velox-spanner/schema"
)

func TestElementTypeCode(t *testing.T) {
	tests := []struct {
		typ  *schema.Type
		want spanner.TypeCode
	}{
		{schema.Int, spanner.Int64},
		{schema.Int32, spanner.Int64},
		{schema.Int64, spanner.Int64},
		{schema.Float64, spanner.Float64},
		{schema.String, spanner.String},
		{schema.UUID, spanner.String},
		{schema.Time, spanner.Timestamp},
		{schema.Bool, spanner.Bool},
		{schema.Rat, spanner.Numeric},
		{schema.Decimal, spanner.Numeric},
		{schema.Bytes, spanner.Bytes},
		{schema.PointerTo(schema.Int32), spanner.Int64},
		{schema.PointerTo(schema.PointerTo(schema.Time)), spanner.Timestamp},
	}
	for _, tt := range tests {
		t.Run(tt.typ.Name, func(t *testing.T) {
			code, err := spanner.ElementTypeCode(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestElementTypeCode_Unsupported(t *testing.T) {
	for _, typ := range []*schema.Type{
		schema.Int8,
		schema.Uint64,
		schema.Float32,
		schema.Ref("app.Point"),
		{Name: "app.Point", Kind: schema.KindStruct},
		schema.SliceOf(schema.Int64),
		schema.MapOf(schema.String, schema.Int64),
		nil,
	} {
		_, err := spanner.ElementTypeCode(typ)
		require.Error(t, err, typ.String())
		assert.True(t, veloxspanner.IsUnsupportedType(err))
		assert.Contains(t, err.Error(), typ.String())
	}
}

func TestArrayType(t *testing.T) {
	assert.Equal(t, "ARRAY<INT64>", spanner.ArrayType(spanner.Int64))
	assert.Equal(t, "ARRAY<NUMERIC>", spanner.ArrayType(spanner.Numeric))
}

type Point struct {
	X, Y int
}

type Track struct {
	TrackID  int64 `spanner:"id"`
	Title    string
	Blob     []byte
	Ratings  []int32
	Tags     []string
	Scores   []*float64
	Keys     []uuid.UUID
	Prices   []decimal.Decimal
	Points   []Point
	Fixed    [3]int64
	Released []*big.Rat
}

func loadTrack(t *testing.T) (*schema.Universe, *schema.Entity) {
	t.Helper()
	u := schema.NewUniverse()
	e, err := load.NewLoader(u).Load(Track{})
	require.NoError(t, err)
	return u, e
}

func TestNewArrayColumn(t *testing.T) {
	u, e := loadTrack(t)
	tests := []struct {
		field string
		want  string
	}{
		{"Ratings", "ARRAY<INT64>"},
		{"Tags", "ARRAY<STRING>"},
		{"Scores", "ARRAY<FLOAT64>"},
		{"Keys", "ARRAY<STRING>"},
		{"Prices", "ARRAY<NUMERIC>"},
		{"Released", "ARRAY<NUMERIC>"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			c, err := spanner.NewArrayColumn(u, e, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.TypeName())
			assert.Equal(t, tt.field, c.ColumnName())
		})
	}
}

func TestNewArrayColumn_Errors(t *testing.T) {
	u, e := loadTrack(t)

	for _, name := range []string{"Title", "Blob", "Fixed", "TrackID"} {
		_, err := spanner.NewArrayColumn(u, e, name)
		require.Error(t, err, name)
		assert.True(t, spanner.IsInvalidArrayField(err), name)
		assert.ErrorIs(t, err, spanner.ErrInvalidArrayField)
	}

	_, err := spanner.NewArrayColumn(u, e, "Points")
	require.Error(t, err)
	assert.True(t, veloxspanner.IsUnsupportedType(err))
	assert.Contains(t, err.Error(), "spanner_test.Point")

	_, err = spanner.NewArrayColumn(u, e, "Missing")
	require.Error(t, err)
	assert.True(t, veloxspanner.IsFieldNotFound(err))
}

func TestNewArrayColumn_YAML(t *testing.T) {
	u := schema.NewUniverse()
	entities, err := load.FromYAML(u, []byte(`
entities:
  - name: app.A
    fields:
      - {name: Refs, type: "[]app.Unknown"}
`))
	require.NoError(t, err)
	_, err = spanner.NewArrayColumn(u, entities[0], "Refs")
	require.Error(t, err)
	assert.True(t, veloxspanner.IsTypeResolution(err))

	broken := &schema.Entity{Name: "app.B", Fields: []*schema.Field{
		{Name: "Elems", Type: &schema.Type{Name: "[]", Kind: schema.KindSlice}},
	}}
	_, err = spanner.NewArrayColumn(u, broken, "Elems")
	require.Error(t, err)
	assert.True(t, spanner.IsInvalidArrayField(err))
	assert.Contains(t, err.Error(), "missing element type")
}
