package load_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/velox-spanner/compiler/load"
	"github.com/syssam/velox-spanner/dialect/spannerschema"
	"github.com/syssam/velox-spanner/schema"
	"github.com/syssam/velox-spanner/schema/field"
)

const pkg = "github.com/syssam/velox-spanner/compiler/load_test."

type Singer struct {
	SingerID int64 `spanner:"id,column=SingerId"`
	Name     string
	secret   string //nolint:unused
}

type AlbumKey struct {
	SingerID int64
	AlbumID  int64
}

type Album struct {
	Key      AlbumKey `spanner:"embedded_id"`
	Title    string
	Ratings  []int32
	Released *time.Time
	Ignored  string `spanner:"-"`
}

func (Album) Annotations() []schema.Annotation {
	return []schema.Annotation{
		spannerschema.InterleaveIn(Singer{}),
		spannerschema.OnDeleteCascade(),
	}
}

type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Concert struct {
	Audit
	ConcertID int64 `spanner:"id"`
	Venue     string
}

func (Concert) Annotations() []schema.Annotation {
	return []schema.Annotation{spannerschema.Table("Gigs")}
}

type Node struct {
	NodeID int64 `spanner:"id"`
	Next   *Node
}

type Broken struct{}

func (Broken) Annotations() []schema.Annotation {
	panic("boom")
}

func TestLoader_Load(t *testing.T) {
	u := schema.NewUniverse()
	entities, err := load.Entities(u, Singer{}, &Album{}, Concert{})
	require.NoError(t, err)
	require.Len(t, entities, 3)

	singer := entities[0]
	assert.Equal(t, pkg+"Singer", singer.Name)
	assert.Equal(t, "Singers", singer.Table)
	require.Len(t, singer.Fields, 2, "unexported fields are skipped")
	assert.True(t, field.IsID(singer.Fields[0]))
	assert.Equal(t, "SingerId", singer.Fields[0].ColumnName())
	assert.Equal(t, "Name", singer.Fields[1].ColumnName())

	album := entities[1]
	assert.Equal(t, "Albums", album.Table)
	require.Len(t, album.Fields, 4, "fields tagged with - are skipped")
	assert.True(t, field.IsEmbeddedID(album.Fields[0]))
	assert.Equal(t, schema.KindRef, album.Fields[0].Type.Kind)
	assert.Equal(t, "[]int32", album.Fields[2].Type.Name)
	assert.Equal(t, "*time.Time", album.Fields[3].Type.Name)
	an, ok := spannerschema.Of(album.Annotations)
	require.True(t, ok)
	assert.Equal(t, pkg+"Singer", an.ParentEntity)
	assert.True(t, an.CascadeDelete)

	key, err := u.Resolve(pkg + "AlbumKey")
	require.NoError(t, err)
	assert.Equal(t, schema.KindStruct, key.Kind)
	require.Len(t, key.Fields, 2)
	assert.Equal(t, "SingerID", key.Fields[0].Name)

	concert := entities[2]
	assert.Equal(t, "Gigs", concert.Table)
	names := make([]string, 0, len(concert.Fields))
	for _, f := range concert.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"CreatedAt", "UpdatedAt", "ConcertID", "Venue"}, names)

	assert.Equal(t, []*schema.Entity{singer, album, concert}, u.Entities())
}

func TestLoader_Cache(t *testing.T) {
	l := load.NewLoader(schema.NewUniverse())
	e1, err := l.Load(Singer{})
	require.NoError(t, err)
	e2, err := l.Load(&Singer{})
	require.NoError(t, err)
	assert.Same(t, e1, e2)
	assert.Len(t, l.Universe().Entities(), 1)
}

func TestLoader_SelfReference(t *testing.T) {
	u := schema.NewUniverse()
	e, err := load.NewLoader(u).Load(Node{})
	require.NoError(t, err)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "*"+pkg+"Node", e.Fields[1].Type.Name)
}

func TestLoader_Errors(t *testing.T) {
	type badTag struct {
		ID int64 `spanner:"primary"`
	}
	type exclusive struct {
		ID int64 `spanner:"id,embedded_id"`
	}
	type scalarEmbeddedID struct {
		ID int64 `spanner:"embedded_id"`
	}
	type timeEmbeddedID struct {
		At time.Time `spanner:"embedded_id"`
	}
	type hiddenID struct {
		id int64 `spanner:"id"` //nolint:unused
	}
	type hiddenEmbeddedID struct {
		key AlbumKey `spanner:"embedded_id"` //nolint:unused
	}
	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{"nil", nil, "nil entity"},
		{"not_struct", 42, "invalid entity type"},
		{"bad_tag", badTag{}, `unknown spanner tag option "primary"`},
		{"exclusive", exclusive{}, "mutually exclusive"},
		{"scalar_embedded_id", scalarEmbeddedID{}, "embedded_id requires a struct type"},
		{"time_embedded_id", timeEmbeddedID{}, "embedded_id requires a struct type"},
		{"hidden_id", hiddenID{}, `field "id": spanner tag on unexported field`},
		{"hidden_embedded_id", hiddenEmbeddedID{}, `field "key": spanner tag on unexported field`},
		{"panic", Broken{}, "Annotations panics: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load.NewLoader(schema.NewUniverse()).Load(tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_Duplicate(t *testing.T) {
	u := schema.NewUniverse()
	_, err := load.Entities(u, Singer{})
	require.NoError(t, err)
	_, err = load.Entities(u, Singer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")
}
