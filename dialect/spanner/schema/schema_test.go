package schema_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/velox-spanner/compiler/load"
	"github.com/syssam/velox-spanner/schema"
)

// music is a snapshot with a composite-key child interleaved in its parent.
const music = `
types:
  - name: app.AlbumKey
    fields:
      - {name: SingerID, type: int64, column: SingerId}
      - {name: AlbumID, type: int64, column: AlbumId}
entities:
  - name: app.Singer
    fields:
      - {name: SingerID, type: int64, id: true, column: SingerId}
      - {name: Name, type: string}
      - {name: Born, type: "*time.Time"}
  - name: app.Album
    interleave: {parent: app.Singer, cascade_delete: true}
    fields:
      - {name: Key, type: app.AlbumKey, embedded_id: true}
      - {name: Title, type: string}
      - {name: Ratings, type: "[]int32"}
      - {name: Price, type: github.com/shopspring/decimal.Decimal}
`

// family builds the parent/child scenario: Parent is keyed by parentId
// and Child by the composite key given in childKey.
func family(childKey string) string {
	return `
types:
  - name: app.ChildKey
    fields:
` + childKey + `
entities:
  - name: app.Parent
    fields:
      - {name: parentId, type: int64, id: true}
  - name: app.Child
    table: Children
    interleave: {parent: app.Parent}
    fields:
      - {name: id, type: app.ChildKey, embedded_id: true}
`
}

func universe(t *testing.T, doc string) (*schema.Universe, map[string]*schema.Entity) {
	t.Helper()
	u := schema.NewUniverse()
	entities, err := load.FromYAML(u, []byte(doc))
	require.NoError(t, err)
	byName := make(map[string]*schema.Entity, len(entities))
	for _, e := range entities {
		byName[e.Name] = e
	}
	return u, byName
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
