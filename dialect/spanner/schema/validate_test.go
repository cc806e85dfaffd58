package schema_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	spschema "github.com/syssam/velox-spanner/dialect/spanner/schema"
)

func validate(t *testing.T, doc string, opts ...spschema.ValidateOption) *spschema.ValidationResult {
	t.Helper()
	u, _ := universe(t, doc)
	logger, _ := testLogger()
	s, err := spschema.NewBinder(u, spschema.WithLogger(logger)).Bind()
	require.NoError(t, err)
	return spschema.ValidateSnapshot(s, opts...)
}

func messages(errs []*spschema.ValidationError) []string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func TestValidateSnapshot(t *testing.T) {
	result := validate(t, music)
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasWarnings())
	assert.Equal(t, "No issues found", result.String())
}

func TestValidateSnapshot_InvalidInterleave(t *testing.T) {
	result := validate(t, family("      - {name: childId, type: int64}"))
	require.Len(t, result.Errors, 1)
	assert.Equal(t,
		"Children: primary key (childId int64) is not a strict superset of the primary key (parentId int64) of parent app.Parent",
		result.Errors[0].Error(),
	)
	assert.Contains(t, result.String(), "Errors:\n  - Children: primary key")
}

func TestValidateSnapshot_Inconclusive(t *testing.T) {
	const doc = `
entities:
  - name: app.Child
    interleave: {parent: app.Ghost}
    fields:
      - {name: id, type: int64, id: true}
`
	result := validate(t, doc)
	assert.False(t, result.HasErrors())
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "interleave check inconclusive")
	assert.Contains(t, result.Warnings[0].Message, "app.Ghost")

	result = validate(t, doc, spschema.WithStrictInterleave())
	require.Len(t, result.Errors, 1)
	assert.Empty(t, result.Warnings)
	assert.Contains(t, result.Errors[0].Message, "interleave check inconclusive")
}

func TestValidateSnapshot_UnboundParent(t *testing.T) {
	u, entities := universe(t, music)
	s, err := spschema.Bind(u, entities["app.Album"])
	require.NoError(t, err)
	result := spschema.ValidateSnapshot(s)
	assert.Equal(t, []string{"Albums: parent entity app.Singer has no table"}, messages(result.Errors))
}

func TestValidateSnapshot_Tables(t *testing.T) {
	result := validate(t, `
entities:
  - name: app.Log
    fields:
      - {name: Line, type: string}
      - {name: Text, type: string, column: line}
`)
	assert.Equal(t, []string{"Logs.line: duplicate column name"}, messages(result.Errors))
	assert.Equal(t, []string{"Logs: table has no primary key"}, messages(result.Warnings))
	assert.Contains(t, result.String(), "Warnings:\n  - Logs: table has no primary key")
}

func TestValidateSnapshot_Cycle(t *testing.T) {
	result := validate(t, `
entities:
  - name: app.A
    table: A
    interleave: {parent: app.B}
    fields:
      - {name: a, type: int64, id: true}
      - {name: b, type: int64, id: true}
  - name: app.B
    table: B
    interleave: {parent: app.A}
    fields:
      - {name: a, type: int64, id: true}
`)
	var cycles []string
	for _, msg := range messages(result.Errors) {
		if strings.Contains(msg, "interleave cycle") {
			cycles = append(cycles, msg)
		}
	}
	assert.Equal(t, []string{"A: interleave cycle: app.A -> app.B -> app.A"}, cycles)
}

func TestValidateSnapshot_SelfInterleave(t *testing.T) {
	result := validate(t, `
entities:
  - name: app.A
    table: A
    interleave: {parent: app.A}
    fields:
      - {name: a, type: int64, id: true}
`)
	assert.Contains(t, messages(result.Errors), "A: interleave cycle: app.A -> app.A")
}

func TestValidateSnapshot_Depth(t *testing.T) {
	var b strings.Builder
	b.WriteString("entities:\n")
	for i := 0; i <= spschema.MaxInterleaveDepth+1; i++ {
		fmt.Fprintf(&b, "  - name: app.T%d\n    table: T%d\n", i, i)
		if i > 0 {
			fmt.Fprintf(&b, "    interleave: {parent: app.T%d}\n", i-1)
		}
		b.WriteString("    fields:\n")
		for k := 0; k <= i; k++ {
			fmt.Fprintf(&b, "      - {name: k%d, type: int64, id: true}\n", k)
		}
	}
	result := validate(t, b.String())
	assert.Equal(t, []string{"T8: interleave depth 8 exceeds 7"}, messages(result.Errors))
}
