package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	color.NoColor = true
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "validate", filepath.Join("testdata", "music.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "2 table(s) checked, no issues found\n", out)
}

func TestValidate_Errors(t *testing.T) {
	out, stderr, err := run(t, "validate", filepath.Join("testdata", "broken.yaml"))
	require.Error(t, err)
	assert.Equal(t, "schema has 1 error(s)", err.Error())
	assert.Contains(t, out, "error: Concerts: primary key (ConcertID int64) is not a strict superset of the primary key (VenueID int64) of parent app.Venue\n")
	assert.Contains(t, out, "warning: Posters: interleave check inconclusive")
	assert.Contains(t, out, "3 table(s) checked, 1 error(s), 1 warning(s)\n")
	assert.Contains(t, stderr, "interleave check inconclusive")

	_, _, err = run(t, "validate", "--strict", filepath.Join("testdata", "broken.yaml"))
	require.Error(t, err)
	assert.Equal(t, "schema has 2 error(s)", err.Error())
}

func TestValidate_BadInput(t *testing.T) {
	_, _, err := run(t, "validate")
	require.Error(t, err)

	_, _, err = run(t, "validate", filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading snapshot file")
}

func TestDescribe(t *testing.T) {
	out, stderr, err := run(t, "describe", "--verbose", filepath.Join("testdata", "music.yaml"))
	require.NoError(t, err)
	assert.Equal(t, `Singers (app.Singer)
  SingerId INT64 NOT NULL
  Name STRING(MAX) NOT NULL
  PRIMARY KEY (SingerId)
Albums (app.Album)
  SingerId INT64 NOT NULL
  AlbumId INT64 NOT NULL
  Genres ARRAY<STRING>
  PRIMARY KEY (SingerId, AlbumId)
  INTERLEAVE IN PARENT Singers ON DELETE CASCADE
`, out)
	assert.Contains(t, stderr, "snapshot loaded")
}
