package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVInfersKinds(t *testing.T) {
	path := writeFile(t, "state,value\nIllinois,14.2\nOhio,\n")

	tbl, err := ReadCSV(path, nil)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())

	state, ok := tbl.Column("state")
	require.True(t, ok)
	assert.Equal(t, String, state.Kind)

	value, ok := tbl.Column("value")
	require.True(t, ok)
	assert.Equal(t, Float, value.Kind)

	v, valid := value.Float(0)
	assert.True(t, valid)
	assert.Equal(t, 14.2, v)
	_, valid = value.Float(1)
	assert.False(t, valid, "empty cell should import as null")
}

func TestReadCSVRequiredColumns(t *testing.T) {
	path := writeFile(t, "a,b,c\n1,2,3\n")

	tbl, err := ReadCSV(path, []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, tbl.Names())

	_, err = ReadCSV(path, []string{"a", "missing"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSchema))
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), nil)
	assert.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl := New(2)
	_, err := tbl.AddString("name", []string{"a", "b"}, nil)
	require.NoError(t, err)
	_, err = tbl.AddFloat("v", []float64{1.5, 0}, []bool{true, false})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "data.csv")
	require.NoError(t, WriteCSV(tbl, path))

	back, err := ReadCSV(path, nil)
	require.NoError(t, err)
	require.Equal(t, 2, back.NumRows())

	v, ok := back.Column("v")
	require.True(t, ok)
	_, valid := v.Float(1)
	assert.False(t, valid, "null cell should survive export and import")
}
