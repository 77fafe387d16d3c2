package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
)

func TestAddFloat(t *testing.T) {
	tbl := New(3)

	col, err := tbl.AddFloat("a", []float64{1, 2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, Float, col.Kind)
	assert.True(t, tbl.Has("a"))

	_, err = tbl.AddFloat("a", []float64{4, 5, 6}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicateKey))

	_, err = tbl.AddFloat("b", []float64{1, 2}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindRange))
}

func TestNullMasks(t *testing.T) {
	tbl := New(2)
	col, err := tbl.AddFloat("a", []float64{1, 99}, []bool{true, false})
	require.NoError(t, err)

	v, ok := col.Float(0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = col.Float(1)
	assert.False(t, ok, "masked cell should read as null")
}

func TestDrop(t *testing.T) {
	tbl := New(1)
	_, err := tbl.AddFloat("a", []float64{1}, nil)
	require.NoError(t, err)
	_, err = tbl.AddString("b", []string{"x"}, nil)
	require.NoError(t, err)

	dropped := tbl.Drop("a", "missing")
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"b"}, tbl.Names())
	assert.Equal(t, 1, tbl.NumRows())
}

func TestFilter(t *testing.T) {
	tbl := New(4)
	_, err := tbl.AddFloat("a", []float64{1, 2, 3, 4}, []bool{true, true, false, true})
	require.NoError(t, err)
	_, err = tbl.AddString("s", []string{"w", "x", "y", "z"}, nil)
	require.NoError(t, err)

	out := tbl.Filter(func(row int) bool { return row%2 == 0 })
	require.Equal(t, 2, out.NumRows())

	col, ok := out.Column("a")
	require.True(t, ok)
	v, valid := col.Float(0)
	assert.True(t, valid)
	assert.Equal(t, 1.0, v)
	_, valid = col.Float(1)
	assert.False(t, valid, "null mask should survive filtering")

	s, ok := out.Column("s")
	require.True(t, ok)
	got, _ := s.StringAt(1)
	assert.Equal(t, "y", got)
}

func TestRowKey(t *testing.T) {
	tbl := New(2)
	_, err := tbl.AddString("a", []string{"x,y", "x"}, nil)
	require.NoError(t, err)
	_, err = tbl.AddString("b", []string{"z", ",y\x1fz"}, nil)
	require.NoError(t, err)

	// "x,y"+"z" must not collide with "x"+",y..z" under any separator.
	assert.NotEqual(t, tbl.RowKey(0, []string{"a", "b"}), tbl.RowKey(1, []string{"a", "b"}))
}
