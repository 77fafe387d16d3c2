package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

func TestDropNullResponses(t *testing.T) {
	tbl := table.New(3)
	_, err := tbl.AddString("county", []string{"a", "b", "c"}, nil)
	require.NoError(t, err)
	_, err = tbl.AddFloat("GHLTH", []float64{16.2, 0, 12.0}, []bool{true, false, true})
	require.NoError(t, err)

	out, removed, err := DropNullResponses(tbl, "GHLTH")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, out.NumRows())

	_, _, err = DropNullResponses(tbl, "missing")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSchema, apperrors.KindOf(err))
}

func TestDropColumns(t *testing.T) {
	tbl := table.New(1)
	_, err := tbl.AddFloat("TEETHLOST", []float64{1}, nil)
	require.NoError(t, err)
	_, err = tbl.AddFloat("GHLTH", []float64{16.2}, nil)
	require.NoError(t, err)

	dropped := DropColumns(tbl, []string{"TEETHLOST", "SLEEP"})
	assert.Equal(t, 1, dropped, "absent names are ignored")
	assert.Equal(t, []string{"GHLTH"}, tbl.Names())
}
