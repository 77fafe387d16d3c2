package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

func longTable(t *testing.T, states, counties, measures []string, values []float64, valid []bool) *table.Table {
	t.Helper()
	tbl := table.New(len(states))
	_, err := tbl.AddString("state", states, nil)
	require.NoError(t, err)
	_, err = tbl.AddString("county", counties, nil)
	require.NoError(t, err)
	_, err = tbl.AddString("measure", measures, valid)
	require.NoError(t, err)
	_, err = tbl.AddFloat("value", values, valid)
	require.NoError(t, err)
	return tbl
}

func TestPivot(t *testing.T) {
	long := longTable(t,
		[]string{"Illinois", "Illinois", "Wisconsin"},
		[]string{"Cook", "Cook", "Dane"},
		[]string{"GHLTH", "OBESITY", "GHLTH"},
		[]float64{16.2, 30.1, 12.0},
		nil,
	)

	wide, err := Pivot(long, []string{"state", "county"}, "measure", "value")
	require.NoError(t, err)

	assert.Equal(t, 2, wide.NumRows(), "one row per entity")
	assert.Equal(t, []string{"state", "county", "GHLTH", "OBESITY"}, wide.Names(),
		"index columns first, then measures sorted")

	ghlth, ok := wide.Column("GHLTH")
	require.True(t, ok)
	v, valid := ghlth.Float(0)
	assert.True(t, valid)
	assert.Equal(t, 16.2, v)

	obesity, ok := wide.Column("OBESITY")
	require.True(t, ok)
	v, valid = obesity.Float(0)
	assert.True(t, valid)
	assert.Equal(t, 30.1, v)
	_, valid = obesity.Float(1)
	assert.False(t, valid, "missing combination should be a null cell")

	state, _ := wide.Column("state")
	first, _ := state.StringAt(0)
	assert.Equal(t, "Illinois", first, "entity order follows first appearance")
}

func TestPivotDuplicateKey(t *testing.T) {
	long := longTable(t,
		[]string{"Illinois", "Illinois"},
		[]string{"Cook", "Cook"},
		[]string{"GHLTH", "GHLTH"},
		[]float64{16.2, 17.0},
		nil,
	)

	_, err := Pivot(long, []string{"state", "county"}, "measure", "value")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindDuplicateKey, apperrors.KindOf(err))
}

func TestPivotNullCells(t *testing.T) {
	long := longTable(t,
		[]string{"Illinois"},
		[]string{"Cook"},
		[]string{"GHLTH"},
		[]float64{16.2},
		[]bool{false},
	)

	_, err := Pivot(long, []string{"state", "county"}, "measure", "value")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNullValue, apperrors.KindOf(err))
}

func TestPivotSchemaErrors(t *testing.T) {
	long := longTable(t,
		[]string{"Illinois"}, []string{"Cook"}, []string{"GHLTH"}, []float64{16.2}, nil,
	)

	_, err := Pivot(long, []string{"missing"}, "measure", "value")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSchema, apperrors.KindOf(err))

	_, err = Pivot(long, []string{"state"}, "value", "value")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindTypeMismatch, apperrors.KindOf(err))
}
