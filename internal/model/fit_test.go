package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// syntheticTable builds y = 1 + 2*x1 - 3*x2 without noise.
func syntheticTable(t *testing.T, rows int) *table.Table {
	t.Helper()
	rng := rand.New(rand.NewSource(99))

	x1 := make([]float64, rows)
	x2 := make([]float64, rows)
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		x1[i] = rng.Float64() * 10
		x2[i] = rng.Float64() * 5
		y[i] = 1 + 2*x1[i] - 3*x2[i]
	}

	tbl := table.New(rows)
	_, err := tbl.AddFloat("X1", x1, nil)
	require.NoError(t, err)
	_, err = tbl.AddFloat("X2", x2, nil)
	require.NoError(t, err)
	_, err = tbl.AddFloat("y", y, nil)
	require.NoError(t, err)
	return tbl
}

func TestFitRecoversCoefficients(t *testing.T) {
	tbl := syntheticTable(t, 50)

	params, m, err := Fit(tbl, []string{"X1", "X2"}, "y", Options{FitIntercept: true})
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.InDelta(t, 1.0, params.Intercept, 1e-3)
	assert.InDelta(t, 2.0, params.Coefficients["x1"], 1e-3, "coefficients keyed by canonical name")
	assert.InDelta(t, -3.0, params.Coefficients["x2"], 1e-3)
}

func TestFitWithoutIntercept(t *testing.T) {
	tbl := table.New(3)
	_, err := tbl.AddFloat("x", []float64{1, 2, 3}, nil)
	require.NoError(t, err)
	_, err = tbl.AddFloat("y", []float64{2, 4, 6}, nil)
	require.NoError(t, err)

	params, _, err := Fit(tbl, []string{"x"}, "y", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, params.Intercept)
	assert.InDelta(t, 2.0, params.Coefficients["x"], 1e-9)
}

func TestFitErrors(t *testing.T) {
	tbl := syntheticTable(t, 50)

	_, _, err := Fit(tbl, []string{"missing"}, "y", Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSchema, apperrors.KindOf(err))

	_, _, err = Fit(tbl, []string{"X1"}, "missing", Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSchema, apperrors.KindOf(err))

	_, _, err = Fit(table.New(0), []string{"X1"}, "y", Options{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindEmptyOrDuplicate, apperrors.KindOf(err))
}

func TestFitRejectsNulls(t *testing.T) {
	tbl := table.New(3)
	_, err := tbl.AddFloat("x", []float64{1, 2, 3}, []bool{true, false, true})
	require.NoError(t, err)
	_, err = tbl.AddFloat("y", []float64{2, 4, 6}, nil)
	require.NoError(t, err)

	_, _, err = Fit(tbl, []string{"x"}, "y", Options{FitIntercept: true})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNullValue, apperrors.KindOf(err))
}

func TestPredictTable(t *testing.T) {
	tbl := syntheticTable(t, 40)
	params, m, err := Fit(tbl, []string{"X1", "X2"}, "y", Options{FitIntercept: true})
	require.NoError(t, err)

	require.NoError(t, m.PredictTable(tbl, "y_hat"))

	yHat, ok := tbl.Column("y_hat")
	require.True(t, ok)
	y, _ := tbl.Column("y")
	for i := 0; i < tbl.NumRows(); i++ {
		want, _ := y.Float(i)
		got, valid := yHat.Float(i)
		require.True(t, valid)
		assert.InDelta(t, want, got, 1e-6)
	}

	// A model rebuilt from stored parameters must predict identically.
	rebuilt, err := NewModel(params, []string{"X1", "X2"})
	require.NoError(t, err)
	require.NoError(t, rebuilt.PredictTable(tbl, "y_hat2"))
	yHat2, _ := tbl.Column("y_hat2")
	for i := 0; i < tbl.NumRows(); i++ {
		a, _ := yHat.Float(i)
		b, _ := yHat2.Float(i)
		assert.InDelta(t, a, b, 1e-9)
	}
}

func TestNewModelMismatch(t *testing.T) {
	params := Parameters{Coefficients: map[string]float64{"a": 1}}

	_, err := NewModel(params, []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSchema, apperrors.KindOf(err))
}
