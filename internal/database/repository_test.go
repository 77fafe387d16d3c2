package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/model"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
)

func testRepo(t *testing.T) (*DB, *Repository) {
	t.Helper()
	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, NewRepository(db)
}

// fullParameters builds a coefficient set matching the parameters schema.
func fullParameters(fill float64) model.Parameters {
	params := model.Parameters{Coefficients: make(map[string]float64)}
	for _, name := range places.ModelFeatures {
		params.Coefficients[model.CanonicalName(name)] = fill
	}
	return params
}

func TestParametersRoundTrip(t *testing.T) {
	_, repo := testRepo(t)
	ctx := context.Background()

	params := fullParameters(0.5)
	params.Intercept = -1.25
	require.NoError(t, repo.PutParameters(ctx, params))

	got, err := repo.LatestParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, -1.25, got.Intercept)
	assert.Equal(t, params.Coefficients, got.Coefficients)
}

func TestLatestParametersWins(t *testing.T) {
	_, repo := testRepo(t)
	ctx := context.Background()

	first := fullParameters(1)
	second := fullParameters(2)
	require.NoError(t, repo.PutParameters(ctx, first))
	require.NoError(t, repo.PutParameters(ctx, second))

	got, err := repo.LatestParameters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Coefficients[model.CanonicalName(places.ModelFeatures[0])])
}

func TestPutParametersRejectsMismatch(t *testing.T) {
	_, repo := testRepo(t)

	err := repo.PutParameters(context.Background(), model.Parameters{
		Coefficients: map[string]float64{"bogus": 1},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSchema, apperrors.KindOf(err))
}

func TestLatestParametersEmpty(t *testing.T) {
	_, repo := testRepo(t)

	_, err := repo.LatestParameters(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindEmptyOrDuplicate, apperrors.KindOf(err))
}

func TestRangeRoundTrip(t *testing.T) {
	_, repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.PutRange(ctx, places.ColPopulation, 100, 9000))
	require.NoError(t, repo.PutRange(ctx, places.ColPopulation, 50, 10000))

	sr, err := repo.LatestRange(ctx, places.ColPopulation)
	require.NoError(t, err)
	assert.Equal(t, 50.0, sr.Min)
	assert.Equal(t, 10000.0, sr.Max)

	_, err = repo.LatestRange(ctx, "never_scaled")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindEmptyOrDuplicate, apperrors.KindOf(err))
}

func TestSeedMeasures(t *testing.T) {
	_, repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedMeasures(ctx))
	require.NoError(t, repo.SeedMeasures(ctx), "seeding must be idempotent")

	grouped, err := repo.MeasuresByCategory(ctx)
	require.NoError(t, err)

	total := 0
	for _, measures := range grouped {
		total += len(measures)
	}
	assert.Equal(t, len(places.MeasureDefinitions), total)
	assert.NotEmpty(t, grouped[places.CategoryOutcomes])
}

func TestPredictionService(t *testing.T) {
	db, repo := testRepo(t)
	ctx := context.Background()
	service := NewPredictionService(db, repo)

	// All-zero coefficients and intercept give exactly one half.
	require.NoError(t, repo.PutParameters(ctx, fullParameters(0)))
	require.NoError(t, repo.PutRange(ctx, places.ColPopulation, 1000, 11000))

	features := make(map[string]float64)
	for _, name := range places.ModelFeatures {
		features[model.CanonicalName(name)] = 0.1
	}

	got, err := service.Predict(ctx, features)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&count))
	assert.Equal(t, 1, count, "served prediction must be recorded")

	deleted, err := service.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestScalePopulation(t *testing.T) {
	db, repo := testRepo(t)
	ctx := context.Background()
	service := NewPredictionService(db, repo)

	require.NoError(t, repo.PutRange(ctx, places.ColPopulation, 1000, 11000))

	scaled, err := service.ScalePopulation(ctx, 6000)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, scaled, 1e-12)

	_, err = service.ScalePopulation(ctx, -5)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRange, apperrors.KindOf(err))
}
