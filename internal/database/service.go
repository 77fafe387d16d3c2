package database

import (
	"context"
	"log/slog"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/model"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
)

// PredictionService serves predictions from the latest stored parameters
// and records every served prediction.
type PredictionService struct {
	db   *DB
	repo *Repository
}

// NewPredictionService creates a new prediction service.
func NewPredictionService(db *DB, repo *Repository) *PredictionService {
	return &PredictionService{db: db, repo: repo}
}

// ScalePopulation maps a raw county population onto the [0,1] scale the
// model was trained with, using the latest stored range. Values outside
// the training range scale past the unit interval rather than clamping,
// matching how the linear model extrapolates.
func (s *PredictionService) ScalePopulation(ctx context.Context, population float64) (float64, error) {
	if population < 0 {
		return 0, apperrors.Range("population %g cannot be negative", population)
	}
	sr, err := s.repo.LatestRange(ctx, places.ColPopulation)
	if err != nil {
		return 0, err
	}
	return (population - sr.Min) / (sr.Max - sr.Min), nil
}

// Predict evaluates the latest stored model on the given feature map,
// records the served prediction, and returns the probability-scale result.
// The record insert runs in its own transaction so a storage failure never
// reports a prediction that was not persisted.
func (s *PredictionService) Predict(ctx context.Context, features map[string]float64) (float64, error) {
	params, err := s.repo.LatestParameters(ctx)
	if err != nil {
		return 0, err
	}

	prediction, err := model.Predict(params, features)
	if err != nil {
		return 0, err
	}

	record, err := NewPrediction(features, prediction)
	if err != nil {
		return 0, apperrors.Connectivity("encoding prediction record", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.Connectivity("starting prediction transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := s.repo.PutPrediction(ctx, tx, record); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, apperrors.Connectivity("committing prediction", err)
	}

	slog.Info("served prediction", "id", record.ID, "prediction", prediction)
	return prediction, nil
}

// Reset clears all stored predictions.
func (s *PredictionService) Reset(ctx context.Context) (int64, error) {
	return s.repo.DeleteAllPredictions(ctx)
}
