// Package model covers the modeling stages: train/test assignment,
// least-squares fitting, response-scale prediction, and holdout evaluation.
package model

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// TrainingColumn marks each row's split assignment: 1 for training, 0 for
// test.
const TrainingColumn = "training"

// Split assigns each row to the training or test partition by adding the
// training indicator column in place. The test partition size is
// round(rows * testFraction); membership is drawn from a seeded shuffle so
// a given (table, fraction, seed) always produces the same assignment.
func Split(t *table.Table, testFraction float64, seed int64) error {
	if testFraction < 0 || testFraction >= 1 {
		return apperrors.Range("test fraction %g outside [0,1)", testFraction)
	}
	if t.NumRows() == 0 {
		return apperrors.EmptyOrDuplicate("cannot split an empty dataset")
	}

	n := t.NumRows()
	k := int(math.Round(float64(n) * testFraction))

	training := make([]float64, n)
	for i := range training {
		training[i] = 1
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	for _, i := range perm[:k] {
		training[i] = 0
	}

	if _, err := t.AddFloat(TrainingColumn, training, nil); err != nil {
		return err
	}
	slog.Info("assigned train/test split", "rows", n, "test", k, "seed", seed)
	return nil
}

// TrainingRows returns the subset of rows assigned to the given partition.
func TrainingRows(t *table.Table, training bool) (*table.Table, error) {
	col, ok := t.Column(TrainingColumn)
	if !ok {
		return nil, apperrors.Schema("column %s is not present, split the data first", TrainingColumn)
	}
	want := 0.0
	if training {
		want = 1.0
	}
	return t.Filter(func(row int) bool {
		return col.Valid[row] && col.Floats[row] == want
	}), nil
}
