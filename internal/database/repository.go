package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/model"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
)

// Repository handles database operations for the pipeline and the server.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// PutParameters stores a fitted coefficient set as one parameters row. The
// coefficient key set must match the table's feature columns exactly so a
// model fit on a different feature contract cannot be served.
func (r *Repository) PutParameters(ctx context.Context, params model.Parameters) error {
	cols := parameterColumns()
	expected := make(map[string]bool, len(cols))
	for _, name := range cols {
		if name != model.InterceptKey {
			expected[name] = true
		}
	}

	var missing, extra []string
	for name := range expected {
		if _, ok := params.Coefficients[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range params.Coefficients {
		if !expected[name] {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		return apperrors.Schema("coefficients do not match the parameters schema (missing %v, unexpected %v)", missing, extra)
	}

	placeholders := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+1)
	for _, name := range cols {
		placeholders = append(placeholders, "?")
		if name == model.InterceptKey {
			args = append(args, params.Intercept)
		} else {
			args = append(args, params.Coefficients[name])
		}
	}
	placeholders = append(placeholders, "?")
	args = append(args, time.Now())

	query := fmt.Sprintf(
		"INSERT INTO parameters (%s, created_at) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.Connectivity("storing model parameters", err)
	}

	slog.Info("stored model parameters", "coefficients", len(params.Coefficients))
	return nil
}

// LatestParameters returns the most recently stored coefficient set.
func (r *Repository) LatestParameters(ctx context.Context) (model.Parameters, error) {
	cols := parameterColumns()
	query := fmt.Sprintf(
		"SELECT %s FROM parameters ORDER BY created_at DESC, id DESC LIMIT 1",
		strings.Join(cols, ", "),
	)

	values := make([]float64, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	err := r.db.QueryRowContext(ctx, query).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Parameters{}, apperrors.EmptyOrDuplicate("no model parameters stored, run the training pipeline first")
	}
	if err != nil {
		return model.Parameters{}, apperrors.Connectivity("loading model parameters", err)
	}

	params := model.Parameters{Coefficients: make(map[string]float64, len(cols)-1)}
	for i, name := range cols {
		if name == model.InterceptKey {
			params.Intercept = values[i]
		} else {
			params.Coefficients[name] = values[i]
		}
	}
	return params, nil
}

// PutRange stores the observed (min, max) for a scaled field. Implements
// the scaling range store used during featurization.
func (r *Repository) PutRange(ctx context.Context, field string, min, max float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scaler_ranges (field, min_value, max_value, created_at)
		VALUES (?, ?, ?, ?)
	`, model.CanonicalName(field), min, max, time.Now())
	if err != nil {
		return apperrors.Connectivity("storing scaling range", err)
	}
	return nil
}

// LatestRange returns the most recent (min, max) stored for a field.
func (r *Repository) LatestRange(ctx context.Context, field string) (*ScalerRange, error) {
	var sr ScalerRange
	err := r.db.QueryRowContext(ctx, `
		SELECT id, field, min_value, max_value, created_at
		FROM scaler_ranges
		WHERE field = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, model.CanonicalName(field)).Scan(&sr.ID, &sr.Field, &sr.Min, &sr.Max, &sr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.EmptyOrDuplicate("no scaling range stored for %s, run the featurize pipeline first", field)
	}
	if err != nil {
		return nil, apperrors.Connectivity("loading scaling range", err)
	}
	return &sr, nil
}

// PutPrediction stores one served prediction inside the given transaction.
func (r *Repository) PutPrediction(ctx context.Context, tx *sql.Tx, p *Prediction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO predictions (id, inputs, prediction, created_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Inputs, p.Prediction, p.CreatedAt)
	if err != nil {
		return apperrors.Connectivity("storing prediction", err)
	}
	return nil
}

// DeleteAllPredictions clears the predictions table and reports how many
// rows were removed.
func (r *Repository) DeleteAllPredictions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM predictions`)
	if err != nil {
		return 0, apperrors.Connectivity("deleting predictions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Connectivity("counting deleted predictions", err)
	}
	slog.Info("cleared stored predictions", "deleted", n)
	return n, nil
}

// SeedMeasures loads the measure reference rows, replacing any existing
// definitions. Idempotent.
func (r *Repository) SeedMeasures(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Connectivity("starting measures transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, def := range places.MeasureDefinitions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO measures (measure_id, category, short_text)
			VALUES (?, ?, ?)
			ON CONFLICT(measure_id) DO UPDATE SET
				category = excluded.category,
				short_text = excluded.short_text
		`, def.MeasureID, def.Category, def.ShortText)
		if err != nil {
			return apperrors.Connectivity("seeding measures", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Connectivity("committing measures", err)
	}

	slog.Info("seeded measure reference table", "measures", len(places.MeasureDefinitions))
	return nil
}

// MeasuresByCategory returns the reference measures grouped by category,
// ordered by short text within each group.
func (r *Repository) MeasuresByCategory(ctx context.Context) (map[string][]Measure, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT measure_id, category, short_text
		FROM measures
		ORDER BY category, short_text
	`)
	if err != nil {
		return nil, apperrors.Connectivity("loading measures", err)
	}
	defer rows.Close()

	grouped := make(map[string][]Measure)
	for rows.Next() {
		var m Measure
		if err := rows.Scan(&m.MeasureID, &m.Category, &m.ShortText); err != nil {
			return nil, apperrors.Connectivity("scanning measure", err)
		}
		grouped[m.Category] = append(grouped[m.Category], m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Connectivity("iterating measures", err)
	}
	return grouped, nil
}
