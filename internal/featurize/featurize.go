// Package featurize derives model-ready features from the pivoted county
// table: proportion rescaling, the log-odds response transform, min-max
// scaling with persisted ranges, and one-hot region encoding.
package featurize

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// ScaledPrefix distinguishes min-max scaled columns from their sources.
const ScaledPrefix = "scaled_"

// RangeStore receives the (min, max) observed for each scaled field so the
// identical scaling can be applied to fresh input at prediction time.
type RangeStore interface {
	PutRange(ctx context.Context, field string, min, max float64) error
}

// Proportions divides whole-number percentage columns by 100 in place,
// producing [0,1] proportions. Null cells are left null.
func Proportions(t *table.Table, cols []string) error {
	for _, name := range cols {
		col, ok := t.Column(name)
		if !ok {
			return apperrors.Schema("column %s is not present", name)
		}
		if col.Kind != table.Float {
			return apperrors.TypeMismatch("column %s must be numeric, got %s", name, col.Kind)
		}
	}
	for _, name := range cols {
		col, _ := t.Column(name)
		for i := range col.Floats {
			if col.Valid[i] {
				col.Floats[i] /= 100
			}
		}
	}
	return nil
}

// Logit stores ln(p/(1-p)) of col as a new column named dest. Values at or
// beyond the open interval (0,1) have no finite log-odds and are rejected
// rather than producing ±Inf. Null cells stay null.
func Logit(t *table.Table, col, dest string) error {
	src, ok := t.Column(col)
	if !ok {
		return apperrors.Schema("column %s is not present", col)
	}
	if src.Kind != table.Float {
		return apperrors.TypeMismatch("column %s must be numeric, got %s", col, src.Kind)
	}

	out := make([]float64, t.NumRows())
	valid := make([]bool, t.NumRows())
	for i := range src.Floats {
		if !src.Valid[i] {
			continue
		}
		p := src.Floats[i]
		if p <= 0 || p >= 1 {
			return apperrors.Range("column %s row %d: proportion %g outside (0,1) has no finite log-odds", col, i, p)
		}
		out[i] = math.Log(p / (1 - p))
		valid[i] = true
	}
	_, err := t.AddFloat(dest, out, valid)
	return err
}

// MinMaxScale rescales each named column to [0,1] using its observed min
// and max, storing the result as a new scaled_-prefixed column and
// appending the range to store for reuse at prediction time. A nil store
// skips persistence with a warning. Zero-variance columns are rejected.
func MinMaxScale(ctx context.Context, t *table.Table, cols []string, store RangeStore) error {
	for _, name := range cols {
		col, ok := t.Column(name)
		if !ok {
			return apperrors.Schema("column %s is not present", name)
		}
		if col.Kind != table.Float {
			return apperrors.TypeMismatch("column %s must be numeric, got %s", name, col.Kind)
		}

		min, max := math.Inf(1), math.Inf(-1)
		seen := false
		for i := range col.Floats {
			if !col.Valid[i] {
				continue
			}
			seen = true
			if col.Floats[i] < min {
				min = col.Floats[i]
			}
			if col.Floats[i] > max {
				max = col.Floats[i]
			}
		}
		if !seen {
			return apperrors.NullValue("column %s has no non-null values to scale", name)
		}
		if min == max {
			return apperrors.DegenerateScale("column %s has zero variance (min == max == %g)", name, min)
		}

		scaled := make([]float64, t.NumRows())
		valid := make([]bool, t.NumRows())
		for i := range col.Floats {
			if col.Valid[i] {
				scaled[i] = (col.Floats[i] - min) / (max - min)
				valid[i] = true
			}
		}
		if _, err := t.AddFloat(ScaledPrefix+name, scaled, valid); err != nil {
			return err
		}

		if store == nil {
			slog.Warn("scaling range not recorded, no range store configured", "field", name)
			continue
		}
		if err := store.PutRange(ctx, name, min, max); err != nil {
			return err
		}
		slog.Info("scaling range recorded", "field", name, "min", min, "max", max)
	}
	return nil
}

// RegionOptions configures the one-hot region encoding.
type RegionOptions struct {
	// Column is the grouping field mapped through the lookup, e.g. the
	// state name column.
	Column string
	// Mapping maps grouping values to region categories.
	Mapping map[string]string
	// Reference is the category omitted from the indicator set to avoid
	// the dummy-variable trap. It must appear in Mapping's value set.
	Reference string
	// Strict makes an unmapped grouping value a fatal error. When false,
	// unmapped rows get a null region and all-zero indicators, which is
	// indistinguishable from the reference category; callers accepting
	// that ambiguity get the unmapped names back for their own handling.
	Strict bool
}

// EncodeRegions adds a "region" column plus one 1/0 indicator column per
// category in the mapping's value set, excluding the reference category.
// Returns the distinct unmapped grouping values (empty when Strict, since
// any unmapped value fails instead).
func EncodeRegions(t *table.Table, opts RegionOptions) ([]string, error) {
	src, ok := t.Column(opts.Column)
	if !ok {
		return nil, apperrors.Schema("column %s is not present", opts.Column)
	}
	if src.Kind != table.String {
		return nil, apperrors.TypeMismatch("column %s must be string, got %s", opts.Column, src.Kind)
	}

	categorySet := map[string]bool{}
	for _, region := range opts.Mapping {
		categorySet[region] = true
	}
	if !categorySet[opts.Reference] {
		return nil, apperrors.Range("reference category %s is not in the mapping's value set", opts.Reference)
	}
	categories := make([]string, 0, len(categorySet))
	for region := range categorySet {
		if region != opts.Reference {
			categories = append(categories, region)
		}
	}
	sort.Strings(categories)

	regions := make([]string, t.NumRows())
	regionValid := make([]bool, t.NumRows())
	unmappedSet := map[string]bool{}
	for i := 0; i < t.NumRows(); i++ {
		name, valid := src.StringAt(i)
		if !valid {
			unmappedSet[""] = true
			continue
		}
		region, ok := opts.Mapping[name]
		if !ok {
			unmappedSet[name] = true
			continue
		}
		regions[i] = region
		regionValid[i] = true
	}

	unmapped := make([]string, 0, len(unmappedSet))
	for name := range unmappedSet {
		unmapped = append(unmapped, name)
	}
	sort.Strings(unmapped)

	if len(unmapped) > 0 {
		if opts.Strict {
			return nil, apperrors.NullValue("unmapped %s values: %v", opts.Column, unmapped)
		}
		slog.Warn("unmapped grouping values produce all-zero region indicators", "column", opts.Column, "values", unmapped)
	}

	if _, err := t.AddString("region", regions, regionValid); err != nil {
		return nil, err
	}
	for _, category := range categories {
		indicator := make([]float64, t.NumRows())
		for i := 0; i < t.NumRows(); i++ {
			if regionValid[i] && regions[i] == category {
				indicator[i] = 1
			}
		}
		if _, err := t.AddFloat(category, indicator, nil); err != nil {
			return nil, err
		}
	}
	return unmapped, nil
}
