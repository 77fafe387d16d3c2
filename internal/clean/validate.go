// Package clean validates the raw extract and reshapes it into one row
// per county: schema validation, long-to-wide pivot, and measure filtering.
package clean

import (
	"sort"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// Validate checks a table against a required column/type contract: the
// table must be non-empty with no fully duplicate rows, and every column in
// schema must be present, of the expected kind, and free of nulls. The
// first violation found is reported; no partial results and no side
// effects.
func Validate(t *table.Table, schema map[string]table.Kind) error {
	if t.NumRows() == 0 {
		return apperrors.EmptyOrDuplicate("dataset has no records")
	}

	names := t.Names()
	seen := make(map[string]int, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := t.RowKey(i, names)
		if first, ok := seen[key]; ok {
			return apperrors.EmptyOrDuplicate("rows %d and %d are exact duplicates", first, i)
		}
		seen[key] = i
	}

	required := make([]string, 0, len(schema))
	for name := range schema {
		required = append(required, name)
	}
	sort.Strings(required)

	for _, name := range required {
		col, ok := t.Column(name)
		if !ok {
			return apperrors.Schema("required column %s is not present", name)
		}
		if col.Kind != schema[name] {
			return apperrors.TypeMismatch("column %s is %s, expected %s", name, col.Kind, schema[name])
		}
		for i := 0; i < t.NumRows(); i++ {
			if !col.Valid[i] {
				return apperrors.NullValue("column %s contains a null at row %d", name, i)
			}
		}
	}
	return nil
}
