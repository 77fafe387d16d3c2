package clean

import (
	"log/slog"
	"sort"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// Pivot reshapes a long-format table (one row per entity+measure) into wide
// format: one row per unique index tuple, one float column per distinct
// value of pivotCol, cells taken from valueCol. A repeated (index, measure)
// pair is ambiguous and fails rather than aggregating. An entity missing a
// measure yields a null cell.
func Pivot(t *table.Table, index []string, pivotCol, valueCol string) (*table.Table, error) {
	for _, name := range index {
		if !t.Has(name) {
			return nil, apperrors.Schema("index column %s is not present", name)
		}
	}
	measureCol, ok := t.Column(pivotCol)
	if !ok {
		return nil, apperrors.Schema("pivot column %s is not present", pivotCol)
	}
	if measureCol.Kind != table.String {
		return nil, apperrors.TypeMismatch("pivot column %s must be string, got %s", pivotCol, measureCol.Kind)
	}
	values, ok := t.Column(valueCol)
	if !ok {
		return nil, apperrors.Schema("value column %s is not present", valueCol)
	}
	if values.Kind != table.Float {
		return nil, apperrors.TypeMismatch("value column %s must be numeric, got %s", valueCol, values.Kind)
	}

	// First pass: entity order, measure set, cell map.
	entityOrder := []string{}
	entityRow := map[string]int{} // key -> representative source row
	measureSet := map[string]bool{}
	cells := map[string]map[string]float64{}

	for i := 0; i < t.NumRows(); i++ {
		key := t.RowKey(i, index)
		if _, seen := cells[key]; !seen {
			entityOrder = append(entityOrder, key)
			entityRow[key] = i
			cells[key] = map[string]float64{}
		}
		measure, valid := measureCol.StringAt(i)
		if !valid {
			return nil, apperrors.NullValue("pivot column %s is null at row %d", pivotCol, i)
		}
		measureSet[measure] = true
		if _, dup := cells[key][measure]; dup {
			return nil, apperrors.DuplicateKey("entity %q has more than one %s value", key, measure)
		}
		v, valid := values.Float(i)
		if !valid {
			// Null readings should have been dropped at import.
			return nil, apperrors.NullValue("value column %s is null at row %d", valueCol, i)
		}
		cells[key][measure] = v
	}

	measures := make([]string, 0, len(measureSet))
	for m := range measureSet {
		measures = append(measures, m)
	}
	sort.Strings(measures)

	out := table.New(len(entityOrder))
	for _, name := range index {
		src, _ := t.Column(name)
		valid := make([]bool, len(entityOrder))
		switch src.Kind {
		case table.Float:
			col := make([]float64, len(entityOrder))
			for j, key := range entityOrder {
				i := entityRow[key]
				col[j] = src.Floats[i]
				valid[j] = src.Valid[i]
			}
			if _, err := out.AddFloat(name, col, valid); err != nil {
				return nil, err
			}
		case table.String:
			col := make([]string, len(entityOrder))
			for j, key := range entityOrder {
				i := entityRow[key]
				col[j] = src.Strings[i]
				valid[j] = src.Valid[i]
			}
			if _, err := out.AddString(name, col, valid); err != nil {
				return nil, err
			}
		}
	}

	for _, measure := range measures {
		col := make([]float64, len(entityOrder))
		valid := make([]bool, len(entityOrder))
		for j, key := range entityOrder {
			if v, ok := cells[key][measure]; ok {
				col[j] = v
				valid[j] = true
			}
		}
		if _, err := out.AddFloat(measure, col, valid); err != nil {
			return nil, err
		}
	}

	slog.Info("pivoted long-format data", "entities", out.NumRows(), "measures", len(measures))
	return out, nil
}
