package clean

import (
	"log/slog"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// DropNullResponses removes every row with a null value in the response
// column and returns the filtered table plus the number of rows removed.
func DropNullResponses(t *table.Table, response string) (*table.Table, int, error) {
	col, ok := t.Column(response)
	if !ok {
		return nil, 0, apperrors.Schema("response column %s is not present", response)
	}

	out := t.Filter(func(row int) bool { return col.Valid[row] })
	removed := t.NumRows() - out.NumRows()
	slog.Info("dropped null response records", "response", response, "removed", removed)
	return out, removed, nil
}

// DropColumns removes the named measure columns in place, silently ignoring
// names not present: callers may pass a superset of known-unreliable
// measures that varies by import source. Row count is never affected.
func DropColumns(t *table.Table, names []string) int {
	dropped := t.Drop(names...)
	slog.Info("dropped measure columns", "requested", len(names), "dropped", dropped)
	return dropped
}
