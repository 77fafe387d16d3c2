// Package table provides the in-memory columnar dataset used by every
// pipeline stage, plus the delimited-text import/export port.
package table

import (
	"strconv"
	"strings"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
)

// Kind is the value type of a column.
type Kind int

const (
	// Float columns hold float64 values.
	Float Kind = iota
	// String columns hold string values.
	String
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Column is a single named column. Valid marks non-null cells; a false
// entry means the cell is null regardless of the backing slice value.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Valid   []bool
}

// Float returns the value at row i and whether it is non-null.
func (c *Column) Float(i int) (float64, bool) {
	if !c.Valid[i] {
		return 0, false
	}
	return c.Floats[i], true
}

// StringAt returns the value at row i and whether it is non-null.
func (c *Column) StringAt(i int) (string, bool) {
	if !c.Valid[i] {
		return "", false
	}
	return c.Strings[i], true
}

// cell renders row i for key building and export. Nulls render empty.
func (c *Column) cell(i int) string {
	if !c.Valid[i] {
		return ""
	}
	if c.Kind == Float {
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	}
	return c.Strings[i]
}

// Table is a fixed-row-count collection of named columns.
type Table struct {
	cols   []*Column
	byName map[string]*Column
	rows   int
}

// New creates an empty table with the given row count.
func New(rows int) *Table {
	return &Table{byName: make(map[string]*Column), rows: rows}
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// Names returns column names in insertion order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns the named column and whether it exists.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// AddFloat appends a float column. A nil valid mask means all cells are
// non-null. The table takes ownership of the slices.
func (t *Table) AddFloat(name string, values []float64, valid []bool) (*Column, error) {
	if len(values) != t.rows {
		return nil, apperrors.Range("column %s has %d values, table has %d rows", name, len(values), t.rows)
	}
	if t.Has(name) {
		return nil, apperrors.DuplicateKey("column %s already exists", name)
	}
	if valid == nil {
		valid = allValid(t.rows)
	}
	c := &Column{Name: name, Kind: Float, Floats: values, Valid: valid}
	t.cols = append(t.cols, c)
	t.byName[name] = c
	return c, nil
}

// AddString appends a string column. A nil valid mask means all cells are
// non-null. The table takes ownership of the slices.
func (t *Table) AddString(name string, values []string, valid []bool) (*Column, error) {
	if len(values) != t.rows {
		return nil, apperrors.Range("column %s has %d values, table has %d rows", name, len(values), t.rows)
	}
	if t.Has(name) {
		return nil, apperrors.DuplicateKey("column %s already exists", name)
	}
	if valid == nil {
		valid = allValid(t.rows)
	}
	c := &Column{Name: name, Kind: String, Strings: values, Valid: valid}
	t.cols = append(t.cols, c)
	t.byName[name] = c
	return c, nil
}

// Drop removes the named columns if present, returning how many were
// removed. Names not present are ignored. Row count is unchanged.
func (t *Table) Drop(names ...string) int {
	dropped := 0
	for _, name := range names {
		if _, ok := t.byName[name]; !ok {
			continue
		}
		delete(t.byName, name)
		for i, c := range t.cols {
			if c.Name == name {
				t.cols = append(t.cols[:i], t.cols[i+1:]...)
				break
			}
		}
		dropped++
	}
	return dropped
}

// Filter returns a new table containing only rows for which keep is true.
// Column order and kinds are preserved.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}

	out := New(len(rows))
	for _, c := range t.cols {
		valid := make([]bool, len(rows))
		for j, i := range rows {
			valid[j] = c.Valid[i]
		}
		switch c.Kind {
		case Float:
			values := make([]float64, len(rows))
			for j, i := range rows {
				values[j] = c.Floats[i]
			}
			out.AddFloat(c.Name, values, valid) //nolint:errcheck // fresh table, unique names
		case String:
			values := make([]string, len(rows))
			for j, i := range rows {
				values[j] = c.Strings[i]
			}
			out.AddString(c.Name, values, valid) //nolint:errcheck // fresh table, unique names
		}
	}
	return out
}

// RowKey builds a composite key over the named columns for row i. Used for
// duplicate detection and pivot grouping. Cells are joined with a unit
// separator so values containing commas cannot collide.
func (t *Table) RowKey(i int, names []string) string {
	parts := make([]string, len(names))
	for j, name := range names {
		parts[j] = t.byName[name].cell(i)
	}
	return strings.Join(parts, "\x1f")
}

func allValid(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}
