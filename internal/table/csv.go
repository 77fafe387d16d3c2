package table

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
)

// ReadCSV imports a delimited file into a Table. If required is non-empty,
// only those columns are kept (in file order) and each must be present.
// Column kinds are inferred: a column whose every non-empty cell parses as a
// float becomes a Float column; empty cells become nulls.
func ReadCSV(path string, required []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, apperrors.EmptyOrDuplicate("file %s has no header row", path)
	}

	header := records[0]
	rows := records[1:]

	keep := make(map[string]bool, len(required))
	for _, name := range required {
		keep[name] = true
	}
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, name := range required {
		if !present[name] {
			return nil, apperrors.Schema("required column %s not found in %s", name, path)
		}
	}

	t := New(len(rows))
	for col, name := range header {
		if len(required) > 0 && !keep[name] {
			continue
		}

		valid := make([]bool, len(rows))
		floats := make([]float64, len(rows))
		isFloat := true
		for i, record := range rows {
			cell := ""
			if col < len(record) {
				cell = record[col]
			}
			if cell == "" {
				continue
			}
			valid[i] = true
			v, parseErr := strconv.ParseFloat(cell, 64)
			if parseErr != nil {
				isFloat = false
			} else {
				floats[i] = v
			}
		}

		if isFloat {
			if _, err := t.AddFloat(name, floats, valid); err != nil {
				return nil, err
			}
			continue
		}
		strs := make([]string, len(rows))
		for i, record := range rows {
			if col < len(record) {
				strs[i] = record[col]
			}
		}
		if _, err := t.AddString(name, strs, valid); err != nil {
			return nil, err
		}
	}

	slog.Info("data file imported", "path", path, "rows", t.NumRows(), "columns", len(t.Names()))
	return t, nil
}

// WriteCSV exports a Table to a delimited file, creating parent
// directories as needed. Null cells are written as empty strings.
func WriteCSV(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(t.cols))
	for i := 0; i < t.rows; i++ {
		for j, c := range t.cols {
			record[j] = c.cell(i)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}

	slog.Info("data file exported", "path", path, "rows", t.NumRows())
	return nil
}
