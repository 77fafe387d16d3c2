// Package database persists model parameters, scaling ranges, predictions,
// and the measure reference table in SQLite, and exposes the prediction
// service the web layer calls.
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/model"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
)

// DB wraps the SQLite connection used by the pipeline and the server.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the SQLite database at
// dataDir/places.db with WAL journaling and runs migrations.
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, apperrors.Connectivity("creating data directory", err)
	}

	dbPath := filepath.Join(dataDir, "places.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, apperrors.Connectivity("opening database", err)
	}
	if err := db.Ping(); err != nil {
		return nil, apperrors.Connectivity("pinging database", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &DB{DB: db}
	if err := database.Migrate(); err != nil {
		return nil, err
	}

	slog.Info("database initialized", "path", dbPath)
	return database, nil
}

// parameterColumns is the fixed column list of the parameters table: one
// column per model feature plus the intercept. Derived from the feature
// contract so the schema and the model cannot drift apart.
func parameterColumns() []string {
	cols := make([]string, 0, len(places.ModelFeatures)+1)
	for _, name := range places.ModelFeatures {
		cols = append(cols, model.CanonicalName(name))
	}
	cols = append(cols, model.InterceptKey)
	return cols
}

// Migrate creates the tables if they do not exist.
func (db *DB) Migrate() error {
	paramCols := parameterColumns()
	defs := make([]string, len(paramCols))
	for i, name := range paramCols {
		defs[i] = fmt.Sprintf("%s REAL NOT NULL", name)
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS parameters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			%s,
			created_at DATETIME NOT NULL
		)`, strings.Join(defs, ",\n\t\t\t")),

		`CREATE TABLE IF NOT EXISTS scaler_ranges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			field TEXT NOT NULL,
			min_value REAL NOT NULL,
			max_value REAL NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id TEXT PRIMARY KEY,
			inputs TEXT NOT NULL,
			prediction REAL NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS measures (
			measure_id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			short_text TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scaler_ranges_field ON scaler_ranges(field, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_measures_category ON measures(category)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return apperrors.Connectivity("running migration", err)
		}
	}
	return nil
}
