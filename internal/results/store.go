// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results persists the values produced by processing runs so plots
// can be queried (and re-runs spotted) without digging through CSV output.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "runs.db"
)

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the run-history database at
// dataDir/index/runs.db, creating the schema if it does not exist.
func NewStore(cfg types.ResultsConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			extractor TEXT NOT NULL,
			plot TEXT NOT NULL,
			experiment TEXT,
			germplasm TEXT,
			local_datetime TEXT,
			field TEXT NOT NULL,
			value TEXT NOT NULL,
			csv_path TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_plot ON runs(plot)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_extractor ON runs(extractor)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Insert stores one run record, assigning an ID and creation time when
// they are unset.
func (s *Store) Insert(rec *types.RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, extractor, plot, experiment, germplasm, local_datetime, field, value, csv_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Extractor, rec.Plot, rec.Experiment, rec.Germplasm,
		rec.LocalDatetime, rec.Field, rec.Value, rec.CSVPath,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run record: %w", err)
	}
	return nil
}

// Filter narrows a Query; empty fields match everything.
type Filter struct {
	Plot       string
	Experiment string
	Extractor  string
	Limit      int
}

// Query returns run records matching the filter, newest first.
func (s *Store) Query(f Filter) ([]types.RunRecord, error) {
	var conds []string
	var args []any
	if f.Plot != "" {
		conds = append(conds, "plot = ?")
		args = append(args, f.Plot)
	}
	if f.Experiment != "" {
		conds = append(conds, "experiment = ?")
		args = append(args, f.Experiment)
	}
	if f.Extractor != "" {
		conds = append(conds, "extractor = ?")
		args = append(args, f.Extractor)
	}

	query := `SELECT id, extractor, plot, experiment, germplasm, local_datetime, field, value, csv_path, created_at FROM runs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"

	limit := f.Limit
	if limit <= 0 {
		limit = s.maxResults
	}
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []types.RunRecord
	for rows.Next() {
		var rec types.RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.Extractor, &rec.Plot, &rec.Experiment,
			&rec.Germplasm, &rec.LocalDatetime, &rec.Field, &rec.Value,
			&rec.CSVPath, &created); err != nil {
			return nil, fmt.Errorf("scanning run record: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// HasRun reports whether a value already exists for the plot, extractor,
// and capture time. The watcher uses this to skip re-processing imagery
// it has already seen.
func (s *Store) HasRun(extractor, plot, localDatetime string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM runs WHERE extractor = ? AND plot = ? AND local_datetime = ?`,
		extractor, plot, localDatetime,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking run history: %w", err)
	}
	return count > 0, nil
}
