package trace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists traces in a SQLite database, one row per attribute
// value per step.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			scenario TEXT NOT NULL,
			level TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS step_values (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			name TEXT NOT NULL,
			value REAL,
			PRIMARY KEY (run_id, tick, name)
		)`,
		`CREATE TABLE IF NOT EXISTS step_failures (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			reason TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

// Save writes st in one transaction, replacing any earlier run with the same ID.
func (s *SQLiteStore) Save(ctx context.Context, st *SimulationTrace) error {
	if st == nil || st.RunID == "" {
		return errors.New("trace without run id")
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM step_values WHERE run_id = ?`,
		`DELETE FROM step_failures WHERE run_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, st.RunID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, level) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET scenario = excluded.scenario, level = excluded.level
	`, st.RunID, st.Config.Scenario, string(st.Config.Level)); err != nil {
		return err
	}
	for _, rec := range st.Steps {
		for name, v := range rec.Values {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO step_values (run_id, tick, name, value) VALUES (?, ?, ?, ?)`,
				st.RunID, rec.Tick, name, nullableValue(v)); err != nil {
				return fmt.Errorf("insert step %d %q: %w", rec.Tick, name, err)
			}
		}
	}
	for _, f := range st.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO step_failures (run_id, tick, reason) VALUES (?, ?, ?)`,
			st.RunID, f.Tick, f.Reason); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// nullableValue stores NaN as NULL; SQLite has no NaN REAL.
func nullableValue(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

// Load reads the run with the given ID. Steps come back in tick order.
func (s *SQLiteStore) Load(ctx context.Context, runID string) (*SimulationTrace, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	st := &SimulationTrace{RunID: runID, Steps: make([]StepRecord, 0), Failures: make([]FailureRecord, 0)}
	var level string
	err = db.QueryRowContext(ctx, `SELECT scenario, level FROM runs WHERE id = ?`, runID).
		Scan(&st.Config.Scenario, &level)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	st.Config.Level = TraceLevel(level)

	rows, err := db.QueryContext(ctx,
		`SELECT tick, name, value FROM step_values WHERE run_id = ? ORDER BY tick, name`, runID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			tick  int
			name  string
			value sql.NullFloat64
		)
		if err := rows.Scan(&tick, &name, &value); err != nil {
			return nil, false, err
		}
		if n := len(st.Steps); n == 0 || st.Steps[n-1].Tick != tick {
			st.Steps = append(st.Steps, StepRecord{Tick: tick, Values: make(map[string]float64)})
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		st.Steps[len(st.Steps)-1].Values[name] = v
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	frows, err := db.QueryContext(ctx,
		`SELECT tick, reason FROM step_failures WHERE run_id = ? ORDER BY tick, rowid`, runID)
	if err != nil {
		return nil, false, err
	}
	defer frows.Close()
	for frows.Next() {
		var f FailureRecord
		if err := frows.Scan(&f.Tick, &f.Reason); err != nil {
			return nil, false, err
		}
		st.Failures = append(st.Failures, f)
	}
	return st, true, frows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
