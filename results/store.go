package results

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store persists detection reports in SQLite. One row per run, one row per
// evaluated cell; goal sets and cores are stored as JSON index arrays.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		realizability TEXT NOT NULL,
		cores TEXT,
		evaluated INTEGER NOT NULL DEFAULT 0,
		bcs INTEGER NOT NULL DEFAULT 0,
		ubcs INTEGER NOT NULL DEFAULT 0,
		indeterminate INTEGER NOT NULL DEFAULT 0,
		elapsed_seconds REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		goal_set TEXT NOT NULL,
		candidate TEXT NOT NULL,
		strategy TEXT NOT NULL,
		node_id TEXT,
		inconsistent INTEGER NOT NULL,
		minimal INTEGER NOT NULL,
		non_trivial INTEGER NOT NULL,
		unavoidable INTEGER NOT NULL,
		classification TEXT NOT NULL,
		blocking_goal INTEGER NOT NULL DEFAULT -1,
		status TEXT NOT NULL,
		stage TEXT,
		error TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
	CREATE INDEX IF NOT EXISTS idx_records_class ON records(run_id, classification);
	CREATE INDEX IF NOT EXISTS idx_runs_spec ON runs(spec);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport writes a run and its records in one transaction.
func (s *Store) SaveReport(r *Report) error {
	cores, err := json.Marshal(r.Cores)
	if err != nil {
		return fmt.Errorf("marshal cores: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, spec, timestamp, realizability, cores,
		 evaluated, bcs, ubcs, indeterminate, elapsed_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Spec, r.Timestamp, r.Realizability, string(cores),
		r.Summary.Evaluated, r.Summary.BCs, r.Summary.UBCs,
		r.Summary.Indeterminate, r.ElapsedSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO records (run_id, goal_set, candidate, strategy, node_id,
		 inconsistent, minimal, non_trivial, unavoidable, classification,
		 blocking_goal, status, stage, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range r.Records {
		goalSet, err := json.Marshal(rec.GoalSet)
		if err != nil {
			return fmt.Errorf("marshal goal set: %w", err)
		}
		_, err = stmt.Exec(
			r.RunID, string(goalSet), rec.Candidate, rec.Strategy, rec.NodeID,
			rec.Inconsistent, rec.Minimal, rec.NonTrivial, rec.Unavoidable,
			rec.Classification, rec.BlockingGoal, rec.Status, rec.Stage, rec.Error,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	return tx.Commit()
}

// GetReport retrieves a run and its records by run ID.
func (s *Store) GetReport(runID string) (*Report, error) {
	row := s.db.QueryRow(
		`SELECT id, spec, timestamp, realizability, cores,
		 evaluated, bcs, ubcs, indeterminate, elapsed_seconds
		 FROM runs WHERE id = ?`, runID,
	)

	var r Report
	var cores sql.NullString
	err := row.Scan(&r.RunID, &r.Spec, &r.Timestamp, &r.Realizability, &cores,
		&r.Summary.Evaluated, &r.Summary.BCs, &r.Summary.UBCs,
		&r.Summary.Indeterminate, &r.ElapsedSeconds)
	if err != nil {
		return nil, err
	}
	r.Version = SchemaVersion
	if cores.Valid && cores.String != "" {
		if err := json.Unmarshal([]byte(cores.String), &r.Cores); err != nil {
			return nil, fmt.Errorf("unmarshal cores: %w", err)
		}
	}

	r.Records, err = s.getRecords(runID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) getRecords(runID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT goal_set, candidate, strategy, node_id, inconsistent, minimal,
		 non_trivial, unavoidable, classification, blocking_goal, status, stage, error
		 FROM records WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var goalSet string
		var nodeID, stage, errText sql.NullString
		err := rows.Scan(&goalSet, &rec.Candidate, &rec.Strategy, &nodeID,
			&rec.Inconsistent, &rec.Minimal, &rec.NonTrivial, &rec.Unavoidable,
			&rec.Classification, &rec.BlockingGoal, &rec.Status, &stage, &errText)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(goalSet), &rec.GoalSet); err != nil {
			return nil, fmt.Errorf("unmarshal goal set: %w", err)
		}
		rec.NodeID = nodeID.String
		rec.Stage = stage.String
		rec.Error = errText.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID         string  `json:"runId"`
	Spec          string  `json:"spec"`
	Realizability string  `json:"realizability"`
	BCs           int     `json:"bcs"`
	UBCs          int     `json:"ubcs"`
	Elapsed       float64 `json:"elapsedSeconds"`
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, spec, realizability, bcs, ubcs, elapsed_seconds
		 FROM runs ORDER BY timestamp DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Spec, &r.Realizability, &r.BCs, &r.UBCs, &r.Elapsed); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
