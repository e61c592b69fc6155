// Package history provides a SQLite-backed ledger of pipeline runs and
// the files each run processed.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	mode       TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	processed  INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_files (
	run_id     INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	file_name  TEXT NOT NULL,
	checksum   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	outputs    TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
`

// Run statuses recorded per file.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run is one pipeline invocation.
type Run struct {
	ID        int64     `json:"id"`
	Mode      string    `json:"mode"`
	StartedAt time.Time `json:"started_at"`
	Duration  int64     `json:"duration_ms"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
}

// FileRecord is one input file within a run.
type FileRecord struct {
	FileName string   `json:"file_name"`
	Checksum string   `json:"checksum,omitempty"`
	Status   string   `json:"status"`
	Error    string   `json:"error,omitempty"`
	Outputs  []string `json:"outputs"`
}

// Ledger defines the run-history operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing
// with mocks.
type Ledger interface {
	InsertRun(run Run, files []FileRecord) (int64, error)
	ListRuns(limit int) ([]Run, error)
	RunFiles(runID int64) ([]FileRecord, error)
	Close() error
}

// Verify *DB satisfies Ledger at compile time.
var _ Ledger = (*DB)(nil)

// DB wraps a sql.DB with ledger-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertRun records a run and its per-file outcomes within a
// transaction, returning the new run ID.
func (db *DB) InsertRun(run Run, files []FileRecord) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	res, err := tx.Exec(`
		INSERT INTO runs (mode, started_at, duration_ms, processed, failed)
		VALUES (?, ?, ?, ?, ?)
	`, run.Mode, run.StartedAt.UTC(), run.Duration, run.Processed, run.Failed)
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: run id: %w", err)
	}

	if len(files) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO run_files (run_id, file_name, checksum, status, error, outputs)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("history: prepare file insert: %w", err)
		}
		defer stmt.Close()
		for _, f := range files {
			outputsJSON, _ := json.Marshal(f.Outputs)
			if _, err := stmt.Exec(runID, f.FileName, f.Checksum, f.Status, f.Error, string(outputsJSON)); err != nil {
				return 0, fmt.Errorf("history: insert file record: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT id, mode, started_at, duration_ms, processed, failed
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Mode, &r.StartedAt, &r.Duration, &r.Processed, &r.Failed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunFiles returns the per-file records for one run, in insertion order.
func (db *DB) RunFiles(runID int64) ([]FileRecord, error) {
	rows, err := db.conn.Query(`
		SELECT file_name, checksum, status, error, outputs
		FROM run_files WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: run files: %w", err)
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var f FileRecord
		var outputsJSON string
		if err := rows.Scan(&f.FileName, &f.Checksum, &f.Status, &f.Error, &outputsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(outputsJSON), &f.Outputs); err != nil {
			f.Outputs = nil
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
