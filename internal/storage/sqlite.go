package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shaoshing/jscs-jsdoc/internal/checker"
	"github.com/shaoshing/jscs-jsdoc/internal/index"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT,
			started_at INTEGER,
			files INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS violations (
			run_id TEXT,
			fingerprint TEXT,
			rule TEXT,
			message TEXT,
			filepath TEXT,
			line INTEGER,
			col INTEGER,
			func_name TEXT,
			PRIMARY KEY (run_id, fingerprint)
		);`,
		`CREATE TABLE IF NOT EXISTS file_errors (
			run_id TEXT,
			filepath TEXT,
			message TEXT,
			PRIMARY KEY (run_id, filepath)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root, started_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *index.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Save Run (a re-saved run replaces its rows)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, started_at, files)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			root=excluded.root,
			started_at=excluded.started_at,
			files=excluded.files
	`, run.ID, run.Root, run.StartedAt.UnixNano(), run.Files); err != nil {
		return err
	}
	for _, table := range []string{"violations", "file_errors"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", run.ID); err != nil {
			return err
		}
	}

	// 2. Save Violations
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO violations (run_id, fingerprint, rule, message, filepath, line, col, func_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range run.Violations {
		if _, err := stmt.ExecContext(ctx, run.ID, e.Fingerprint, e.Rule, e.Message, e.File, e.Line, e.Column, e.Function); err != nil {
			return fmt.Errorf("failed to save violation %s: %w", e.Fingerprint, err)
		}
	}

	// 3. Save File Errors
	for _, fe := range run.Errors {
		if _, err := tx.ExecContext(ctx, `INSERT INTO file_errors (run_id, filepath, message) VALUES (?, ?, ?)`, run.ID, fe.Path, fe.Message); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LatestRun(ctx context.Context, root string) (*index.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, root, started_at, files FROM runs
		WHERE root = ?
		ORDER BY started_at DESC
		LIMIT 1
	`, root)

	run := &index.Run{Violations: []index.Entry{}}
	var startedAt int64
	if err := row.Scan(&run.ID, &run.Root, &startedAt, &run.Files); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRuns
		}
		return nil, err
	}
	run.StartedAt = time.Unix(0, startedAt).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, rule, message, filepath, line, col, func_name
		FROM violations WHERE run_id = ?
		ORDER BY filepath, line, col
	`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var e index.Entry
		var v checker.Violation
		if err := rows.Scan(&e.Fingerprint, &v.Rule, &v.Message, &v.File, &v.Line, &v.Column, &v.Function); err != nil {
			return nil, err
		}
		e.Violation = v
		run.Violations = append(run.Violations, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	errRows, err := s.db.QueryContext(ctx, `SELECT filepath, message FROM file_errors WHERE run_id = ? ORDER BY filepath`, run.ID)
	if err != nil {
		return nil, err
	}
	defer errRows.Close()

	for errRows.Next() {
		var fe index.FileError
		if err := errRows.Scan(&fe.Path, &fe.Message); err != nil {
			return nil, err
		}
		run.Errors = append(run.Errors, fe)
	}
	return run, errRows.Err()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.root, r.started_at, r.files,
			(SELECT COUNT(*) FROM file_errors e WHERE e.run_id = r.id),
			(SELECT COUNT(*) FROM violations v WHERE v.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var rs RunSummary
		var startedAt int64
		if err := rows.Scan(&rs.ID, &rs.Root, &startedAt, &rs.Files, &rs.Errors, &rs.Violations); err != nil {
			return nil, err
		}
		rs.StartedAt = time.Unix(0, startedAt).UTC()
		summaries = append(summaries, rs)
	}
	return summaries, rows.Err()
}
