package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Result kinds.
const (
	KindTurtle = "turtle"
	KindShExJ  = "shexj"
)

// ErrRunNotFound is returned when no run matches an ID.
var ErrRunNotFound = errors.New("run not found")

// ResultRow is one recorded check.
type ResultRow struct {
	Position   int      `json:"position"`
	Entry      string   `json:"entry"`
	Kind       string   `json:"kind"`
	File       string   `json:"file"`
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

const runColumns = `id, seq, manifest, mode, digest, entries, skipped,
	turtle_passed, turtle_failed, shexj_passed, shexj_failed, error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(
		&r.ID,
		&r.Seq,
		&r.Manifest,
		&r.Mode,
		&r.Digest,
		&r.Entries,
		&r.Skipped,
		&r.TurtlePassed,
		&r.TurtleFailed,
		&r.ShExJPassed,
		&r.ShExJFailed,
		&r.Error,
	)
	return r, err
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
//
// Returns an empty slice (not nil) when nothing has been recorded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ReadResults returns the checks of a run in sweep order, Turtle before
// ShExJ within an entry.
func (s *Store) ReadResults(ctx context.Context, runID string) ([]ResultRow, error) {
	return s.queryResults(ctx, `
		SELECT position, entry, kind, file, valid, error, violations
		FROM results
		WHERE run_id = ?
		ORDER BY position ASC, kind DESC
	`, runID)
}

// FailingFiles returns, for the latest run, the checks that came out false,
// in sweep order.
func (s *Store) FailingFiles(ctx context.Context) ([]ResultRow, error) {
	return s.queryResults(ctx, `
		SELECT position, entry, kind, file, valid, error, violations
		FROM results
		WHERE run_id = (SELECT id FROM runs ORDER BY seq DESC LIMIT 1)
		  AND valid = 0
		ORDER BY position ASC, kind DESC
	`)
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]ResultRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []ResultRow{}
	for rows.Next() {
		var (
			r          ResultRow
			valid      int
			violations string
		)
		if err := rows.Scan(&r.Position, &r.Entry, &r.Kind, &r.File, &valid, &r.Error, &violations); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Valid = valid == 1
		if r.Violations, err = unmarshalViolations(violations); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}
