package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/shexcheck/internal/sweep"
)

// Run is a recorded sweep.
type Run struct {
	ID           string `json:"id"`
	Seq          int64  `json:"seq"`
	Manifest     string `json:"manifest"`
	Mode         string `json:"mode"`
	Digest       string `json:"digest"`
	Entries      int    `json:"entries"`
	Skipped      int    `json:"skipped"`
	TurtlePassed int    `json:"turtle_passed"`
	TurtleFailed int    `json:"turtle_failed"`
	ShExJPassed  int    `json:"shexj_passed"`
	ShExJFailed  int    `json:"shexj_failed"`
	// Error is set when the sweep stopped early.
	Error string `json:"error,omitempty"`
}

// RecordRun stores the summary of a sweep over manifestPath together with
// every check it performed. runErr is the error the sweep stopped with, if
// any. The run and its results are written in one transaction.
func (s *Store) RecordRun(ctx context.Context, manifestPath string, sum *sweep.Summary, runErr error) (Run, error) {
	digest, err := sum.Digest()
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	run := Run{
		ID:           uuid.NewString(),
		Manifest:     manifestPath,
		Mode:         sum.Mode,
		Digest:       digest,
		Entries:      sum.Entries,
		Skipped:      sum.Skipped,
		TurtlePassed: sum.TurtlePassed,
		TurtleFailed: sum.TurtleFailed,
		ShExJPassed:  sum.ShExJPassed,
		ShExJFailed:  sum.ShExJFailed,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, manifest, mode, digest, entries, skipped,
		 turtle_passed, turtle_failed, shexj_passed, shexj_failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Manifest,
		run.Mode,
		run.Digest,
		run.Entries,
		run.Skipped,
		run.TurtlePassed,
		run.TurtleFailed,
		run.ShExJPassed,
		run.ShExJFailed,
		run.Error,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	for i, res := range sum.Results {
		checks := []struct {
			kind  string
			check *sweep.Check
		}{
			{KindTurtle, res.Turtle},
			{KindShExJ, res.ShExJ},
		}
		for _, c := range checks {
			if c.check == nil {
				continue
			}
			violations, err := marshalViolations(c.check.Violations)
			if err != nil {
				return Run{}, fmt.Errorf("record run: %w", err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO results
				(run_id, position, entry, kind, file, valid, error, violations)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
				run.ID,
				i,
				res.Entry,
				c.kind,
				c.check.File,
				boolToInt(c.check.Valid),
				c.check.Error,
				violations,
			)
			if err != nil {
				return Run{}, fmt.Errorf("record result %s/%s: %w", res.Entry, c.kind, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}
