package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/shexcheck/internal/sweep"
)

// createTestStore opens a fresh store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSummary builds a full-mode summary with one passing and one
// failing entry.
func createTestSummary() *sweep.Summary {
	return &sweep.Summary{
		Mode:         "full",
		Entries:      2,
		Skipped:      1,
		TurtlePassed: 1,
		TurtleFailed: 1,
		ShExJPassed:  1,
		ShExJFailed:  1,
		Results: []sweep.Result{
			{
				Entry:  "1dot",
				Turtle: &sweep.Check{File: "1dot.ttl", Valid: true, Triples: 3},
				ShExJ:  &sweep.Check{File: "1dot.json", Valid: true},
			},
			{
				Entry:  "bad",
				Turtle: &sweep.Check{File: "bad.ttl", Error: "unexpected token"},
				ShExJ: &sweep.Check{File: "bad.json", Violations: []string{
					"/shapes/0: ShapeAnd needs at least 2 operands",
				}},
			},
		},
	}
}
