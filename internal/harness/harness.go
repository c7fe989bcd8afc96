package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/shexcheck/internal/manifest"
	"github.com/roach88/shexcheck/internal/store"
	"github.com/roach88/shexcheck/internal/sweep"
	"github.com/roach88/shexcheck/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh temp directory holding its suite and run
// database. Execution flow:
//  1. Write the manifest and file bodies
//  2. Sweep the manifest in the scenario's mode
//  3. Record the run and read its rows back
//  4. Evaluate assertions
//
// An error means the scenario could not be executed; a failed assertion is
// reported in the result instead.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "shexcheck-scenario-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	return RunIn(context.Background(), scenario, dir)
}

// RunIn executes a scenario inside dir, which must be empty.
func RunIn(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	mode, err := ParseMode(scenario.Mode)
	if err != nil {
		return nil, err
	}
	filter, err := sweep.NewFilter(scenario.Only)
	if err != nil {
		return nil, err
	}

	if err := testutil.Build(dir, suiteEntries(scenario)...); err != nil {
		return nil, fmt.Errorf("failed to write suite: %w", err)
	}
	m, err := manifest.Load(dir, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	var out bytes.Buffer
	runner := &sweep.Runner{
		Mode:      mode,
		KeepGoing: scenario.KeepGoing,
		Filter:    filter,
		Out:       &out,
	}
	sum, runErr := runner.Run(ctx, m)

	result := NewResult()
	result.Output = out.String()
	result.Summary = sum
	if runErr != nil {
		var loadErr *sweep.SchemaLoadError
		if !errors.As(runErr, &loadErr) {
			return nil, fmt.Errorf("sweep failed: %w", runErr)
		}
		result.Stopped = loadErr
	}

	if err := record(ctx, filepath.Join(dir, "runs.db"), m.Path, sum, runErr, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// record stores the run and checks that every check came back from the
// store unchanged.
func record(ctx context.Context, dbPath, manifestPath string, sum *sweep.Summary, runErr error, result *Result) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer st.Close()

	run, err := st.RecordRun(ctx, manifestPath, sum, runErr)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	rows, err := st.ReadResults(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}
	result.Recorded = rows

	var checks int
	for _, r := range sum.Results {
		if r.Turtle != nil {
			checks++
		}
		if r.ShExJ != nil {
			checks++
		}
	}
	if checks != len(rows) {
		result.AddError(fmt.Sprintf("store recorded %d checks, sweep made %d", len(rows), checks))
	}
	return nil
}

// suiteEntries pairs each manifest entry with the bodies of its files.
func suiteEntries(s *Scenario) []testutil.Entry {
	body := func(ref string) string {
		if ref == "" {
			return ""
		}
		if b, ok := s.Files[ref]; ok {
			return b
		}
		return testutil.Fixtures[s.Fixtures[ref]]
	}

	entries := make([]testutil.Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, testutil.Entry{
			Name:     e.Name,
			TTL:      e.TTL,
			JSON:     e.JSON,
			ShEx:     e.ShEx,
			TTLBody:  body(e.TTL),
			JSONBody: body(e.JSON),
			ShExBody: body(e.ShEx),
		})
	}
	return entries
}
