package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/shexcheck/internal/canonical"
)

// Snapshot captures what a scenario reported, in canonical JSON for
// deterministic comparison. Digests and store IDs are left out.
type Snapshot struct {
	ScenarioName string
	Mode         string
	Lines        []string
	Entries      int
	Skipped      int
	StoppedAt    string
}

func (s *Snapshot) toCanonicalMap() map[string]any {
	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"mode":          s.Mode,
		"lines":         s.Lines,
		"entries":       s.Entries,
		"skipped":       s.Skipped,
	}
	if s.StoppedAt != "" {
		m["stopped_at"] = s.StoppedAt
	}
	return m
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(scenarioName string, result *Result) *Snapshot {
	s := &Snapshot{
		ScenarioName: scenarioName,
		Lines:        result.Lines(),
	}
	if result.Summary != nil {
		s.Mode = result.Summary.Mode
		s.Entries = result.Summary.Entries
		s.Skipped = result.Summary.Skipped
	}
	if result.Stopped != nil {
		s.StoppedAt = result.Stopped.Entry
	}
	return s
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario could not be executed. A mismatch fails
// the test through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := canonical.Marshal(NewSnapshot(scenarioName, result).toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
