package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shexcheck/internal/canonical"
	"github.com/roach88/shexcheck/internal/sweep"
)

// Scenarios whose report carries no parser messages have golden snapshots.
func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{
		"all_valid",
		"shexj_invalid",
		"load_failure_stops",
		"turtle_mode_skips",
		"only_filter",
	} {
		t.Run(name, func(t *testing.T) {
			path, err := Find("testdata/scenarios", name)
			require.NoError(t, err)
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestAssertGolden_FromResult(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/all_valid.yaml")
	require.NoError(t, err)
	result, err := Run(scenario)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, "all_valid", result))
}

func TestSnapshotDeterminism(t *testing.T) {
	result := &Result{
		Output:  "a.ttl is valid turtle: True\n",
		Summary: &sweep.Summary{Mode: "turtle", Entries: 1},
	}

	first, err := canonical.Marshal(NewSnapshot("s", result).toCanonicalMap())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := canonical.Marshal(NewSnapshot("s", result).toCanonicalMap())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t,
		`{"entries":1,"lines":["a.ttl is valid turtle: True"],"mode":"turtle","scenario_name":"s","skipped":0}`,
		string(first))
}

func TestSnapshotStoppedAt(t *testing.T) {
	result := &Result{
		Summary: &sweep.Summary{Mode: "full"},
		Stopped: &sweep.SchemaLoadError{Entry: "bogus", File: "bogus.json"},
	}
	snap := NewSnapshot("s", result)
	assert.Equal(t, "bogus", snap.StoppedAt)
	assert.Equal(t, "bogus", snap.toCanonicalMap()["stopped_at"])
}
