package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shexcheck/internal/store"
	"github.com/roach88/shexcheck/internal/testutil"
)

// recordTwoRuns records a passing run and then a failing one.
func recordTwoRuns(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "runs.db")

	good := testutil.WriteSuite(t, testutil.Valid("1dot"))
	_, _, err := execute(t, "validate", "--db", db, good)
	require.NoError(t, err)

	bad := testutil.WriteSuite(t,
		testutil.Valid("1dot"),
		testutil.Entry{Name: "bad", TTL: "bad.ttl", JSON: "bad.json", TTLBody: testutil.InvalidTurtle, JSONBody: testutil.InvalidShExJ},
	)
	_, _, err = execute(t, "validate", "--db", db, bad)
	require.Error(t, err)

	return db
}

func TestHistoryList(t *testing.T) {
	db := recordTwoRuns(t)

	stdout, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "#2 "), "newest first: %s", lines[0])
	assert.Contains(t, lines[0], "entries=2 skipped=0 turtle=1/2 shexj=1/2")
	assert.True(t, strings.HasPrefix(lines[1], "#1 "))
	assert.Contains(t, lines[1], "turtle=1/1 shexj=1/1")
}

func TestHistoryLimitJSON(t *testing.T) {
	db := recordTwoRuns(t)

	stdout, _, err := execute(t, "--format", "json", "history", "--db", db, "--limit", "1")
	require.NoError(t, err)

	var runs []store.Run
	resp := decodeResponse(t, stdout, &runs)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(2), runs[0].Seq)
	assert.Equal(t, 1, runs[0].TurtleFailed)
}

func TestHistoryRun(t *testing.T) {
	db := recordTwoRuns(t)

	stdout, _, err := execute(t, "--format", "json", "history", "--db", db, "--limit", "1")
	require.NoError(t, err)
	var runs []store.Run
	decodeResponse(t, stdout, &runs)
	require.Len(t, runs, 1)

	stdout, _, err = execute(t, "history", "--db", db, "--run", runs[0].ID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "  ok   turtle 1dot.ttl (1dot)\n")
	assert.Contains(t, stdout, "  FAIL turtle bad.ttl (bad)\n")
	assert.Contains(t, stdout, "  FAIL shexj  bad.json (bad)\n")

	stdout, _, err = execute(t, "--format", "json", "history", "--db", db, "--run", runs[0].ID)
	require.NoError(t, err)
	var detail RunDetail
	decodeResponse(t, stdout, &detail)
	assert.Equal(t, runs[0].ID, detail.Run.ID)
	assert.Len(t, detail.Results, 4)
}

func TestHistoryFailing(t *testing.T) {
	db := recordTwoRuns(t)

	stdout, _, err := execute(t, "history", "--db", db, "--failing")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	assert.Equal(t, "  FAIL turtle bad.ttl (bad)", lines[0])
	assert.Contains(t, stdout, "  FAIL shexj  bad.json (bad)\n")
	assert.NotContains(t, stdout, "1dot")
}

func TestHistoryUnknownRun(t *testing.T) {
	db := recordTwoRuns(t)

	_, stderr, err := execute(t, "history", "--db", db, "--run", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "run not found")
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "no runs recorded\n", stdout)
}

func TestHistoryRequiresDB(t *testing.T) {
	_, stderr, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "--db is required")
}

func TestHistoryMissingDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "absent.db")

	_, stderr, err := execute(t, "history", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "database not found")
}
