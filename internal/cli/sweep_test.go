package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shexcheck/internal/manifest"
	"github.com/roach88/shexcheck/internal/sweep"
	"github.com/roach88/shexcheck/internal/testutil"
)

func TestValidateAllValid(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"), testutil.Valid("1literal"))

	stdout, stderr, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assertGolden(t, "validate_all_valid", stdout)
}

func TestValidateManifestFile(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"))

	stdout, _, err := execute(t, "validate", filepath.Join(dir, manifest.DefaultName))
	require.NoError(t, err)
	assert.Contains(t, stdout, "1dot.ttl is valid turtle: True")
}

func TestShExJMixed(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Valid("1dot"),
		testutil.Entry{Name: "bad", JSON: "bad.json", JSONBody: testutil.InvalidShExJ},
	)

	stdout, stderr, err := execute(t, "shexj", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assertGolden(t, "shexj_mixed", stdout)
	assert.Contains(t, stderr, "Error ["+ErrCodeChecksFailed+"]: 1 check(s) failed")
}

func TestTurtleInvalidContinues(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Entry{Name: "bad", TTL: "bad.ttl", TTLBody: testutil.InvalidTurtle},
		testutil.Valid("good"),
	)

	stdout, _, err := execute(t, "turtle", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "bad.ttl is valid turtle: False", lines[0])
	assert.NotEmpty(t, lines[1])
	assert.Equal(t, "good.ttl is valid turtle: True", lines[2])
}

func TestShExJLoadFailureStops(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Valid("first"),
		testutil.Entry{
			Name: "broken", TTL: "broken.ttl", JSON: "broken.json",
			TTLBody: testutil.ValidTurtle, JSONBody: testutil.UnloadableShExJ,
		},
		testutil.Valid("after"),
	)

	stdout, stderr, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	// The Turtle check of the stopping entry is still reported; nothing after it is.
	assert.Equal(t, strings.Join([]string{
		"first.ttl is valid turtle: True",
		"first.json is valid ShExJ: True",
		sweep.Separator,
		"broken.ttl is valid turtle: True",
	}, "\n")+"\n", stdout)
	assert.NotContains(t, stdout, "after")
	assert.Contains(t, stderr, "Error ["+ErrCodeSchemaLoad+"]")
	assert.Contains(t, stderr, "broken.json")
}

func TestShExJLoadFailureKeepGoing(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Entry{Name: "broken", JSON: "broken.json", JSONBody: testutil.UnloadableShExJ},
		testutil.Valid("after"),
	)

	stdout, _, err := execute(t, "shexj", "--keep-going", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "broken.json is valid ShExJ: False\n")
	assert.Contains(t, stdout, "after.json is valid ShExJ: True\n")
}

func TestValidateJSON(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"), testutil.Valid("2dot"))

	stdout, _, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "is valid turtle", "report lines stay out of JSON output")

	var result SweepResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Len(t, result.Digest, 64)
	assert.Empty(t, result.RunID)
	require.NotNil(t, result.Summary)
	assert.Equal(t, 2, result.Summary.Entries)
	assert.Equal(t, 2, result.Summary.ShExJPassed)
	assert.Equal(t, "full", result.Summary.Mode)
}

func TestValidateJSONFailure(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Entry{Name: "bad", TTL: "bad.ttl", JSON: "bad.json", TTLBody: testutil.InvalidTurtle, JSONBody: testutil.InvalidShExJ},
	)

	stdout, _, err := execute(t, "--format", "json", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result SweepResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeChecksFailed, resp.Error.Code)
	assert.Equal(t, "2 check(s) failed", resp.Error.Message)

	require.Len(t, result.Summary.Results, 1)
	assert.NotEmpty(t, result.Summary.Results[0].Turtle.Error)
	assert.NotEmpty(t, result.Summary.Results[0].ShExJ.Violations)
}

func TestValidateManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		code     string
	}{
		{"not json", "{", manifest.ErrCodeSyntax},
		{"graph not a list", `{"@graph": {}}`, manifest.ErrCodeShape},
		{"no graph", `{"@context": {}}`, manifest.ErrCodeShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := testutil.WriteFile(t, dir, manifest.DefaultName, tt.manifest)

			_, stderr, err := execute(t, "validate", path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stderr, "Error ["+tt.code+"]")
		})
	}
}

func TestValidateManifestNotFound(t *testing.T) {
	_, stderr, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.jsonld"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error ["+manifest.ErrCodeNotFound+"]")
}

func TestValidateSchemasDir(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"))

	stdout, _, err := execute(t, "--schemas-dir", dir, "shexj")
	require.NoError(t, err)
	assert.Equal(t, "1dot.json is valid ShExJ: True\n", stdout)
}

func TestValidateSchemasDirOverridesResolution(t *testing.T) {
	// The manifest lives apart from the files it names.
	files := testutil.WriteSuite(t, testutil.Valid("1dot"))
	other := t.TempDir()
	data, err := os.ReadFile(filepath.Join(files, manifest.DefaultName))
	require.NoError(t, err)
	path := testutil.WriteFile(t, other, "suite.jsonld", string(data))

	_, _, err = execute(t, "shexj", path)
	require.Error(t, err, "references resolve next to the manifest by default")

	stdout, _, err := execute(t, "--schemas-dir", files, "shexj", path)
	require.NoError(t, err)
	assert.Equal(t, "1dot.json is valid ShExJ: True\n", stdout)
}

func TestValidateOnly(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Valid("1dot"),
		testutil.Valid("1literal"),
		testutil.Valid("2dot"),
	)

	stdout, _, err := execute(t, "shexj", "--only", "2*", "--only", "1lit*", dir)
	require.NoError(t, err)
	assert.Equal(t, "1literal.json is valid ShExJ: True\n2dot.json is valid ShExJ: True\n", stdout)
}

func TestValidateInvalidOnly(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"))

	_, stderr, err := execute(t, "validate", "--only", "[", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error ["+ErrCodeInvalidInput+"]")
}

func TestValidateConfigFile(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Entry{Name: "broken", JSON: "broken.json", JSONBody: testutil.UnloadableShExJ},
		testutil.Valid("1dot"),
		testutil.Valid("2dot"),
	)
	cfgPath := testutil.WriteFile(t, t.TempDir(), "shexcheck.yaml",
		"manifest: "+dir+"\nkeep_going: true\nonly: [\"b*\", \"1*\"]\n")

	stdout, _, err := execute(t, "--config", cfgPath, "shexj")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err), "keep_going turns the load failure into a check failure")
	assert.Contains(t, stdout, "broken.json is valid ShExJ: False")
	assert.Contains(t, stdout, "1dot.json is valid ShExJ: True")
	assert.NotContains(t, stdout, "2dot")
}

func TestValidateConfigFormat(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"))
	cfgPath := testutil.WriteFile(t, t.TempDir(), "shexcheck.yaml", "format: json\n")

	stdout, _, err := execute(t, "--config", cfgPath, "validate", dir)
	require.NoError(t, err)
	resp := decodeResponse(t, stdout, nil)
	assert.Equal(t, "ok", resp.Status)

	// An explicit flag wins over the file.
	stdout, _, err = execute(t, "--config", cfgPath, "--format", "text", "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1dot.ttl is valid turtle: True")
}

func TestValidateBadConfig(t *testing.T) {
	cfgPath := testutil.WriteFile(t, t.TempDir(), "shexcheck.yaml", "schema_dir: x\n")

	_, stderr, err := execute(t, "--config", cfgPath, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "schema_dir")
}

func TestValidateRecordsRun(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Valid("1dot"),
		testutil.Entry{Name: "bad", TTL: "bad.ttl", JSON: "bad.json", TTLBody: testutil.InvalidTurtle, JSONBody: testutil.ValidShExJ},
	)
	db := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, err := execute(t, "--format", "json", "validate", "--db", db, dir)
	require.Error(t, err)
	var first SweepResult
	decodeResponse(t, stdout, &first)
	assert.NotEmpty(t, first.RunID)

	stdout, _, err = execute(t, "--format", "json", "validate", "--db", db, dir)
	require.Error(t, err)
	var second SweepResult
	decodeResponse(t, stdout, &second)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Digest, second.Digest, "identical inputs share a digest")
}

func TestValidateVerboseLogsToStderr(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"))

	stdout, stderr, err := execute(t, "-v", "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="checking entry" entry=1dot`)
	assert.NotContains(t, stdout, "checking entry")

	_, stderr, err = execute(t, "validate", dir)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "checking entry")
}

func TestValidateWarnsOnSkippedEntry(t *testing.T) {
	dir := testutil.WriteSuite(t,
		testutil.Valid("1dot"),
		testutil.Entry{Name: "noturtle", JSON: "noturtle.json", JSONBody: testutil.ValidShExJ},
	)

	stdout, stderr, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "noturtle")
	assert.Contains(t, stderr, "level=WARN")
	assert.Contains(t, stderr, "entry=noturtle")
	assert.Contains(t, stderr, "missing=ttl")
}
