package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shexcheck/internal/manifest"
	"github.com/roach88/shexcheck/internal/testutil"
)

func missingSuite(t *testing.T) string {
	t.Helper()
	withShEx := testutil.Valid("1dot")
	withShEx.ShEx = "1dot.shex"
	return testutil.WriteSuite(t,
		withShEx,
		testutil.Entry{Name: "gone", JSON: "gone.json", TTL: "gone.ttl"},
		// A file named twice is listed once.
		testutil.Entry{Name: "again", JSON: "gone.json"},
	)
}

func TestMissing(t *testing.T) {
	stdout, _, err := execute(t, "missing", missingSuite(t))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assertGolden(t, "missing", stdout)
}

func TestMissingJSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "missing", missingSuite(t))
	require.Error(t, err)

	var result MissingResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMissingFiles, resp.Error.Code)
	require.Len(t, result.Missing, 3)
	assert.Equal(t, "1dot", result.Missing[0].Entry)
	assert.Equal(t, "shex", result.Missing[0].Field)
}

func TestMissingNone(t *testing.T) {
	dir := testutil.WriteSuite(t, testutil.Valid("1dot"))

	stdout, _, err := execute(t, "missing", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stdout, _, err = execute(t, "--format", "json", "missing", dir)
	require.NoError(t, err)
	var result MissingResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, result.Missing)
}

func validationSuite(t *testing.T) (schemas, validation string) {
	t.Helper()
	root := t.TempDir()
	schemas = filepath.Join(root, "schemas")
	entry := testutil.Valid("1dot")
	entry.ShEx = "1dot.shex"
	entry.ShExBody = "PREFIX ex: <http://a.example/>\n"
	require.NoError(t, testutil.Build(schemas, entry))

	validation = testutil.WriteFile(t, filepath.Join(root, "validation"), manifest.DefaultName, `{"@graph": [{"entries": [
		{"name": "1dot_pass", "action": {"schema": "../schemas/1dot.shex"}},
		{"name": "3circ_pass", "action": {"schema": "../schemas/3circ.shex"}},
		{"name": "3circ_fail", "action": {"schema": "../schemas/3circ.shex"}}
	]}]}`)
	return schemas, validation
}

func TestMissingValidation(t *testing.T) {
	schemas, validation := validationSuite(t)

	stdout, _, err := execute(t, "missing", "--validation", validation, schemas)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "3circ.shex (unlisted, used by 3circ_pass)\n", stdout)
	assert.Contains(t, err.Error(), "1 schema(s) unlisted")

	stdout, _, err = execute(t, "--format", "json", "missing", "--validation", validation, schemas)
	require.Error(t, err)
	var result MissingResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "error", resp.Status)
	assert.Empty(t, result.Missing)
	assert.Equal(t, []manifest.UnlistedSchema{{Entry: "3circ_pass", Ref: "3circ.shex"}}, result.Unlisted)
}

func TestMissingValidationNotFound(t *testing.T) {
	schemas, _ := validationSuite(t)

	_, stderr, err := execute(t, "missing", "--validation", filepath.Join(t.TempDir(), "absent.jsonld"), schemas)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error ["+manifest.ErrCodeNotFound+"]")
}
