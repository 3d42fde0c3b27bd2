package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deontologician/multireql/internal/store"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

const mathFixture = `desc: arithmetic on query values
tests:
  - cd: r.expr(1) + 2
    rb: (r(1) + 2)
    js: r.expr(1).add(2)
    java: r.expr(1L).add(2L)
`

func TestCheck_AllMatch(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"math.yaml": mathFixture})

	out, _, err := execute(t, "", "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Checked 1 test(s) in 1 file(s)")
	assert.Contains(t, out, "match: 3  mismatch: 0")
}

func TestCheck_Mismatch(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"bad.yaml": `desc: wrong expectation
tests:
  - cd: r.expr(1) + 2
    java: r.expr(1).add(2)
`})

	out, _, err := execute(t, "", "check", dir, "--target", "java")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "mismatch: 1")
	assert.Contains(t, out, `want "r.expr(1).add(2)", got "r.expr(1L).add(2L)"`)
}

func TestCheck_ParseError(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"broken.yaml": `desc: unparseable source
tests:
  - cd: r.table(
`})

	out, _, err := execute(t, "", "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "parse_error: 1")
}

func TestCheck_TableVariable(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"tables.yaml": `desc: table variables are query roots
table_variable_name: tbl
tests:
  - cd: tbl.get(1)
    java: tbl.get(1L)
`})

	out, _, err := execute(t, "", "check", dir, "--target", "java")
	require.NoError(t, err)
	assert.Contains(t, out, "match: 1")
}

func TestCheck_NoExpectation(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"bare.yaml": `desc: generic only
tests:
  - cd: r.expr(1) + 2
`})

	out, _, err := execute(t, "", "check", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "skip: 3")
}

func TestCheck_AlternativesMatch(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"alts.yaml": `desc: any listed alternative is acceptable
tests:
  - cd: r.expr(1) + 2
    java:
      - r.expr(1).add(2)
      - r.expr(1L).add(2L)
`})

	out, _, err := execute(t, "", "check", dir, "--target", "java")
	require.NoError(t, err)
	assert.Contains(t, out, "match: 1")
}

func TestCheck_MixedOutcomesNeverAbort(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a_broken.yaml": `tests:
  - cd: r.table(
`,
		"b_good.yaml": mathFixture,
	})

	out, _, err := execute(t, "", "check", dir)
	require.Error(t, err)
	assert.Contains(t, out, "Checked 2 test(s) in 2 file(s)")
	assert.Contains(t, out, "match: 3")
	assert.Contains(t, out, "parse_error: 1")
}

func TestCheck_JSONFormat(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"math.yaml": mathFixture})

	out, _, err := execute(t, "", "--format", "json", "check", dir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCheck_EmptyCorpus(t *testing.T) {
	_, _, err := execute(t, "", "check", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_UnknownTarget(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"math.yaml": mathFixture})

	_, _, err := execute(t, "", "check", dir, "--target", "fortran")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_PersistsResults(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"math.yaml": mathFixture})
	dbPath := filepath.Join(t.TempDir(), "check.db")

	out, _, err := execute(t, "", "--format", "json", "check", dir, "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var summary CheckSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	require.NotEmpty(t, summary.RunID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	run, err := st.ReadRun(ctx, summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, dir, run.CorpusDir)

	dbSummary, err := st.Summarize(ctx, summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, dbSummary.Counts[store.OutcomeMatch])
}
