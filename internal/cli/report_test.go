package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedRun checks a corpus into a fresh database and returns the run ID
// and database path.
func seedRun(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	dir := writeCorpus(t, files)
	dbPath := filepath.Join(t.TempDir(), "check.db")

	out, _, _ := execute(t, "", "--format", "json", "check", dir, "--db", dbPath)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var summary CheckSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	require.NotEmpty(t, summary.RunID)
	return summary.RunID, dbPath
}

func TestReport_Summary(t *testing.T) {
	runID, dbPath := seedRun(t, map[string]string{"math.yaml": mathFixture})

	out, _, err := execute(t, "", "report", runID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Run "+runID)
	assert.Contains(t, out, "match: 3  mismatch: 0")
}

func TestReport_ListsFailures(t *testing.T) {
	runID, dbPath := seedRun(t, map[string]string{"bad.yaml": `desc: wrong expectation
tests:
  - cd: r.expr(1) + 2
    java: r.expr(1).add(2)
`})

	out, _, err := execute(t, "", "report", runID, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "bad.yaml [java] mismatch")
	assert.Contains(t, out, `want "r.expr(1).add(2)", got "r.expr(1L).add(2L)"`)
}

func TestReport_OutcomeFilter(t *testing.T) {
	runID, dbPath := seedRun(t, map[string]string{"math.yaml": mathFixture})

	out, _, err := execute(t, "", "report", runID, "--db", dbPath, "--outcome", "match")
	require.NoError(t, err)
	assert.Contains(t, out, "math.yaml [rb] match")
	assert.Contains(t, out, "math.yaml [js] match")
	assert.Contains(t, out, "math.yaml [java] match")
}

func TestReport_JSONFormat(t *testing.T) {
	runID, dbPath := seedRun(t, map[string]string{"math.yaml": mathFixture})

	out, _, err := execute(t, "", "--format", "json", "report", runID, "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report RunReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, runID, report.RunID)
	assert.Equal(t, 3, report.Counts["match"])
}

func TestReport_UnknownRun(t *testing.T) {
	_, dbPath := seedRun(t, map[string]string{"math.yaml": mathFixture})

	_, _, err := execute(t, "", "report", "no-such-run", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReport_UnknownOutcome(t *testing.T) {
	runID, dbPath := seedRun(t, map[string]string{"math.yaml": mathFixture})

	_, _, err := execute(t, "", "report", runID, "--db", dbPath, "--outcome", "partial")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
