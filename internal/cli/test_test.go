package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")
	harnessGolden    = filepath.Join("..", "harness", "testdata", "golden")
)

const passingScenario = `name: revenue
description: "Revenue formulas"
most_recent_year: 2023
cases:
  - formula: "[2023 Revenue] > 0"
    valid: true
  - formula: "[2023 Revenue] > [2023 Revenue]"
    valid: false
    code: E211
`

const failingScenario = `name: wrong
description: "Expects the wrong code"
most_recent_year: 2023
cases:
  - formula: "[2023 Revenue]"
    valid: false
    code: E202
`

func writeScenario(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, NewTestCommand(newTestOptions(t, "text")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, NewTestCommand(newTestOptions(t, "text")), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := execute(t, NewTestCommand(newTestOptions(t, "text")), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := execute(t, NewTestCommand(newTestOptions(t, "json")), t.TempDir())
	require.NoError(t, err)

	var res TestResult
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Scenarios)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	out, err := execute(t, NewTestCommand(newTestOptions(t, "text")),
		harnessScenarios, "--golden", harnessGolden)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ results")
	assert.Contains(t, out, "✓ validation")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilterJSON(t *testing.T) {
	out, err := execute(t, NewTestCommand(newTestOptions(t, "json")),
		harnessScenarios, "--golden", harnessGolden, "--filter", "valid*")
	require.NoError(t, err, out)

	var res TestResult
	decodeResponse(t, out, &res)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Passed)
	require.Len(t, res.Scenarios, 1)
	assert.Equal(t, "validation", res.Scenarios[0].Name)
	assert.True(t, res.Scenarios[0].Pass)
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := execute(t, NewTestCommand(newTestOptions(t, "text")), harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "wrong.yaml", failingScenario)

	out, err := execute(t, NewTestCommand(newTestOptions(t, "json")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var res TestResult
	resp := decodeResponse(t, out, &res)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Scenarios, 2)
	assert.True(t, res.Scenarios[0].Pass)
	assert.False(t, res.Scenarios[1].Pass)
	require.NotEmpty(t, res.Scenarios[1].Errors)
	assert.Contains(t, res.Scenarios[1].Errors[0], "E202")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "typo.yaml", "name: typo\ndescription: x\nmost_recent_year: 2023\ncase: []\n")

	out, err := execute(t, NewTestCommand(newTestOptions(t, "text")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ typo.yaml")
	assert.Contains(t, out, "Load error")
}

func TestTestCommandUpdateAndCompareGolden(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "revenue.yaml", passingScenario)
	goldenPath := filepath.Join(dir, "golden", "revenue.golden")

	// No golden file yet: assertions alone decide.
	_, err := execute(t, NewTestCommand(newTestOptions(t, "text")), dir)
	require.NoError(t, err)
	assert.NoFileExists(t, goldenPath)

	_, err = execute(t, NewTestCommand(newTestOptions(t, "text")), dir, "--update")
	require.NoError(t, err)
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario": "revenue"`)
	assert.Contains(t, string(data), `"formula": "[2023 Revenue] > 0"`)

	_, err = execute(t, NewTestCommand(newTestOptions(t, "text")), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, err := execute(t, NewTestCommand(newTestOptions(t, "text")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}
