package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestRun_Passes(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/results.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Cases, len(s.Cases))

	assert.Equal(t, []string{"AAA", "CCC"}, result.Cases[0].Tickers)
	assert.Contains(t, result.Cases[0].SQL, "ORDER BY ticker ASC")
	assert.Empty(t, result.Cases[1].SQL)
}

func TestRun_IsolatedStores(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/results.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	// Fresh store and id sequence per run.
	assert.Equal(t, first.Cases, second.Cases)
	assert.Equal(t, "formula-0001", second.Cases[0].ID)
}

func TestRun_ReportsMismatches(t *testing.T) {
	s := &Scenario{
		Name:           "mismatch",
		Description:    "expectations that do not hold",
		MostRecentYear: 2023,
		Companies: []CompanyRow{
			{CIK: "0000000001", Ticker: "AAA", Company: "Alpha Corp"},
		},
		Facts: []FactRow{
			{CIK: "0000000001", Concept: "Revenue", Year: 2023, Duration: "Year", Value: 100},
		},
		Cases: []Case{
			{Formula: "[2023 Revenue]", Valid: true},
			{Formula: "1 > 0", Valid: false, Code: "E201", Reason: "wrong"},
			{Formula: "[2023 Revenue] > 1", Valid: true, Results: &ResultsExpect{Tickers: []string{"BBB"}}},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)

	assert.Equal(t, `cases[0] "[2023 Revenue]": valid: expected true, got false (formula must be an inequality)`, result.Errors[0])
	assert.Equal(t, `cases[1] "1 > 0": code: expected E201, got E203`, result.Errors[1])
	assert.True(t, strings.HasPrefix(result.Errors[2], `cases[1] "1 > 0": reason: expected "wrong"`))
	assert.Equal(t, `cases[2] "[2023 Revenue] > 1": tickers: expected [BBB], got [AAA]`, result.Errors[3])
}

func TestRun_SeedFailure(t *testing.T) {
	s := &Scenario{
		Name:           "bad seed",
		Description:    "a fact for a company that was never seeded",
		MostRecentYear: 2023,
		Facts: []FactRow{
			{CIK: "0000000404", Concept: "Revenue", Year: 2023, Value: 1},
		},
		Cases: []Case{{Formula: "[2023 Revenue] > 1", Valid: true}},
	}

	_, err := Run(s)
	assert.Error(t, err)
}

func TestCheckCase(t *testing.T) {
	c := Case{Formula: "[2023 Revenue] > 1", Valid: true}

	assert.Empty(t, checkCase(0, c, CaseResult{Formula: c.Formula, Valid: true}))

	failures := checkCase(3, c, CaseResult{Formula: c.Formula, Valid: false, Reason: "invalid formula", Code: "E212"})
	require.Len(t, failures, 1)
	assert.Equal(t, 3, failures[0].Case)
	assert.Equal(t, "valid", failures[0].Field)
	assert.Equal(t, "false (invalid formula)", failures[0].Actual)

	invalid := Case{Formula: "1 > 0", Valid: false, Code: "E203"}
	failures = checkCase(0, invalid, CaseResult{Formula: "1 > 0", Valid: false})
	require.Len(t, failures, 1)
	assert.Equal(t, `""`, failures[0].Actual)
}

func TestMarshalReport_DoesNotEscapeOperators(t *testing.T) {
	r := NewResult()
	r.Cases = append(r.Cases, CaseResult{Formula: "[2023 Revenue] < 1 & 2", Valid: true})

	data, err := MarshalReport("ops", r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"[2023 Revenue] < 1 & 2"`)
	assert.NotContains(t, string(data), `\u003c`)
	assert.NotContains(t, string(data), `"errors"`)
}
