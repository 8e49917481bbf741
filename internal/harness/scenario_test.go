package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/results.yaml")
	require.NoError(t, err)

	assert.Equal(t, "results", s.Name)
	assert.Equal(t, 2023, s.MostRecentYear)
	require.NotNil(t, s.Universe)
	require.NotNil(t, s.Universe.Base)
	assert.Equal(t, "Shares Outstanding", *s.Universe.Base)
	assert.Len(t, s.Companies, 3)
	assert.Nil(t, s.Companies[2].Close)
	assert.Equal(t, 10.0, *s.Companies[0].Close)
	assert.Len(t, s.Facts, 10)
	assert.Equal(t, "", s.Facts[2].Duration)

	require.Len(t, s.Cases, 5)
	require.NotNil(t, s.Cases[2].Results)
	assert.Equal(t, 1, s.Cases[2].Results.Limit)
	require.NotNil(t, s.Cases[3].Results)
	assert.Empty(t, s.Cases[3].Results.Tickers)
	assert.Nil(t, s.Cases[4].Results)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nmost_recent_year: 2023\ncase:\n  - formula: \"1 > 0\"\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "description: d\nmost_recent_year: 2023\ncases:\n  - {formula: \"[2023 Revenue] > 1\", valid: true}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing year",
			content: "name: x\ndescription: d\ncases:\n  - {formula: \"[2023 Revenue] > 1\", valid: true}\n",
			wantErr: "most_recent_year is required",
		},
		{
			name:    "no cases",
			content: "name: x\ndescription: d\nmost_recent_year: 2023\n",
			wantErr: "cases list is required",
		},
		{
			name:    "invalid case without code",
			content: "name: x\ndescription: d\nmost_recent_year: 2023\ncases:\n  - {formula: \"1 > 0\", valid: false}\n",
			wantErr: "code is required",
		},
		{
			name:    "results on invalid case",
			content: "name: x\ndescription: d\nmost_recent_year: 2023\ncases:\n  - {formula: \"1 > 0\", valid: false, code: E203, results: {tickers: []}}\n",
			wantErr: "require a valid case",
		},
		{
			name:    "fact for unknown company",
			content: "name: x\ndescription: d\nmost_recent_year: 2023\nfacts:\n  - {cik: \"1\", concept: Revenue, year: 2023, value: 1}\ncases:\n  - {formula: \"[2023 Revenue] > 1\", valid: true}\n",
			wantErr: "not a listed company",
		},
		{
			name:    "empty universe",
			content: "name: x\ndescription: d\nmost_recent_year: 2023\nuniverse: {years: [], concepts: [Revenue]}\ncases:\n  - {formula: \"[2023 Revenue] > 1\", valid: true}\n",
			wantErr: "universe.years",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	// Ordered by file name.
	assert.Equal(t, "results", scenarios[0].Name)
	assert.Equal(t, "validation", scenarios[1].Name)
}

func TestLoadScenarios_Errors(t *testing.T) {
	_, err := LoadScenarios(t.TempDir())
	assert.ErrorContains(t, err, "no scenario files")

	dir := t.TempDir()
	body := "name: same\ndescription: d\nmost_recent_year: 2023\ncases:\n  - {formula: \"[2023 Revenue] > 1\", valid: true}\n"
	writeScenario(t, dir, "a.yaml", body)
	writeScenario(t, dir, "b.yaml", body)
	_, err = LoadScenarios(dir)
	assert.ErrorContains(t, err, "already used by a.yaml")
}
