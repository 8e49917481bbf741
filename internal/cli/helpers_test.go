package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Fixtures shared with the ingest package.
var (
	tickersFile = filepath.Join("..", "ingest", "testdata", "company_tickers.json")
	factsFile   = filepath.Join("..", "ingest", "testdata", "CIK0000000001.json")
	pricesFile  = filepath.Join("..", "ingest", "testdata", "prices.csv")
)

// newTestOptions returns options over a fresh store file. The clock sits
// in 2024 so the default most recent year is 2023.
func newTestOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	return &RootOptions{
		Format: format,
		DB:     filepath.Join(t.TempDir(), "alchemy.db"),
		Logger: zaptest.NewLogger(t),
		Now: func() time.Time {
			return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

// execute runs cmd with args and returns its standard output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeResponse parses a JSON CLIResponse and decodes its data into v.
func decodeResponse(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if v != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}

// seedStore loads the ingest fixtures into the store behind opts.
func seedStore(t *testing.T, opts *RootOptions) {
	t.Helper()
	_, err := execute(t, NewIngestCommand(opts), "tickers", tickersFile)
	require.NoError(t, err)
	_, err = execute(t, NewIngestCommand(opts), "facts", "1", factsFile)
	require.NoError(t, err)
	_, err = execute(t, NewIngestCommand(opts), "prices", pricesFile)
	require.NoError(t, err)
}
