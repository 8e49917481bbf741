package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/jsripraj/stock-alchemy/internal/store"
)

func TestParseTickers(t *testing.T) {
	f, err := os.Open("testdata/company_tickers.json")
	require.NoError(t, err)
	defer f.Close()

	got, err := ParseTickers(f)
	require.NoError(t, err)

	want := []store.Company{
		{CIK: "0000320193", Ticker: "AAPL", Name: "Apple Inc."},
		{CIK: "0000789019", Ticker: "MSFT", Name: "MICROSOFT CORP"},
		{CIK: "0001652044", Ticker: "GOOGL", Name: "Alphabet Inc."},
		{CIK: "0000000001", Ticker: "AAA", Name: "Alpha Corp"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseTickers() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTickers_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"array", `[]`},
		{"bad rank", `{"x": {"cik_str": 1, "ticker": "A", "title": "A"}}`},
		{"no cik", `{"0": {"ticker": "A", "title": "A"}}`},
		{"no ticker", `{"0": {"cik_str": 1, "title": "A"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTickers(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestClassifyPeriod(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
	}{
		{"", "2023-12-31", DurationInstant},
		{"2023-07-01", "2023-09-30", DurationOneQuarter},
		{"2023-01-01", "2023-06-30", DurationTwoQuarters},
		{"2023-01-01", "2023-09-30", DurationThreeQuarters},
		{"2023-01-01", "2023-12-31", DurationYear},
		{"2022-10-01", "2023-12-31", DurationOther},
		{"2023-01-01", "2023-03-22", DurationOther}, // 80 days
		{"2023-01-01", "2023-01-01", DurationOther},
	}
	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			got, err := ClassifyPeriod(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ClassifyPeriod("2023-01-01", "31/12/2023")
	assert.Error(t, err)
}

func TestFiscalPeriod(t *testing.T) {
	p, ok := FiscalPeriod("FY")
	assert.True(t, ok)
	assert.Equal(t, "Q4", p)

	p, ok = FiscalPeriod("Q2")
	assert.True(t, ok)
	assert.Equal(t, "Q2", p)

	_, ok = FiscalPeriod("H1")
	assert.False(t, ok)
}

func TestParseCompanyFacts(t *testing.T) {
	f, err := os.Open("testdata/CIK0000000001.json")
	require.NoError(t, err)
	defer f.Close()

	got, err := ParseCompanyFacts(f, "0000000001", DefaultAliases)
	require.NoError(t, err)

	fact := func(concept, period, duration, end, accn, form string, value float64) store.Fact {
		return store.Fact{
			CIK:          "0000000001",
			Concept:      concept,
			FiscalYear:   2023,
			FiscalPeriod: period,
			Duration:     duration,
			EndDate:      end,
			Accn:         accn,
			Form:         form,
			Value:        value,
		}
	}
	const (
		annual  = "0000000001-24-000001"
		quarter = "0000000001-23-000003"
	)
	want := []store.Fact{
		fact("Assets", "Q4", "", "2023-12-31", annual, "10-K", 500),
		fact("NetIncome", "Q4", "Year", "2023-12-31", annual, "10-K", 10.5),
		fact("Revenue", "Q3", "OneQuarter", "2023-09-30", quarter, "10-Q", 30),
		fact("Revenue", "Q3", "ThreeQuarters", "2023-09-30", quarter, "10-Q", 70),
		// RevenueFromContractWithCustomerExcludingAssessedTax outranks Revenues.
		fact("Revenue", "Q4", "Year", "2023-12-31", annual, "10-K", 99),
		fact("SharesOutstanding", "Q3", "", "2023-10-20", quarter, "10-Q", 4900),
		fact("SharesOutstanding", "Q4", "", "2024-02-01", annual, "10-K", 5000),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseCompanyFacts() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCompanyFacts_LaterFilingWins(t *testing.T) {
	doc := `{"facts": {"us-gaap": {"Assets": {"units": {"USD": [
		{"end": "2023-12-31", "val": 1, "accn": "a", "fy": 2023, "fp": "FY", "form": "10-K", "filed": "2024-02-01"},
		{"end": "2023-12-31", "val": 2, "accn": "b", "fy": 2023, "fp": "FY", "form": "10-K", "filed": "2024-03-01"}
	]}}}}}`

	got, err := ParseCompanyFacts(strings.NewReader(doc), "0000000001", DefaultAliases)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Value)
	assert.Equal(t, "b", got[0].Accn)
}

func TestParseCompanyFacts_Empty(t *testing.T) {
	got, err := ParseCompanyFacts(strings.NewReader(`{"cik": 1, "facts": {}}`), "0000000001", DefaultAliases)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = ParseCompanyFacts(strings.NewReader(`{"facts":`), "0000000001", DefaultAliases)
	assert.Error(t, err)
}

func TestParsePrices(t *testing.T) {
	f, err := os.Open("testdata/prices.csv")
	require.NoError(t, err)
	defer f.Close()

	got, err := ParsePrices(f)
	require.NoError(t, err)
	assert.Equal(t, []Price{
		{Ticker: "AAA", Date: "2024-01-02", Close: 12.5},
		{Ticker: "MSFT", Date: "2024-01-02", Close: 370.87},
		{Ticker: "ZZZZ", Date: "2024-01-02", Close: 1},
	}, got)
}

func TestParsePrices_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"wrong header", "symbol,date,close\n"},
		{"bad date", "ticker,date,close\nAAA,01/02/2024,1\n"},
		{"bad close", "ticker,date,close\nAAA,2024-01-02,n/a\n"},
		{"short row", "ticker,date,close\nAAA,2024-01-02\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrices(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}

	got, err := ParsePrices(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func newTestIngester(t *testing.T) (*Ingester, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, WithLogger(zaptest.NewLogger(t))), s
}

func loadTestTickers(t *testing.T, in *Ingester) {
	t.Helper()
	f, err := os.Open("testdata/company_tickers.json")
	require.NoError(t, err)
	defer f.Close()

	sum, err := in.LoadTickers(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Companies)
}

func TestIngester_LoadFacts(t *testing.T) {
	in, s := newTestIngester(t)
	ctx := context.Background()
	loadTestTickers(t, in)

	f, err := os.Open("testdata/CIK0000000001.json")
	require.NoError(t, err)
	defer f.Close()

	sum, err := in.LoadFacts(ctx, "0000000001", f)
	require.NoError(t, err)
	assert.Equal(t, Summary{Files: 1, Facts: 7}, sum)

	facts, err := s.ReadFacts(ctx, "0000000001")
	require.NoError(t, err)
	assert.Len(t, facts, 7)
}

func TestIngester_LoadFacts_UnknownCompany(t *testing.T) {
	in, _ := newTestIngester(t)

	_, err := in.LoadFacts(context.Background(), "0000000001", strings.NewReader(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCompany))
}

func TestIngester_LoadArchive(t *testing.T) {
	in, s := newTestIngester(t)
	ctx := context.Background()
	loadTestTickers(t, in)

	doc, err := os.ReadFile("testdata/CIK0000000001.json")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "companyfacts.zip")
	writeZip(t, path, map[string][]byte{
		"CIK0000000001.json": doc,
		"CIK0000000404.json": doc,
		"README.txt":         []byte("not facts"),
	})

	sum, err := in.LoadArchive(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, Summary{Files: 1, Facts: 7, Skipped: 1}, sum)

	n, err := s.CountFacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestIngester_LoadArchive_Cancelled(t *testing.T) {
	in, _ := newTestIngester(t)

	path := filepath.Join(t.TempDir(), "companyfacts.zip")
	writeZip(t, path, map[string][]byte{"CIK0000000001.json": []byte(`{}`)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := in.LoadArchive(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngester_LoadArchive_Missing(t *testing.T) {
	in, _ := newTestIngester(t)
	_, err := in.LoadArchive(context.Background(), filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
}

func TestIngester_LoadPrices(t *testing.T) {
	in, s := newTestIngester(t)
	ctx := context.Background()
	loadTestTickers(t, in)

	f, err := os.Open("testdata/prices.csv")
	require.NoError(t, err)
	defer f.Close()

	sum, err := in.LoadPrices(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Summary{Prices: 2, Skipped: 1}, sum)

	var closePrice float64
	require.NoError(t, s.DB().QueryRow(`SELECT close FROM companies WHERE ticker = 'AAA'`).Scan(&closePrice))
	assert.Equal(t, 12.5, closePrice)
}

func TestNew_Defaults(t *testing.T) {
	in := New(nil)
	assert.Equal(t, len(DefaultAliases), len(in.aliases))
	assert.NotNil(t, in.logger)

	custom := []Alias{{Tag: "Assets", Concept: "Assets"}}
	in = New(nil, WithAliases(custom), WithLogger(zap.NewNop()))
	assert.Equal(t, custom, in.aliases)
}

func writeZip(t *testing.T, path string, members map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}
