package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jsripraj/stock-alchemy/internal/testutil"
)

// createTestStore creates a new store in a temp directory for testing.
// Ids and timestamps are deterministic.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{
		WithIDGenerator(testutil.NewSequentialIDGenerator("formula")),
		WithClock(testutil.NewStepClock().Now),
	}, opts...)
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func price(v float64) *float64 {
	return &v
}

// annual builds a fiscal-year fact ending on December 31.
func annual(cik, label string, year int, duration string, value float64) Fact {
	return Fact{
		CIK:          cik,
		Concept:      label,
		FiscalYear:   year,
		FiscalPeriod: "Q4",
		Duration:     duration,
		EndDate:      "2023-12-31",
		Accn:         "0000000000-24-000001",
		Form:         "10-K",
		Value:        value,
	}
}

// seedFacts stores three companies:
//
//	AAA: revenue 100, net income 10, shares 5, close 10
//	BBB: revenue 50, net income 60, shares 100, close 2
//	CCC: revenue 30, net income 1, shares 1, no close
func seedFacts(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	companies := []Company{
		{CIK: "0000000001", Ticker: "AAA", Name: "Alpha Corp", Close: price(10), CloseDate: "2024-01-02"},
		{CIK: "0000000002", Ticker: "BBB", Name: "Beta Inc", Close: price(2), CloseDate: "2024-01-02"},
		{CIK: "0000000003", Ticker: "CCC", Name: "Gamma LLC"},
	}
	if err := s.UpsertCompanies(ctx, companies); err != nil {
		t.Fatalf("UpsertCompanies() failed: %v", err)
	}

	facts := []Fact{
		annual("0000000001", "Revenue", 2023, "Year", 100),
		annual("0000000001", "NetIncome", 2023, "Year", 10),
		annual("0000000001", "SharesOutstanding", 2023, "", 5),
		annual("0000000002", "Revenue", 2023, "Year", 50),
		annual("0000000002", "NetIncome", 2023, "Year", 60),
		annual("0000000002", "SharesOutstanding", 2023, "", 100),
		annual("0000000003", "Revenue", 2023, "Year", 30),
		annual("0000000003", "NetIncome", 2023, "Year", 1),
		annual("0000000003", "SharesOutstanding", 2023, "", 1),
		// Quarterly revenue must not match the annual join.
		annual("0000000001", "Revenue", 2023, "OneQuarter", 25),
	}
	if err := s.UpsertFacts(ctx, facts); err != nil {
		t.Fatalf("UpsertFacts() failed: %v", err)
	}
}
