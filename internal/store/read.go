package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrFormulaNotFound is returned when no formula has the requested id.
var ErrFormulaNotFound = errors.New("formula not found")

// ResultRow is one company satisfying a formula.
type ResultRow struct {
	Ticker    string  `json:"ticker"`
	Company   string  `json:"company"`
	LeftSide  float64 `json:"leftSide"`
	RightSide float64 `json:"rightSide"`
}

// ReadFormula returns the formula text stored under id.
func (s *Store) ReadFormula(ctx context.Context, id string) (string, error) {
	var formula string
	err := s.db.QueryRowContext(ctx,
		`SELECT formula FROM formulas WHERE id = ?`, id,
	).Scan(&formula)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("read formula %s: %w", id, ErrFormulaNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read formula %s: %w", id, err)
	}
	return formula, nil
}

// Probe runs a compiled formula query and discards its rows. It reports
// whether the store accepts the query text and its joins.
func (s *Store) Probe(ctx context.Context, query string) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer rows.Close()

	_ = rows.Next()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	return nil
}

// Results runs a compiled formula query. Rows come back in query order
// (ticker ascending).
//
// Returns an empty slice (not nil) when no company satisfies the formula.
func (s *Store) Results(ctx context.Context, query string) ([]ResultRow, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := []ResultRow{}
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.Ticker, &r.Company, &r.LeftSide, &r.RightSide); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// HasCompany reports whether a company with cik is stored.
func (s *Store) HasCompany(ctx context.Context, cik string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM companies WHERE cik = ?`, cik,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("has company: %w", err)
	}
	return n > 0, nil
}

// CountFacts returns the number of stored facts.
func (s *Store) CountFacts(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count facts: %w", err)
	}
	return n, nil
}

// ReadFacts returns the stored facts of one company ordered by concept,
// fiscal year, period and duration.
//
// Returns an empty slice (not nil) if the company has no facts.
func (s *Store) ReadFacts(ctx context.Context, cik string) ([]Fact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cik, concept, fiscal_year, fiscal_period, duration, end_date, accn, form, value
		FROM facts
		WHERE cik = ?
		ORDER BY concept ASC, fiscal_year ASC, fiscal_period ASC, IFNULL(duration, '') ASC
	`, cik)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	facts := []Fact{}
	for rows.Next() {
		var (
			f        Fact
			duration sql.NullString
		)
		if err := rows.Scan(&f.CIK, &f.Concept, &f.FiscalYear, &f.FiscalPeriod, &duration,
			&f.EndDate, &f.Accn, &f.Form, &f.Value); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		f.Duration = duration.String
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate facts: %w", err)
	}
	return facts, nil
}
