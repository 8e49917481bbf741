package harness

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jsripraj/stock-alchemy/internal/concept"
	"github.com/jsripraj/stock-alchemy/internal/engine"
	"github.com/jsripraj/stock-alchemy/internal/queryir"
	"github.com/jsripraj/stock-alchemy/internal/store"
	"github.com/jsripraj/stock-alchemy/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs one scenario against a seeded store.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	logger *zap.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Seed companies and facts
// 3. Validate every case through the engine (store probe included)
// 4. Compile and query valid cases that ask for it
// 5. Return result with pass/fail, per-case outcomes and errors
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequentialIDGenerator("formula")),
		store.WithClock(testutil.NewStepClock().Now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := seed(ctx, st, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	logger := zap.NewNop()
	h := &Harness{
		store:  st,
		engine: engine.New(st, scenarioUniverse(scenario), scenario.MostRecentYear, engine.WithLogger(logger)),
		logger: logger,
	}

	result := NewResult()
	for i, c := range scenario.Cases {
		cr, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		result.Cases = append(result.Cases, cr)
		for _, failure := range checkCase(i, c, cr) {
			result.AddError(failure.Error())
		}
	}
	return result, nil
}

func (h *Harness) runCase(ctx context.Context, c Case) (CaseResult, error) {
	res := h.engine.Validate(ctx, c.Formula)
	cr := CaseResult{
		Formula: c.Formula,
		Valid:   res.Valid,
		Reason:  res.Reason,
		Expr:    res.Expr,
	}
	if res.Err != nil {
		cr.Code = res.Err.Code
	}
	if !res.Valid {
		return cr, nil
	}

	if c.Compile {
		sql, err := h.engine.Compiler().Compile(c.Formula, 0)
		if err != nil {
			return cr, fmt.Errorf("compile valid formula: %w", err)
		}
		cr.SQL = sql
	}

	if c.Results != nil {
		id, rows, err := h.engine.Find(ctx, c.Formula, c.Results.Limit)
		if err != nil {
			return cr, fmt.Errorf("find: %w", err)
		}
		cr.ID = id
		cr.Tickers = make([]string, len(rows))
		for i, row := range rows {
			cr.Tickers[i] = row.Ticker
		}
	}
	return cr, nil
}

func scenarioUniverse(s *Scenario) concept.Universe {
	if s.Universe == nil {
		return concept.DefaultUniverse(s.MostRecentYear)
	}
	u := concept.NewUniverse(s.Universe.Years, s.Universe.Concepts)
	if s.Universe.Base != nil {
		u.Base = *s.Universe.Base
	}
	return u
}

func seed(ctx context.Context, st *store.Store, s *Scenario) error {
	companies := make([]store.Company, len(s.Companies))
	for i, c := range s.Companies {
		companies[i] = store.Company{
			CIK:    c.CIK,
			Ticker: c.Ticker,
			Name:   c.Company,
			Close:  c.Close,
		}
	}
	if err := st.UpsertCompanies(ctx, companies); err != nil {
		return err
	}

	facts := make([]store.Fact, len(s.Facts))
	for i, f := range s.Facts {
		period := f.Period
		if period == "" {
			period = queryir.PeriodQ4
		}
		facts[i] = store.Fact{
			CIK:          f.CIK,
			Concept:      concept.Concept{Name: f.Concept}.Label(),
			FiscalYear:   f.Year,
			FiscalPeriod: period,
			Duration:     f.Duration,
			EndDate:      fmt.Sprintf("%d-12-31", f.Year),
			Form:         "10-K",
			Value:        f.Value,
		}
	}
	return st.UpsertFacts(ctx, facts)
}
