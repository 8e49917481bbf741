package compiler

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsripraj/stock-alchemy/internal/concept"
	"github.com/jsripraj/stock-alchemy/internal/queryir"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCompileQuery_Golden(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		year    int
		limit   int
	}{
		{"revenue_above_net_income", "[2023 Revenue] > [2023 Net Income]", 2023, 0},
		{"earnings_yield", "[2023 Net Income] / [Market Cap] > 1 / 10", 2024, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := CompileQuery(tt.formula, tt.year, tt.limit)
			require.NoError(t, err)
			newGoldie(t).Assert(t, tt.name, []byte(sql))
		})
	}
}

func TestCompiler_Golden(t *testing.T) {
	c := New(concept.DefaultUniverse(2023), 2023)

	sql, err := c.Compile("([2023 Revenue] - [2022 Revenue]) / [2022 revenue] < 005", 25)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "revenue_growth", []byte(sql))
}

func TestCompileQuery_SidesReferenceTheirJoins(t *testing.T) {
	sql, err := CompileQuery("[2023 Revenue] > [2023 Net Income]", 2023, 0)
	require.NoError(t, err)

	assert.Contains(t, sql, "(Revenue2023.value) AS leftSide")
	assert.Contains(t, sql, "(NetIncome2023.value) AS rightSide")
	assert.Contains(t, sql, "JOIN facts AS Revenue2023 ON")
	assert.Contains(t, sql, "JOIN facts AS NetIncome2023 ON")
	assert.Contains(t, sql, "WHERE leftSide > rightSide")
	assert.NotContains(t, sql, "LIMIT")
}

func TestCompileQuery_UnknownConceptCompilesToEmptyJoin(t *testing.T) {
	sql, err := CompileQuery("[2023 Foo] > 0", 2023, 0)
	require.NoError(t, err)
	assert.Contains(t, sql, "JOIN facts AS Foo2023 ON")
	assert.Contains(t, sql, "Foo2023.concept = 'Foo'")
}

func TestCompileQuery_NoInequality(t *testing.T) {
	for _, f := range []string{
		"[2023 Revenue] + 1",
		"[2023 Revenue] > 1 > 0",
		"",
	} {
		_, err := CompileQuery(f, 2023, 0)
		assert.True(t, errors.Is(err, ErrNoInequality), f)
	}
}

func TestCompileQuery_Limit(t *testing.T) {
	sql, err := CompileQuery("[2023 Revenue] > 0", 2023, 1)
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY ticker ASC LIMIT 1")

	_, err = CompileQuery("[2023 Revenue] > 0", 2023, -1)
	var ce *CompileError
	assert.True(t, errors.As(err, &ce))
}

func TestBuild_MarketCapExpansion(t *testing.T) {
	c := New(concept.DefaultUniverse(2023), 2023)

	q, err := c.Build("[market cap] > 10 * [2023 Revenue]", 0)
	require.NoError(t, err)

	require.Len(t, q.Joins, 2)
	assert.Equal(t, "SharesOutstanding2023", q.Joins[0].Alias)
	assert.Equal(t, "SharesOutstanding", q.Joins[0].Label)
	assert.Equal(t, "Revenue2023", q.Joins[1].Alias)

	left := q.Columns[2].Expr.(queryir.Arith)
	assert.Equal(t, []queryir.Term{
		queryir.MarketCap{
			Close:  queryir.ColumnRef{Table: "companies", Column: "close"},
			Shares: queryir.FactValue{Alias: "SharesOutstanding2023"},
		},
	}, left.Parts)

	right := q.Columns[3].Expr.(queryir.Arith)
	assert.Equal(t, []queryir.Term{
		queryir.Number{Digits: "10"},
		queryir.Operator{Symbol: "*"},
		queryir.FactValue{Alias: "Revenue2023"},
	}, right.Parts)

	assert.True(t, queryir.Validate(q).Trusted)
}

func TestBuild_DeduplicatesSharesJoin(t *testing.T) {
	// With no base concept, shares outstanding is selectable directly and
	// shares a join with Market Cap.
	open := concept.Universe{Years: []string{"2023"}, Concepts: concept.DefaultConcepts}
	c := New(open, 2023)

	q, err := c.Build("[Market Cap] / [2023 Shares Outstanding] > 1", 0)
	require.NoError(t, err)
	require.Len(t, q.Joins, 1)
	assert.Equal(t, "SharesOutstanding2023", q.Joins[0].Alias)
}

func TestBuild_UnresolvableToken(t *testing.T) {
	c := New(concept.DefaultUniverse(2023), 2023)

	_, err := c.Build("[2023 Foo] > 1", 0)
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "token", ce.Field)
	assert.Contains(t, ce.Message, "[2023 Foo]")
}

func TestBuild_UnexpectedCharacter(t *testing.T) {
	_, err := CompileQuery("[2023 Revenue] > 1; DROP TABLE facts", 2023, 0)
	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "right side", ce.Field)
}

func TestCompiler_MostRecentYear(t *testing.T) {
	c := New(concept.DefaultUniverse(2024), 2024)
	assert.Equal(t, 2024, c.MostRecentYear())
}
