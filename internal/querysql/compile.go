package querysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsripraj/stock-alchemy/internal/queryir"
)

// SQLCompiler renders QueryIR to SQL text for SQLite.
//
// The output carries no parameters: aliases, labels and years are
// interpolated, so Compile refuses any query that queryir.Validate does
// not trust. Every query ends in an ORDER BY so results are deterministic.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a QueryIR query to SQL.
func (c *SQLCompiler) Compile(q queryir.Query) (string, error) {
	if q == nil {
		return "", fmt.Errorf("cannot compile nil query")
	}
	if result := queryir.Validate(q); !result.Trusted {
		return "", fmt.Errorf("untrusted query: %s", strings.Join(result.Violations, "; "))
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	default:
		return "", fmt.Errorf("unsupported query type: %T", q)
	}
}

// compileSelect renders the results CTE and the outer filter.
func (c *SQLCompiler) compileSelect(q queryir.Select) (string, error) {
	columns := make([]string, 0, len(q.Columns))
	aliases := make([]string, 0, len(q.Columns))
	for _, col := range q.Columns {
		expr, err := c.compileTerm(col.Expr)
		if err != nil {
			return "", fmt.Errorf("compile column %s: %w", col.Alias, err)
		}
		if _, arith := col.Expr.(queryir.Arith); arith {
			expr = "(" + expr + ")"
		}
		columns = append(columns, expr+" AS "+col.Alias)
		aliases = append(aliases, col.Alias)
	}

	joins := make([]string, 0, len(q.Joins))
	for _, j := range q.Joins {
		joins = append(joins, c.compileJoin(q.From, j))
	}

	inner := "SELECT " + strings.Join(columns, ", ") + " FROM " + q.From
	if len(joins) > 0 {
		inner += " " + strings.Join(joins, " ")
	}

	sql := fmt.Sprintf("WITH results AS (%s) SELECT %s FROM results WHERE %s %s %s",
		inner,
		strings.Join(aliases, ", "),
		q.Filter.Left, q.Filter.Op, q.Filter.Right)

	sql += " ORDER BY " + c.stableOrderKey(q)

	if q.Limit > 0 {
		sql += " LIMIT " + strconv.Itoa(q.Limit)
	}
	return sql, nil
}

// stableOrderKey returns the ORDER BY clause. Falls back to the first
// column when the query names no key.
func (c *SQLCompiler) stableOrderKey(q queryir.Select) string {
	keys := q.OrderBy
	if len(keys) == 0 {
		keys = []string{q.Columns[0].Alias}
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " ASC"
	}
	return strings.Join(parts, ", ")
}

// compileJoin renders one facts join matching company, concept label,
// fiscal year, period and accepted durations.
func (c *SQLCompiler) compileJoin(from string, j queryir.FactJoin) string {
	a := j.Alias
	conds := []string{
		fmt.Sprintf("%s.cik = %s.cik", a, from),
		fmt.Sprintf("%s.concept = '%s'", a, j.Label),
		fmt.Sprintf("%s.fiscal_year = %s", a, j.Year),
		fmt.Sprintf("%s.fiscal_period = '%s'", a, j.Period),
	}

	durations := make([]string, 0, len(j.Durations))
	for _, d := range j.Durations {
		if d == queryir.DurationUnspecified {
			durations = append(durations, a+".duration IS NULL")
			continue
		}
		durations = append(durations, fmt.Sprintf("%s.duration = '%s'", a, d))
	}
	if len(durations) == 1 {
		conds = append(conds, durations[0])
	} else {
		conds = append(conds, "("+strings.Join(durations, " OR ")+")")
	}

	return fmt.Sprintf("JOIN %s AS %s ON %s", j.Table, a, strings.Join(conds, " AND "))
}

// compileTerm renders a value expression.
func (c *SQLCompiler) compileTerm(t queryir.Term) (string, error) {
	switch term := t.(type) {
	case queryir.ColumnRef:
		return term.Table + "." + term.Column, nil
	case queryir.FactValue:
		return term.Alias + ".value", nil
	case queryir.MarketCap:
		return fmt.Sprintf("(%s.%s * %s.value)", term.Close.Table, term.Close.Column, term.Shares.Alias), nil
	case queryir.Number:
		// Real literals so integer-typed stores still divide exactly.
		return term.Digits + ".0", nil
	case queryir.Operator:
		return term.Symbol, nil
	case queryir.Arith:
		return c.compileArith(term)
	default:
		return "", fmt.Errorf("unsupported term type: %T", t)
	}
}

// compileArith joins parts with single spaces, except inside parentheses.
func (c *SQLCompiler) compileArith(a queryir.Arith) (string, error) {
	var b strings.Builder
	prevOpen := true
	for _, p := range a.Parts {
		s, err := c.compileTerm(p)
		if err != nil {
			return "", err
		}
		op, isOp := p.(queryir.Operator)
		if !prevOpen && !(isOp && op.Symbol == ")") {
			b.WriteByte(' ')
		}
		b.WriteString(s)
		prevOpen = isOp && op.Symbol == "("
	}
	return b.String(), nil
}
