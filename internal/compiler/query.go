package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jsripraj/stock-alchemy/internal/concept"
	"github.com/jsripraj/stock-alchemy/internal/queryir"
	"github.com/jsripraj/stock-alchemy/internal/querysql"
)

// ErrNoInequality is returned when a formula does not split into exactly
// one left side, one comparison and one right side. Callers validate
// formulas first, so this signals a contract violation.
var ErrNoInequality = errors.New("formula is not a single inequality")

// Relations and columns of the facts store.
const (
	CompaniesTable = "companies"
	FactsTable     = "facts"
)

// sidePattern splits one side of a formula into tokens, numerals,
// operators and whitespace. The final alternative catches anything else.
var sidePattern = regexp.MustCompile(`\[[^\[\]]+\]|[0-9]+|[-+*/()]|\s+|.`)

// CompileError reports a formula fragment the compiler cannot translate.
type CompileError struct {
	Field   string
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type resolver func(raw string) (concept.Token, bool)

// CompileQuery compiles an already validated formula to SQL. Tokens are
// read structurally ("[<year> <Concept>]" or "[Market Cap]") without a
// universe, so an unknown concept name is not an error: it compiles to a
// join on a label no fact carries and the query returns no rows. Use
// Compiler to reject tokens outside a universe. A limit of 0 means
// unlimited.
func CompileQuery(formula string, mostRecentYear, limit int) (string, error) {
	q, err := build(formula, concept.Parse, mostRecentYear, limit)
	if err != nil {
		return "", err
	}
	return querysql.NewSQLCompiler().Compile(q)
}

// Compiler compiles formulas whose tokens resolve through a universe.
type Compiler struct {
	universe       concept.Universe
	mostRecentYear int
	sql            *querysql.SQLCompiler
}

// New creates a Compiler. Market Cap uses shares outstanding of
// mostRecentYear.
func New(u concept.Universe, mostRecentYear int) *Compiler {
	return &Compiler{
		universe:       u,
		mostRecentYear: mostRecentYear,
		sql:            querysql.NewSQLCompiler(),
	}
}

// MostRecentYear returns the year Market Cap is computed for.
func (c *Compiler) MostRecentYear() int {
	return c.mostRecentYear
}

// Build compiles formula to QueryIR.
func (c *Compiler) Build(formula string, limit int) (queryir.Select, error) {
	return build(formula, c.universe.Resolve, c.mostRecentYear, limit)
}

// Compile compiles formula to SQL.
func (c *Compiler) Compile(formula string, limit int) (string, error) {
	q, err := c.Build(formula, limit)
	if err != nil {
		return "", err
	}
	return c.sql.Compile(q)
}

func build(formula string, resolve resolver, mostRecentYear, limit int) (queryir.Select, error) {
	formula = concept.Normalize(formula)
	if limit < 0 {
		return queryir.Select{}, &CompileError{Field: "limit", Message: fmt.Sprintf("negative limit %d", limit)}
	}

	i := strings.IndexAny(formula, "<>")
	if i < 0 || strings.ContainsAny(formula[i+1:], "<>") {
		return queryir.Select{}, ErrNoInequality
	}
	leftSrc, op, rightSrc := formula[:i], formula[i:i+1], formula[i+1:]

	b := &builder{
		resolve:        resolve,
		mostRecentYear: mostRecentYear,
		terms:          make(map[string]queryir.Term),
		joined:         make(map[string]bool),
	}
	for _, raw := range concept.ExtractTokens(formula) {
		if err := b.addToken(raw); err != nil {
			return queryir.Select{}, err
		}
	}

	left, err := b.side("left", leftSrc)
	if err != nil {
		return queryir.Select{}, err
	}
	right, err := b.side("right", rightSrc)
	if err != nil {
		return queryir.Select{}, err
	}

	return queryir.Select{
		From: CompaniesTable,
		Columns: []queryir.Column{
			{Expr: queryir.ColumnRef{Table: CompaniesTable, Column: "ticker"}, Alias: "ticker"},
			{Expr: queryir.ColumnRef{Table: CompaniesTable, Column: "company"}, Alias: "company"},
			{Expr: left, Alias: "leftSide"},
			{Expr: right, Alias: "rightSide"},
		},
		Joins:   b.joins,
		Filter:  queryir.Comparison{Left: "leftSide", Op: op, Right: "rightSide"},
		OrderBy: []string{"ticker"},
		Limit:   limit,
	}, nil
}

// builder collects the select term of every raw token and the joins they
// need, in first-appearance order.
type builder struct {
	resolve        resolver
	mostRecentYear int
	terms          map[string]queryir.Term
	joins          []queryir.FactJoin
	joined         map[string]bool
}

func (b *builder) addToken(raw string) error {
	tok, ok := b.resolve(raw)
	if !ok {
		return &CompileError{Field: "token", Message: fmt.Sprintf("unresolvable token %s", raw)}
	}

	switch t := tok.(type) {
	case concept.Concept:
		b.join(t)
		b.terms[raw] = queryir.FactValue{Alias: t.SQLName()}
	case concept.MarketCap:
		shares := t.Shares(b.mostRecentYear)
		b.join(shares)
		b.terms[raw] = queryir.MarketCap{
			Close:  queryir.ColumnRef{Table: CompaniesTable, Column: "close"},
			Shares: queryir.FactValue{Alias: shares.SQLName()},
		}
	default:
		return &CompileError{Field: "token", Message: fmt.Sprintf("unsupported token %T", tok)}
	}
	return nil
}

func (b *builder) join(c concept.Concept) {
	alias := c.SQLName()
	if b.joined[alias] {
		return
	}
	b.joined[alias] = true
	b.joins = append(b.joins, queryir.FactJoin{
		Table:     FactsTable,
		Alias:     alias,
		Label:     c.Label(),
		Year:      c.Year,
		Period:    queryir.PeriodQ4,
		Durations: []string{queryir.DurationYear, queryir.DurationUnspecified},
	})
}

// side translates one side of the inequality into an arithmetic term.
func (b *builder) side(name, src string) (queryir.Arith, error) {
	var parts []queryir.Term
	for _, lex := range sidePattern.FindAllString(src, -1) {
		switch {
		case strings.TrimSpace(lex) == "":
			continue
		case b.terms[lex] != nil:
			parts = append(parts, b.terms[lex])
		case lex[0] >= '0' && lex[0] <= '9':
			digits := strings.TrimLeft(lex, "0")
			if digits == "" {
				digits = "0"
			}
			parts = append(parts, queryir.Number{Digits: digits})
		case strings.Contains("+-*/()", lex):
			parts = append(parts, queryir.Operator{Symbol: lex})
		default:
			return queryir.Arith{}, &CompileError{
				Field:   name + " side",
				Message: fmt.Sprintf("unexpected character %q", lex),
			}
		}
	}
	if len(parts) == 0 {
		return queryir.Arith{}, &CompileError{Field: name + " side", Message: "empty expression"}
	}
	return queryir.Arith{Parts: parts}, nil
}
