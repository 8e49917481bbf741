package queryir

import (
	"fmt"
	"regexp"
)

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	digitPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ValidationResult reports whether a query may be rendered into SQL text.
type ValidationResult struct {
	// Trusted is true when every interpolated fragment is safe.
	Trusted bool

	// Violations lists every unsafe fragment. Empty when Trusted is true.
	Violations []string
}

// Validate checks a query against the interpolation rules:
//  1. Relations, aliases, labels and column names are plain identifiers
//  2. Years and numbers are digits
//  3. Operators are + - * / ( ) and the filter uses < or >
//  4. Join aliases are unique and every referenced alias is joined
//  5. Limit is not negative
//
// Validate is a pure function and reports every violation, not just the
// first.
func Validate(query Query) ValidationResult {
	v := &validator{violations: []string{}}
	v.validateQuery(query)

	return ValidationResult{
		Trusted:    len(v.violations) == 0,
		Violations: v.violations,
	}
}

type validator struct {
	violations []string
	joined     map[string]bool
	columns    map[string]bool
}

func (v *validator) addViolation(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *validator) ident(what, s string) {
	if !identPattern.MatchString(s) {
		v.addViolation("%s %q is not an identifier", what, s)
	}
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addViolation("nil query")
			return
		}
		v.validateSelect(*query)
	default:
		v.addViolation("unknown query type: %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	v.ident("relation", sel.From)

	v.joined = make(map[string]bool, len(sel.Joins))
	for _, j := range sel.Joins {
		v.validateJoin(j)
	}

	if len(sel.Columns) == 0 {
		v.addViolation("query selects no columns")
	}
	v.columns = make(map[string]bool, len(sel.Columns))
	for _, c := range sel.Columns {
		v.ident("column alias", c.Alias)
		if v.columns[c.Alias] {
			v.addViolation("duplicate column alias %q", c.Alias)
		}
		v.columns[c.Alias] = true
		v.validateTerm(c.Expr)
	}

	if sel.Filter.Op != "<" && sel.Filter.Op != ">" {
		v.addViolation("unsupported comparison %q", sel.Filter.Op)
	}
	v.columnRef(sel.Filter.Left)
	v.columnRef(sel.Filter.Right)

	for _, key := range sel.OrderBy {
		v.columnRef(key)
	}

	if sel.Limit < 0 {
		v.addViolation("negative limit %d", sel.Limit)
	}
}

func (v *validator) columnRef(alias string) {
	if !v.columns[alias] {
		v.addViolation("unknown column %q", alias)
	}
}

func (v *validator) validateJoin(j FactJoin) {
	v.ident("relation", j.Table)
	v.ident("join alias", j.Alias)
	v.ident("concept label", j.Label)
	v.ident("period", j.Period)
	if !digitPattern.MatchString(j.Year) {
		v.addViolation("year %q is not numeric", j.Year)
	}
	if len(j.Durations) == 0 {
		v.addViolation("join %q accepts no duration", j.Alias)
	}
	for _, d := range j.Durations {
		if d != DurationUnspecified {
			v.ident("duration", d)
		}
	}
	if v.joined[j.Alias] {
		v.addViolation("duplicate join alias %q", j.Alias)
	}
	v.joined[j.Alias] = true
}

func (v *validator) validateTerm(t Term) {
	switch term := t.(type) {
	case ColumnRef:
		v.ident("relation", term.Table)
		v.ident("column", term.Column)
	case FactValue:
		v.factValue(term)
	case MarketCap:
		v.ident("relation", term.Close.Table)
		v.ident("column", term.Close.Column)
		v.factValue(term.Shares)
	case Number:
		if !digitPattern.MatchString(term.Digits) {
			v.addViolation("number %q is not numeric", term.Digits)
		}
	case Operator:
		switch term.Symbol {
		case "+", "-", "*", "/", "(", ")":
		default:
			v.addViolation("unsupported operator %q", term.Symbol)
		}
	case Arith:
		if len(term.Parts) == 0 {
			v.addViolation("empty expression")
		}
		depth := 0
		for _, p := range term.Parts {
			if op, ok := p.(Operator); ok {
				switch op.Symbol {
				case "(":
					depth++
				case ")":
					depth--
				}
				if depth < 0 {
					v.addViolation("unbalanced parentheses")
					depth = 0
				}
			}
			if _, nested := p.(Arith); nested {
				v.addViolation("nested expression")
				continue
			}
			v.validateTerm(p)
		}
		if depth != 0 {
			v.addViolation("unbalanced parentheses")
		}
	default:
		v.addViolation("unknown term type: %T", t)
	}
}

func (v *validator) factValue(f FactValue) {
	v.ident("join alias", f.Alias)
	if !v.joined[f.Alias] {
		v.addViolation("alias %q is not joined", f.Alias)
	}
}
