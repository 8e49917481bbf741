package formula

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jsripraj/stock-alchemy/internal/algebra"
	"github.com/jsripraj/stock-alchemy/internal/concept"
)

// Result is the verdict of validating one formula.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
	Err    *Error `json:"error,omitempty"`

	// Expr is the id-substituted expression, set once substitution ran.
	Expr string `json:"expr,omitempty"`
}

func valid(expr string) Result {
	return Result{Valid: true, Expr: expr}
}

func invalid(err *Error, expr string) Result {
	return Result{Reason: err.Message, Err: err, Expr: expr}
}

// Prober checks that the facts store accepts the query compiled from a
// formula.
type Prober interface {
	Probe(ctx context.Context, formula string) error
}

// Validator validates formulas against one concept universe.
// A Validator holds no mutable state and is safe for concurrent use.
type Validator struct {
	universe concept.Universe
	prober   Prober
	logger   *zap.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithProber enables the final store probe.
func WithProber(p Prober) Option {
	return func(v *Validator) {
		v.prober = p
	}
}

// WithLogger sets the logger used for probe failures.
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewValidator creates a Validator over u.
func NewValidator(u concept.Universe, opts ...Option) *Validator {
	v := &Validator{universe: u, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the pure validation steps against u. No store is
// consulted.
func Validate(formula string, u concept.Universe) Result {
	return NewValidator(u).Validate(context.Background(), formula)
}

// Validate checks formula and returns the first failure, if any.
//
// The checks run in order and stop at the first failure: inequality
// arity, concept presence, concept resolution, character hygiene,
// finiteness of each side, implicit multiplication, constant inequality,
// and finally the store probe when a Prober is configured. Probe errors
// are logged and reported as a generic "invalid formula".
func (v *Validator) Validate(ctx context.Context, formula string) Result {
	formula = concept.Normalize(formula)

	switch n := countInequalities(formula); {
	case n == 0:
		return invalid(newError(StructuralError, ErrNoInequality, "formula must be an inequality"), "")
	case n > 1:
		return invalid(newError(StructuralError, ErrTooManyInequality, "formula has too many inequality operators"), "")
	}

	tokens := concept.ExtractTokens(formula)
	if len(tokens) == 0 {
		return invalid(newError(ConceptError, ErrNoConcept, "formula must contain at least one concept"), "")
	}
	for _, raw := range tokens {
		if _, ok := v.universe.Resolve(raw); !ok {
			e := newError(ConceptError, ErrInvalidConcept, fmt.Sprintf("invalid concept: %s", raw))
			e.Token = raw
			return invalid(e, "")
		}
	}

	if r, ok := invalidCharacter(formula); ok {
		e := newError(SyntaxError, ErrInvalidCharacter, fmt.Sprintf("invalid character: %q", r))
		e.Token = string(r)
		return invalid(e, "")
	}

	expr, _, err := Substitute(formula, v.universe)
	if err != nil {
		// Every token resolved above.
		return invalid(newError(ConceptError, ErrInvalidConcept, err.Error()), "")
	}

	leftSrc, opText, rightSrc, _ := splitInequality(expr)
	op, err := algebra.ParseOp(opText)
	if err != nil {
		return invalid(newError(StructuralError, ErrNoInequality, "formula must be an inequality"), expr)
	}

	left, failure := parseSide("left", leftSrc)
	if failure != nil {
		return invalid(failure, expr)
	}
	right, failure := parseSide("right", rightSrc)
	if failure != nil {
		return invalid(failure, expr)
	}

	lv, rv := left.Simplify(), right.Simplify()
	if !lv.IsFinite() {
		return invalid(newError(SemanticError, ErrLeftNotFinite, "left side does not evaluate to a finite number"), expr)
	}
	if !rv.IsFinite() {
		return invalid(newError(SemanticError, ErrRightNotFinite, "right side does not evaluate to a finite number"), expr)
	}

	if left.HasImplicitProduct() || right.HasImplicitProduct() {
		return invalid(newError(SemanticError, ErrImplicitProduct, "formula contains implicit multiplication"), expr)
	}

	if lv.Sub(rv).TooComplex() {
		return invalid(newError(SyntaxError, ErrMalformedSide, "formula is too complex to simplify"), expr)
	}
	if truth, constant := algebra.Compare(lv, rv, op); constant {
		word := "False"
		if truth {
			word = "True"
		}
		return invalid(newError(SemanticError, ErrConstantInequality, "formula evaluates to boolean "+word), expr)
	}

	if v.prober != nil {
		if err := v.prober.Probe(ctx, formula); err != nil {
			v.logger.Warn("formula rejected by store",
				zap.String("formula", formula),
				zap.Error(err))
			return invalid(newError(BackendError, ErrBackendRejected, "invalid formula"), expr)
		}
	}

	v.logger.Debug("formula valid", zap.String("expr", expr))
	return valid(expr)
}

// parseSide parses one side of the substituted expression.
func parseSide(side, src string) (*algebra.Expr, *Error) {
	if strings.TrimSpace(src) == "" {
		return nil, newError(SyntaxError, ErrEmptySide, side+" side is empty")
	}
	e, err := algebra.Parse(src)
	if errors.Is(err, algebra.ErrTooComplex) {
		return nil, newError(SyntaxError, ErrMalformedSide, side+" side is too complex to simplify")
	}
	if err != nil {
		return nil, newError(SyntaxError, ErrMalformedSide, side+" side is malformed")
	}
	return e, nil
}

// invalidCharacter returns the first character outside the arithmetic
// alphabet once every token has been replaced by a placeholder numeral.
func invalidCharacter(formula string) (rune, bool) {
	rest := concept.ReplaceTokens(formula, func(string) string { return "1" })
	for _, r := range rest {
		if r >= '0' && r <= '9' {
			continue
		}
		if strings.ContainsRune("+-*/()<> \t\n\r\f\v", r) {
			continue
		}
		return r, true
	}
	return 0, false
}
