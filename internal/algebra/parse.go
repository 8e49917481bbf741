package algebra

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

// SyntaxError reports an expression that cannot be parsed or contains a
// construct outside plain arithmetic.
type SyntaxError struct {
	Src string
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q: %s", e.Src, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// ErrTooComplex is wrapped by the SyntaxError returned for an expression
// whose expanded form exceeds MaxTerms monomials.
var ErrTooComplex = errors.New("expression too complex to simplify")

// Expr is a parsed arithmetic expression.
type Expr struct {
	src      string
	value    Rational
	implicit bool
}

// Parse parses one side of an id-substituted formula.
//
// The accepted language is integer literals, identifiers, the binary
// operators + - * /, unary + and -, and parentheses. Numerals lose their
// leading zeros. Two adjacent operands are read as a product and recorded
// as implicit; see HasImplicitProduct.
func Parse(src string) (*Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, &SyntaxError{Src: src, Msg: "empty expression"}
	}

	var (
		b        strings.Builder
		implicit bool
	)
	for i, t := range toks {
		if i > 0 {
			if toks[i-1].endsOperand() && t.startsOperand() {
				implicit = true
				b.WriteString(" * ")
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.text)
	}

	node, err := parser.ParseExpr("expr", b.String())
	if err != nil {
		return nil, &SyntaxError{Src: src, Msg: "malformed expression", Err: err}
	}
	e := &Expr{src: b.String(), implicit: implicit}
	if e.value, err = e.eval(node); err != nil {
		return nil, err
	}
	if e.value.TooComplex() {
		return nil, &SyntaxError{Src: src, Msg: ErrTooComplex.Error(), Err: ErrTooComplex}
	}
	return e, nil
}

// String returns the normalized source of the expression, with implicit
// products written out.
func (e *Expr) String() string {
	return e.src
}

// HasImplicitProduct reports whether the expression relied on adjacency
// instead of an explicit "*".
func (e *Expr) HasImplicitProduct() bool {
	return e.implicit
}

// Simplify reduces the expression to its canonical rational form.
func (e *Expr) Simplify() Rational {
	return e.value
}

// Eval parses and simplifies src.
func Eval(src string) (Rational, error) {
	e, err := Parse(src)
	if err != nil {
		return Rational{}, err
	}
	return e.Simplify(), nil
}

func (e *Expr) eval(n ast.Expr) (Rational, error) {
	switch n := n.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT {
			return Rational{}, e.unsupported(n.Value)
		}
		c, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return Rational{}, e.unsupported(n.Value)
		}
		return constant(c), nil

	case *ast.Ident:
		return symbol(n.Name), nil

	case *ast.ParenExpr:
		return e.eval(n.X)

	case *ast.UnaryExpr:
		x, err := e.eval(n.X)
		if err != nil {
			return Rational{}, err
		}
		switch n.Op {
		case token.ADD:
			return x, nil
		case token.SUB:
			return x.Neg(), nil
		}
		return Rational{}, e.unsupported(n.Op.String())

	case *ast.BinaryExpr:
		x, err := e.eval(n.X)
		if err != nil {
			return Rational{}, err
		}
		y, err := e.eval(n.Y)
		if err != nil {
			return Rational{}, err
		}
		switch n.Op {
		case token.ADD:
			return x.Add(y), nil
		case token.SUB:
			return x.Sub(y), nil
		case token.MUL:
			return x.Mul(y), nil
		case token.QUO:
			return x.Quo(y), nil
		}
		return Rational{}, e.unsupported(n.Op.String())

	case *ast.CallExpr:
		e.implicit = true
		r, err := e.eval(n.Fun)
		if err != nil {
			return Rational{}, err
		}
		for _, arg := range n.Args {
			a, err := e.eval(arg)
			if err != nil {
				return Rational{}, err
			}
			r = r.Mul(a)
		}
		return r, nil
	}
	return Rational{}, e.unsupported(fmt.Sprintf("%T", n))
}

func (e *Expr) unsupported(what string) error {
	return &SyntaxError{Src: e.src, Msg: fmt.Sprintf("unsupported construct %q", what)}
}

type lexKind int

const (
	lexNumber lexKind = iota
	lexIdent
	lexOp
	lexOpen
	lexClose
)

type lexToken struct {
	kind lexKind
	text string
}

func (t lexToken) endsOperand() bool {
	return t.kind == lexNumber || t.kind == lexIdent || t.kind == lexClose
}

func (t lexToken) startsOperand() bool {
	return t.kind == lexNumber || t.kind == lexIdent || t.kind == lexOpen
}

// lex splits src into arithmetic tokens, dropping whitespace.
func lex(src string) ([]lexToken, error) {
	var toks []lexToken
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case strings.IndexByte(" \t\n\r\f\v", c) >= 0:
			i++
		case isDigit(c):
			j := i
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			num := strings.TrimLeft(src[i:j], "0")
			if num == "" {
				num = "0"
			}
			toks = append(toks, lexToken{kind: lexNumber, text: num})
			i = j
		case isLetter(c):
			j := i
			for j < len(src) && (isLetter(src[j]) || isDigit(src[j])) {
				j++
			}
			toks = append(toks, lexToken{kind: lexIdent, text: src[i:j]})
			i = j
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, lexToken{kind: lexOp, text: string(c)})
			i++
		case c == '(':
			toks = append(toks, lexToken{kind: lexOpen, text: "("})
			i++
		case c == ')':
			toks = append(toks, lexToken{kind: lexClose, text: ")"})
			i++
		default:
			return nil, &SyntaxError{Src: src, Msg: fmt.Sprintf("unexpected character %q", rune(c))}
		}
	}
	return toks, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
