package algebra

import "fmt"

// Op is an inequality operator.
type Op string

const (
	Less    Op = "<"
	Greater Op = ">"
)

// ParseOp converts "<" or ">" to an Op.
func ParseOp(s string) (Op, error) {
	switch Op(s) {
	case Less, Greater:
		return Op(s), nil
	}
	return "", fmt.Errorf("unsupported comparison operator %q", s)
}

// Compare reduces "left op right" to left - right. When the difference
// does not depend on any symbol the inequality is constant and truth
// holds its value. A non-finite side is never constant.
func Compare(left, right Rational, op Op) (truth, constant bool) {
	diff := left.Sub(right)
	c, ok := diff.Constant()
	if !ok {
		return false, false
	}
	switch op {
	case Less:
		return c.Sign() < 0, true
	case Greater:
		return c.Sign() > 0, true
	}
	return false, false
}
