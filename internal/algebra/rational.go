package algebra

import "math/big"

// Rational is a simplified expression N/D. The zero value is the
// constant 0.
type Rational struct {
	num, den poly
	inf      bool
	overflow bool
}

// Infinity is the result of dividing by an expression that simplifies
// to zero.
var Infinity = Rational{inf: true}

// MaxTerms bounds the number of monomials in an expanded numerator or
// denominator.
const MaxTerms = 10000

// tooComplex is the result of an operation whose expansion would exceed
// MaxTerms. It absorbs every later operation.
var tooComplex = Rational{overflow: true}

// exceeds reports whether a sum of products of the given term counts can
// exceed MaxTerms. Counts come in pairs.
func exceeds(counts ...int) bool {
	total := 0
	for i := 0; i+1 < len(counts); i += 2 {
		total += counts[i] * counts[i+1]
		if total > MaxTerms {
			return true
		}
	}
	return false
}

func constant(c *big.Rat) Rational {
	return Rational{num: constPoly(c), den: constPoly(big.NewRat(1, 1))}
}

func symbol(name string) Rational {
	return Rational{num: symbolPoly(name), den: constPoly(big.NewRat(1, 1))}
}

func (r Rational) denominator() poly {
	if r.den == nil {
		return constPoly(big.NewRat(1, 1))
	}
	return r.den
}

// IsFinite reports whether no division by zero occurred.
func (r Rational) IsFinite() bool {
	return !r.inf
}

// TooComplex reports whether expansion stopped at MaxTerms. The value
// carries no other information.
func (r Rational) TooComplex() bool {
	return r.overflow
}

// Add returns r + s.
func (r Rational) Add(s Rational) Rational {
	if r.overflow || s.overflow {
		return tooComplex
	}
	if r.inf || s.inf {
		return Infinity
	}
	rd, sd := r.denominator(), s.denominator()
	if exceeds(len(r.num), len(sd), len(s.num), len(rd)) || exceeds(len(rd), len(sd)) {
		return tooComplex
	}
	return Rational{
		num: r.num.mul(sd).add(s.num.mul(rd)),
		den: rd.mul(sd),
	}.normalize()
}

// Sub returns r - s.
func (r Rational) Sub(s Rational) Rational {
	return r.Add(s.Neg())
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	if r.overflow {
		return tooComplex
	}
	if r.inf {
		return Infinity
	}
	return Rational{num: r.num.neg(), den: r.denominator()}
}

// Mul returns r * s.
func (r Rational) Mul(s Rational) Rational {
	if r.overflow || s.overflow {
		return tooComplex
	}
	if r.inf || s.inf {
		return Infinity
	}
	rd, sd := r.denominator(), s.denominator()
	if exceeds(len(r.num), len(s.num)) || exceeds(len(rd), len(sd)) {
		return tooComplex
	}
	return Rational{
		num: r.num.mul(s.num),
		den: rd.mul(sd),
	}.normalize()
}

// Quo returns r / s. Dividing by zero yields Infinity.
func (r Rational) Quo(s Rational) Rational {
	if r.overflow || s.overflow {
		return tooComplex
	}
	if r.inf || s.inf || s.num.isZero() {
		return Infinity
	}
	rd, sd := r.denominator(), s.denominator()
	if exceeds(len(r.num), len(sd)) || exceeds(len(rd), len(s.num)) {
		return tooComplex
	}
	return Rational{
		num: r.num.mul(sd),
		den: rd.mul(s.num),
	}.normalize()
}

// Constant returns the value of r when it does not depend on any symbol.
// N/D is constant exactly when N = c·D for a rational c.
func (r Rational) Constant() (*big.Rat, bool) {
	if r.inf || r.overflow {
		return nil, false
	}
	if r.num.isZero() {
		return new(big.Rat), true
	}
	den := r.denominator()
	lead := den.monomials()[0]
	n, ok := r.num[lead]
	if !ok {
		return nil, false
	}
	c := new(big.Rat).Quo(n, den[lead])
	if !r.num.add(den.scale(c).neg()).isZero() {
		return nil, false
	}
	return c, true
}

// normalize makes the leading coefficient of the denominator 1 and
// collapses constant results to c/1.
func (r Rational) normalize() Rational {
	if r.inf || r.overflow {
		return r
	}
	if c, ok := r.Constant(); ok {
		return constant(c)
	}
	den := r.denominator()
	lead := den[den.monomials()[0]]
	if lead.Cmp(big.NewRat(1, 1)) == 0 {
		return r
	}
	inv := new(big.Rat).Inv(lead)
	return Rational{num: r.num.scale(inv), den: den.scale(inv)}
}

// String renders the simplified form. Non-finite values render as "inf".
func (r Rational) String() string {
	if r.overflow {
		return "?"
	}
	if r.inf {
		return "inf"
	}
	if c, ok := r.Constant(); ok {
		return ratString(c)
	}
	den := r.denominator()
	if c, ok := den.constant(); ok && c.Cmp(big.NewRat(1, 1)) == 0 {
		return r.num.String()
	}
	return "(" + r.num.String() + ")/(" + den.String() + ")"
}
