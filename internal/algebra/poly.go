package algebra

import (
	"math/big"
	"sort"
	"strings"
)

// poly is a multivariate polynomial keyed by monomial. A monomial key is
// the sorted list of its symbols joined by "*", with repeats for powers;
// the constant monomial has the empty key. Zero coefficients are never
// stored.
type poly map[string]*big.Rat

func constPoly(c *big.Rat) poly {
	p := poly{}
	if c.Sign() != 0 {
		p[""] = new(big.Rat).Set(c)
	}
	return p
}

func symbolPoly(name string) poly {
	return poly{name: big.NewRat(1, 1)}
}

func (p poly) isZero() bool {
	return len(p) == 0
}

func (p poly) add(q poly) poly {
	out := make(poly, len(p)+len(q))
	for k, c := range p {
		out[k] = new(big.Rat).Set(c)
	}
	for k, c := range q {
		if cur, ok := out[k]; ok {
			cur.Add(cur, c)
			if cur.Sign() == 0 {
				delete(out, k)
			}
			continue
		}
		out[k] = new(big.Rat).Set(c)
	}
	return out
}

func (p poly) neg() poly {
	out := make(poly, len(p))
	for k, c := range p {
		out[k] = new(big.Rat).Neg(c)
	}
	return out
}

func (p poly) scale(c *big.Rat) poly {
	if c.Sign() == 0 {
		return poly{}
	}
	out := make(poly, len(p))
	for k, v := range p {
		out[k] = new(big.Rat).Mul(v, c)
	}
	return out
}

func (p poly) mul(q poly) poly {
	out := poly{}
	for k1, c1 := range p {
		for k2, c2 := range q {
			k := mulMonomial(k1, k2)
			term := new(big.Rat).Mul(c1, c2)
			if cur, ok := out[k]; ok {
				cur.Add(cur, term)
				if cur.Sign() == 0 {
					delete(out, k)
				}
				continue
			}
			out[k] = term
		}
	}
	return out
}

func mulMonomial(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	syms := append(strings.Split(a, "*"), strings.Split(b, "*")...)
	sort.Strings(syms)
	return strings.Join(syms, "*")
}

func degree(key string) int {
	if key == "" {
		return 0
	}
	return strings.Count(key, "*") + 1
}

// monomials returns the keys of p ordered by descending degree, then
// lexically. The first key is the leading monomial.
func (p poly) monomials() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := degree(keys[i]), degree(keys[j])
		if di != dj {
			return di > dj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// constant returns the value of p when it has no symbols.
func (p poly) constant() (*big.Rat, bool) {
	switch len(p) {
	case 0:
		return new(big.Rat), true
	case 1:
		if c, ok := p[""]; ok {
			return new(big.Rat).Set(c), true
		}
	}
	return nil, false
}

func (p poly) String() string {
	if p.isZero() {
		return "0"
	}
	var b strings.Builder
	for i, k := range p.monomials() {
		c := p[k]
		abs := new(big.Rat).Abs(c)
		switch {
		case i == 0 && c.Sign() < 0:
			b.WriteString("-")
		case i > 0 && c.Sign() < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		one := abs.Cmp(big.NewRat(1, 1)) == 0
		switch {
		case k == "":
			b.WriteString(ratString(abs))
		case one:
			b.WriteString(k)
		default:
			b.WriteString(ratString(abs))
			b.WriteString("*")
			b.WriteString(k)
		}
	}
	return b.String()
}

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}
