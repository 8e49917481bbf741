// Package algebra simplifies the arithmetic sides of a formula.
//
// Expressions are parsed with the CUE expression parser and reduced to a
// canonical rational function N/D over multivariate polynomials with exact
// rational coefficients. Identifiers are opaque formal symbols that are
// assumed nonzero, so "x1/x1" simplifies to 1 while "x1/0" and
// "x1/(x2-x2)" are non-finite.
//
// Juxtaposed operands ("(x1)(x2)", "2 3") are read as a product and
// recorded, so callers can reject formulas that rely on implicit
// multiplication after the finiteness check has run.
package algebra
