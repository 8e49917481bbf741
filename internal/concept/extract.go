package concept

import (
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// tokenPattern matches a non-empty bracketed span with no nested brackets.
var tokenPattern = regexp.MustCompile(`\[[^\[\]]+\]`)

// spanPattern also matches empty brackets so the highlighter can mark them.
var spanPattern = regexp.MustCompile(`\[[^\[\]]*\]`)

// ExtractTokens returns the distinct raw tokens in formula.
//
// Duplicates are collapsed; the result is ordered by first appearance so
// that anything derived from it (ids, join order) is deterministic.
func ExtractTokens(formula string) []string {
	matches := tokenPattern.FindAllString(formula, -1)
	seen := make(map[string]bool, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		tokens = append(tokens, m)
	}
	return tokens
}

// ReplaceTokens returns a copy of formula with every raw token replaced by
// the result of fn.
func ReplaceTokens(formula string, fn func(raw string) string) string {
	return tokenPattern.ReplaceAllStringFunc(formula, fn)
}

// Normalize returns formula in Unicode normalization form C.
func Normalize(formula string) string {
	return norm.NFC.String(formula)
}

// Span is one segment of formula text for display.
type Span struct {
	// Text is the segment exactly as it appears in the formula.
	Text string

	// Bracketed is true for "[...]" segments.
	Bracketed bool

	// Token is set when a bracketed segment resolves.
	Token Token
}

// Display returns the canonical token text for resolved spans and the raw
// text otherwise.
func (s Span) Display() string {
	if s.Token != nil {
		return s.Token.Canonical()
	}
	return s.Text
}

// Highlight splits formula into alternating plain and bracketed spans in
// input order. Empty segments are dropped.
func Highlight(formula string, u Universe) []Span {
	spans := []Span{}
	last := 0
	for _, loc := range spanPattern.FindAllStringIndex(formula, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: formula[last:loc[0]]})
		}
		raw := formula[loc[0]:loc[1]]
		span := Span{Text: raw, Bracketed: true}
		if tok, ok := u.Resolve(raw); ok {
			span.Token = tok
		}
		spans = append(spans, span)
		last = loc[1]
	}
	if last < len(formula) {
		spans = append(spans, Span{Text: formula[last:]})
	}
	return spans
}
