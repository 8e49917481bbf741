package concept

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Resolve maps a raw bracketed token to its canonical Token.
// See Universe.Resolve.
func Resolve(raw string, u Universe) (Token, bool) {
	return u.Resolve(raw)
}

// Resolve maps a raw bracketed token to its canonical Token.
//
// Matching is case-insensitive and hyphens count as spaces. The first word
// of the token must be one of the universe's years and the remainder must
// name exactly one concept. The base concept is not directly selectable;
// it is only reachable through "[Market Cap]".
//
// Returns false when the token does not resolve.
func (u Universe) Resolve(raw string) (Token, bool) {
	content, ok := stripBrackets(raw)
	if !ok {
		return nil, false
	}
	if foldName(content) == foldName(MarketCapText) {
		return MarketCap{}, true
	}

	year, rest, ok := splitYear(content)
	if !ok || !u.HasYear(year) {
		return nil, false
	}

	want := foldName(rest)
	var match string
	found := 0
	for _, name := range u.Concepts {
		if u.Base != "" && name == u.Base {
			continue
		}
		if foldName(name) == want {
			match = name
			found++
		}
	}
	if found != 1 {
		return nil, false
	}
	return Concept{Year: year, Name: match}, true
}

// stripBrackets removes the surrounding brackets and trims the content.
// Input without both brackets is rejected.
func stripBrackets(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", false
	}
	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" || strings.ContainsAny(s, "[]") {
		return "", false
	}
	return s, true
}

// splitYear splits content into its first whitespace-delimited word and
// the remainder.
func splitYear(content string) (year, rest string, ok bool) {
	i := strings.IndexFunc(content, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}
	year = content[:i]
	rest = strings.TrimSpace(content[i:])
	if rest == "" {
		return "", "", false
	}
	return year, rest, true
}

// foldName case-folds a concept name, treats hyphens as spaces and
// collapses whitespace.
func foldName(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
