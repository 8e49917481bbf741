package formula

import (
	"fmt"
	"strings"

	"github.com/jsripraj/stock-alchemy/internal/concept"
)

// Substitute replaces every concept token in formula with a parenthesized
// synthetic id: the first distinct concept becomes "(x1)", the next
// "(x2)", and so on. Tokens that resolve to the same canonical concept
// share an id regardless of casing.
//
// The returned map is keyed by canonical token. An error is returned for
// the first token that does not resolve.
func Substitute(formula string, u concept.Universe) (string, map[string]string, error) {
	ids := make(map[string]string)
	for _, raw := range concept.ExtractTokens(formula) {
		tok, ok := u.Resolve(raw)
		if !ok {
			return "", nil, fmt.Errorf("unresolvable token %s", raw)
		}
		if _, seen := ids[tok.Canonical()]; !seen {
			ids[tok.Canonical()] = fmt.Sprintf("x%d", len(ids)+1)
		}
	}

	expr := concept.ReplaceTokens(formula, func(raw string) string {
		tok, _ := u.Resolve(raw)
		return "(" + ids[tok.Canonical()] + ")"
	})
	return expr, ids, nil
}

// splitInequality splits text at its single comparison operator.
func splitInequality(text string) (left, op, right string, ok bool) {
	i := strings.IndexAny(text, "<>")
	if i < 0 {
		return "", "", "", false
	}
	return text[:i], text[i : i+1], text[i+1:], true
}

func countInequalities(text string) int {
	return strings.Count(text, "<") + strings.Count(text, ">")
}
