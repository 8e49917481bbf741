package concept

import (
	"strconv"
	"strings"
	"unicode"
)

// Token is a resolved concept reference.
//
// This is a sealed interface: Concept and MarketCap are the only
// implementations, so switches over Token are exhaustive.
type Token interface {
	tokenNode()

	// Canonical returns the bracketed text of the token using the exact
	// casing of the universe, e.g. "[2023 Net Income]".
	Canonical() string
}

// Concept is a plain line item for one fiscal year.
type Concept struct {
	Year string
	Name string
}

func (Concept) tokenNode() {}

// Canonical implements Token.
func (c Concept) Canonical() string {
	return "[" + c.Year + " " + c.Name + "]"
}

// Label returns the concept label stored in the facts relation: each word
// of the name capitalized and concatenated ("Net Income" -> "NetIncome").
func (c Concept) Label() string {
	return identWords(c.Name)
}

// SQLName returns the join alias for this concept and year
// ("[2023 Net Income]" -> "NetIncome2023").
func (c Concept) SQLName() string {
	return c.Label() + c.Year
}

// MarketCapText is the bracket content of the Market Cap token.
const MarketCapText = "Market Cap"

// MarketCap is the derived close price × shares outstanding value.
type MarketCap struct{}

func (MarketCap) tokenNode() {}

// Canonical implements Token.
func (MarketCap) Canonical() string {
	return "[" + MarketCapText + "]"
}

// SQLName returns the fixed alias for Market Cap.
func (MarketCap) SQLName() string {
	return "MarketCap"
}

// Shares returns the shares-outstanding concept Market Cap multiplies the
// close price by.
func (MarketCap) Shares(mostRecentYear int) Concept {
	return Concept{Year: strconv.Itoa(mostRecentYear), Name: MarketCapBase}
}

// SQLName returns the alias of any token.
func SQLName(tok Token) string {
	switch t := tok.(type) {
	case Concept:
		return t.SQLName()
	case MarketCap:
		return t.SQLName()
	default:
		return ""
	}
}

// Parse reads an already canonical token without consulting a universe.
// The first word must be a year of digits; the remainder is taken as the
// concept name verbatim (whitespace collapsed).
func Parse(raw string) (Token, bool) {
	content, ok := stripBrackets(raw)
	if !ok {
		return nil, false
	}
	if foldName(content) == foldName(MarketCapText) {
		return MarketCap{}, true
	}
	year, rest, ok := splitYear(content)
	if !ok || !isDigits(year) {
		return nil, false
	}
	return Concept{Year: year, Name: strings.Join(strings.Fields(rest), " ")}, true
}

// identWords capitalizes each word of name and concatenates them. Words
// are split on whitespace and hyphens; anything that is not a letter or
// digit is dropped so the result is always a plain identifier fragment.
func identWords(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	var b strings.Builder
	for _, w := range words {
		first := true
		for _, r := range w {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				continue
			}
			if first {
				r = unicode.ToUpper(r)
				first = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
