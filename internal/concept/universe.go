package concept

import "strconv"

// MarketCapBase is the concept Market Cap is derived from.
const MarketCapBase = "Shares Outstanding"

// DefaultConcepts lists the line items offered by the formula builder,
// in display order.
var DefaultConcepts = []string{
	MarketCapBase,
	"Cash and Cash Equivalents",
	"Assets",
	"Short-Term Debt",
	"Long-Term Debt",
	"Equity",
	"Revenue",
	"Net Income",
	"Cash Flow from Operating Activities",
	"Cash Flow from Investing Activities",
	"Cash Flow from Financing Activities",
	"Capital Expenditures",
	"Dividends",
}

// DefaultYearCount is the number of fiscal years offered by default.
const DefaultYearCount = 10

// Universe is the set of years and concept names tokens may refer to.
// A Universe is never mutated after construction.
type Universe struct {
	// Years in display order, most recent first.
	Years []string

	// Concepts in display order.
	Concepts []string

	// Base names the concept that only participates through Market Cap.
	// It cannot be referenced directly. Empty means every concept is
	// directly selectable.
	Base string
}

// NewUniverse creates a Universe over the given years and concepts with
// MarketCapBase as its base concept.
func NewUniverse(years, concepts []string) Universe {
	return Universe{
		Years:    append([]string(nil), years...),
		Concepts: append([]string(nil), concepts...),
		Base:     MarketCapBase,
	}
}

// DefaultUniverse returns the builder's default universe: DefaultYearCount
// years ending at mostRecentYear and DefaultConcepts.
func DefaultUniverse(mostRecentYear int) Universe {
	return NewUniverse(YearsEndingAt(mostRecentYear, DefaultYearCount), DefaultConcepts)
}

// YearsEndingAt returns n years counting down from mostRecent.
func YearsEndingAt(mostRecent, n int) []string {
	if n <= 0 {
		return []string{}
	}
	years := make([]string, n)
	for i := range years {
		years[i] = strconv.Itoa(mostRecent - i)
	}
	return years
}

// HasYear reports whether year is offered by the universe.
func (u Universe) HasYear(year string) bool {
	for _, y := range u.Years {
		if y == year {
			return true
		}
	}
	return false
}
