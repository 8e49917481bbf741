package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when a case outcome differs from the
// scenario's expectation.
type AssertionError struct {
	Case     int    // Index of the case in the scenario
	Formula  string // Formula under test
	Field    string // Outcome field that differs
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("cases[%d] %q: %s: expected %s, got %s",
		e.Case, e.Formula, e.Field, e.Expected, e.Actual)
}

// checkCase compares one case outcome with its expectation. Checks stop
// at the verdict: a wrong verdict makes the remaining fields moot.
func checkCase(index int, c Case, cr CaseResult) []*AssertionError {
	fail := func(field, expected, actual string) *AssertionError {
		return &AssertionError{Case: index, Formula: c.Formula, Field: field, Expected: expected, Actual: actual}
	}

	if c.Valid != cr.Valid {
		detail := fmt.Sprintf("%v", cr.Valid)
		if cr.Reason != "" {
			detail += fmt.Sprintf(" (%s)", cr.Reason)
		}
		return []*AssertionError{fail("valid", fmt.Sprintf("%v", c.Valid), detail)}
	}

	var failures []*AssertionError
	if c.Code != "" && c.Code != cr.Code {
		failures = append(failures, fail("code", c.Code, quoteEmpty(cr.Code)))
	}
	if c.Reason != "" && c.Reason != cr.Reason {
		failures = append(failures, fail("reason", fmt.Sprintf("%q", c.Reason), fmt.Sprintf("%q", cr.Reason)))
	}
	if c.Results != nil && !equalTickers(c.Results.Tickers, cr.Tickers) {
		failures = append(failures, fail("tickers", listTickers(c.Results.Tickers), listTickers(cr.Tickers)))
	}
	return failures
}

func equalTickers(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func listTickers(tickers []string) string {
	return "[" + strings.Join(tickers, ", ") + "]"
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
