package engine

import (
	"errors"
	"fmt"

	"github.com/jsripraj/stock-alchemy/internal/formula"
)

// RuntimeError represents an error detected while serving a request.
//
// Runtime errors include:
//   - Formula not found: no formula is stored under the requested id
//   - Invalid formula: validation or compilation rejected the formula
//   - Query failed: the store could not run the compiled query
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// FormulaID identifies the affected formula, when one is stored.
	FormulaID string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeFormulaNotFound indicates no formula has the requested id.
	ErrCodeFormulaNotFound RuntimeErrorCode = "FORMULA_NOT_FOUND"

	// ErrCodeInvalidFormula indicates the formula failed validation.
	ErrCodeInvalidFormula RuntimeErrorCode = "INVALID_FORMULA"

	// ErrCodeQueryFailed indicates the store rejected the compiled query.
	ErrCodeQueryFailed RuntimeErrorCode = "QUERY_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.FormulaID != "" {
		return fmt.Sprintf("%s: %s (formula=%s)", e.Code, e.Message, e.FormulaID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsNotFoundError returns true if the error is a formula not found error.
// Uses errors.As to handle wrapped errors.
func IsNotFoundError(err error) bool {
	return hasCode(err, ErrCodeFormulaNotFound)
}

// IsInvalidFormulaError returns true if the error is an invalid formula
// error.
func IsInvalidFormulaError(err error) bool {
	return hasCode(err, ErrCodeInvalidFormula)
}

// IsQueryError returns true if the error is a query failure.
func IsQueryError(err error) bool {
	return hasCode(err, ErrCodeQueryFailed)
}

// NewNotFoundError creates a RuntimeError for a missing formula.
func NewNotFoundError(id string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeFormulaNotFound,
		Message:   "formula not found",
		FormulaID: id,
		Err:       cause,
	}
}

// NewInvalidFormulaError creates a RuntimeError from a failed validation.
func NewInvalidFormulaError(id string, res formula.Result) *RuntimeError {
	re := &RuntimeError{
		Code:      ErrCodeInvalidFormula,
		Message:   res.Reason,
		FormulaID: id,
	}
	if res.Err != nil {
		re.Err = res.Err
		re.Details = map[string]string{
			"code": res.Err.Code,
			"kind": string(res.Err.Kind),
		}
	}
	return re
}

// NewQueryError creates a RuntimeError for a failed store query.
func NewQueryError(id string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeQueryFailed,
		Message:   "query failed",
		FormulaID: id,
		Err:       cause,
	}
}
