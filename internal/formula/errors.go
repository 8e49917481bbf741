package formula

import (
	"errors"
	"fmt"
)

// Kind classifies a validation failure.
type Kind string

const (
	// StructuralError: zero or multiple inequality operators.
	StructuralError Kind = "StructuralError"

	// ConceptError: no concept token, or a token that does not resolve.
	ConceptError Kind = "ConceptError"

	// SyntaxError: a disallowed character or an empty or malformed side.
	SyntaxError Kind = "SyntaxError"

	// SemanticError: a non-finite side, implicit multiplication, or an
	// inequality that is constant.
	SemanticError Kind = "SemanticError"

	// BackendError: the facts store rejected the compiled query.
	BackendError Kind = "BackendError"
)

// Validation error codes (E201-E212)
const (
	ErrNoInequality       = "E201" // no < or >
	ErrTooManyInequality  = "E202" // more than one < or >
	ErrNoConcept          = "E203" // no bracketed token
	ErrInvalidConcept     = "E204" // token does not resolve
	ErrInvalidCharacter   = "E205" // character outside the arithmetic alphabet
	ErrEmptySide          = "E206" // nothing on one side of the comparison
	ErrMalformedSide      = "E207" // side does not parse
	ErrLeftNotFinite      = "E208" // left side divides by zero
	ErrRightNotFinite     = "E209" // right side divides by zero
	ErrImplicitProduct    = "E210" // adjacent operands without *
	ErrConstantInequality = "E211" // inequality independent of concept values
	ErrBackendRejected    = "E212" // store probe failed
)

// Error is the first validation failure of a formula.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// Token is the offending raw token or character, when there is one.
	Token string `json:"token,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// IsKind reports whether err is a formula *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// CodeOf returns the validation code of err, or "" when err is not a
// formula *Error.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
