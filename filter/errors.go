package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFilter is returned for empty or whitespace-only input.
	ErrEmptyFilter = errors.New("empty filter")
	// ErrMissingOpenParen is returned when a filter does not start with '('.
	ErrMissingOpenParen = errors.New("missing opening parenthesis")
	// ErrMissingCloseParen is returned when input ends inside a filter.
	ErrMissingCloseParen = errors.New("missing closing parenthesis")
	// ErrMissingAttribute is returned for a comparison without attribute name.
	ErrMissingAttribute = errors.New("missing attribute name")
	// ErrUnknownOperator is returned when no valid operator follows the name.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrConsecutiveWildcards is returned for "**" in a substring operand.
	ErrConsecutiveWildcards = errors.New("consecutive wildcards")
	// ErrUnescapedParen is returned for a bare '(' inside an operand.
	ErrUnescapedParen = errors.New("unescaped parenthesis in operand")
	// ErrInvalidNot is returned when "!" has more than one operand.
	ErrInvalidNot = errors.New("not requires exactly one operand")
	// ErrTrailingData is returned when input continues after the top-level filter.
	ErrTrailingData = errors.New("only one top-level filter allowed")
	// ErrInvalidRange is returned for malformed version range text.
	ErrInvalidRange = errors.New("invalid version range")
)

// ParseError describes where parsing failed.
//
// The failure class is available via errors.Is against the Err* sentinels.
type ParseError struct {
	Input    string
	Offset   int
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("filter: %v at offset %d: %q", e.Err, e.Offset, e.Fragment)
}

func (e *ParseError) Unwrap() error { return e.Err }
